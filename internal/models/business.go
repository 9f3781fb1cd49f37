package models

import (
	"time"
)

// Business entities below sit outside the knowledge base. The portal only
// writes them from the demo seeder.

// Customer is a trading account
type Customer struct {
	ID             int64             `json:"id" db:"id" yaml:"-"`
	AccountNumber  string            `json:"account_number" db:"account_number" yaml:"account_number"`
	Name           string            `json:"name" db:"name" yaml:"name"`
	ContactName    string            `json:"contact_name" db:"contact_name" yaml:"contact_name"`
	Phone          string            `json:"phone" db:"phone" yaml:"phone"`
	Email          string            `json:"email" db:"email" yaml:"email"`
	Notes          string            `json:"notes" db:"notes" yaml:"notes"`
	CallsheetNotes string            `json:"callsheet_notes" db:"callsheet_notes" yaml:"callsheet_notes"`
	Addresses      []CustomerAddress `json:"addresses,omitempty" db:"-" yaml:"addresses"`
}

// CustomerAddress is a delivery location for a customer
type CustomerAddress struct {
	ID         int64  `json:"id" db:"id" yaml:"-"`
	CustomerID int64  `json:"customer_id" db:"customer_id" yaml:"-"`
	Label      string `json:"label" db:"label" yaml:"label"`
	Phone      string `json:"phone" db:"phone" yaml:"phone"`
	Street     string `json:"street" db:"street" yaml:"street"`
	City       string `json:"city" db:"city" yaml:"city"`
	Zip        string `json:"zip" db:"zip" yaml:"zip"`
	IsPrimary  bool   `json:"is_primary" db:"is_primary" yaml:"is_primary"`
}

// Product is a catalogue line
type Product struct {
	ID          int64  `json:"id" db:"id" yaml:"-"`
	Code        string `json:"code" db:"code" yaml:"code"`
	Name        string `json:"name" db:"name" yaml:"name"`
	Description string `json:"description" db:"description" yaml:"description"`
}

// Callsheet is a list of customers to phone on a given day
type Callsheet struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	DayOfWeek string    `json:"day_of_week" db:"day_of_week"`
	Month     int       `json:"month" db:"month"`
	Year      int       `json:"year" db:"year"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy int64     `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Call outcomes recorded on a callsheet entry
const (
	CallNotCalled = "not_called"
	CallOrdered   = "ordered"
	CallNoAnswer  = "no_answer"
	CallDeclined  = "declined"
	CallCallback  = "callback"
)

// CallsheetEntry is one customer line on a callsheet
type CallsheetEntry struct {
	ID             int64      `json:"id" db:"id"`
	CallsheetID    int64      `json:"callsheet_id" db:"callsheet_id"`
	CustomerID     int64      `json:"customer_id" db:"customer_id"`
	AddressID      *int64     `json:"address_id" db:"address_id"`
	AddressLabel   string     `json:"address_label" db:"address_label"`
	CallStatus     string     `json:"call_status" db:"call_status"`
	CalledBy       string     `json:"called_by" db:"called_by"`
	CallDate       *time.Time `json:"call_date" db:"call_date"`
	PersonSpokenTo string     `json:"person_spoken_to" db:"person_spoken_to"`
	CallbackTime   string     `json:"callback_time" db:"callback_time"`
	UserID         int64      `json:"user_id" db:"user_id"`
	Position       int        `json:"position" db:"position"`
}

// TodoItem is a personal task
type TodoItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CompanyUpdate is a noticeboard post
type CompanyUpdate struct {
	ID        int64      `json:"id" db:"id" yaml:"-"`
	Title     string     `json:"title" db:"title" yaml:"title"`
	Message   string     `json:"message" db:"message" yaml:"message"`
	Priority  string     `json:"priority" db:"priority" yaml:"priority"`
	Category  string     `json:"category" db:"category" yaml:"category"`
	IsEvent   bool       `json:"is_event" db:"is_event" yaml:"is_event"`
	EventDate *time.Time `json:"event_date,omitempty" db:"event_date" yaml:"event_date"`
	Sticky    bool       `json:"sticky" db:"sticky" yaml:"sticky"`
	UserID    int64      `json:"user_id" db:"user_id" yaml:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" yaml:"-"`
}

// CustomerStock tracks a product held at a customer site
type CustomerStock struct {
	ID           int64     `json:"id" db:"id"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	ProductCode  string    `json:"product_code" db:"product_code"`
	ProductName  string    `json:"product_name" db:"product_name"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	ReorderLevel int       `json:"reorder_level" db:"reorder_level"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// StockTransaction moves stock in or out of a CustomerStock line
type StockTransaction struct {
	ID              int64     `json:"id" db:"id"`
	StockItemID     int64     `json:"stock_item_id" db:"stock_item_id"`
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	Quantity        int       `json:"quantity" db:"quantity"`
	Reference       string    `json:"reference" db:"reference"`
	Notes           string    `json:"notes" db:"notes"`
	TransactionDate time.Time `json:"transaction_date" db:"transaction_date"`
	CreatedBy       int64     `json:"created_by" db:"created_by"`
}

// StandingOrder is a recurring delivery
type StandingOrder struct {
	ID                  int64     `json:"id" db:"id"`
	CustomerID          int64     `json:"customer_id" db:"customer_id"`
	DeliveryDays        string    `json:"delivery_days" db:"delivery_days"` // weekday indexes, Monday = 0
	StartDate           time.Time `json:"start_date" db:"start_date"`
	Status              string    `json:"status" db:"status"`
	SpecialInstructions string    `json:"special_instructions" db:"special_instructions"`
	CreatedBy           int64     `json:"created_by" db:"created_by"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// StandingOrderItem is one product line of a standing order
type StandingOrderItem struct {
	ID              int64  `json:"id" db:"id"`
	StandingOrderID int64  `json:"standing_order_id" db:"standing_order_id"`
	ProductCode     string `json:"product_code" db:"product_code"`
	ProductName     string `json:"product_name" db:"product_name"`
	Quantity        int    `json:"quantity" db:"quantity"`
	UnitType        string `json:"unit_type" db:"unit_type"`
}

// ClearanceStock is discounted end-of-line inventory
type ClearanceStock struct {
	ID           int64     `json:"id" db:"id" yaml:"-"`
	Qty          int       `json:"qty" db:"qty" yaml:"qty"`
	QtySold      int       `json:"qty_sold" db:"qty_sold" yaml:"qty_sold"`
	SupplierCode string    `json:"supplier_code" db:"supplier_code" yaml:"supplier_code"`
	HisCode      string    `json:"his_code" db:"his_code" yaml:"his_code"`
	Description  string    `json:"description" db:"description" yaml:"description"`
	CostPrice    float64   `json:"cost_price" db:"cost_price" yaml:"cost_price"`
	TotalPrice   float64   `json:"total_price" db:"total_price" yaml:"total_price"`
	Pallet       string    `json:"pallet" db:"pallet" yaml:"pallet"`
	CreatedBy    int64     `json:"created_by" db:"created_by" yaml:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" yaml:"-"`
}

// Form is a completed or in-progress operational form
type Form struct {
	ID            int64      `json:"id" db:"id" yaml:"-"`
	Type          string     `json:"type" db:"type" yaml:"type"`
	Data          string     `json:"data" db:"data" yaml:"data"` // JSON document
	IsCompleted   bool       `json:"is_completed" db:"is_completed" yaml:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty" db:"completed_date" yaml:"-"`
	UserID        int64      `json:"user_id" db:"user_id" yaml:"-"`
	CompletedBy   *int64     `json:"completed_by,omitempty" db:"completed_by" yaml:"-"`
	DateCreated   time.Time  `json:"date_created" db:"date_created" yaml:"-"`
}

// TableCounts is the seeder's closing summary
type TableCounts struct {
	Users              int
	Customers          int
	Products           int
	Callsheets         int
	CallsheetEntries   int
	TodoItems          int
	CompanyUpdates     int
	CustomerStockItems int
	StockTransactions  int
	StandingOrders     int
	ClearanceItems     int
	Suppliers          int
	Categories         int
	Articles           int
	Forms              int
}
