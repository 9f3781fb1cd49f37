package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
	"github.com/lib/pq"
)

// businessRepo is the concrete implementation of BusinessRepository
type businessRepo struct {
	db *database.DB
}

// NewBusinessRepo creates a new business entity repository
func NewBusinessRepo(db *database.DB) BusinessRepository {
	return &businessRepo{db: db}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateCustomer inserts a customer and its addresses in one transaction
func (r *businessRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO customers (account_number, name, contact_name, phone, email, notes, callsheet_notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			c.AccountNumber, c.Name, c.ContactName, c.Phone, c.Email, c.Notes, c.CallsheetNotes,
		).Scan(&c.ID)
		if err != nil {
			return translate(err)
		}

		for i := range c.Addresses {
			addr := &c.Addresses[i]
			addr.CustomerID = c.ID
			err := tx.QueryRowContext(ctx, `
				INSERT INTO customer_addresses (customer_id, label, phone, street, city, zip, is_primary)
				VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
				addr.CustomerID, addr.Label, addr.Phone, addr.Street, addr.City, addr.Zip, addr.IsPrimary,
			).Scan(&addr.ID)
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *businessRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.db.QueryRowContext(ctx,
		"INSERT INTO products (code, name, description) VALUES ($1, $2, $3) RETURNING id",
		p.Code, p.Name, p.Description,
	).Scan(&p.ID))
}

// CreateCallsheet inserts a callsheet with its entries in one transaction
func (r *businessRepo) CreateCallsheet(ctx context.Context, sheet *models.Callsheet, entries []*models.CallsheetEntry) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO callsheets (name, day_of_week, month, year, is_active, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			sheet.Name, sheet.DayOfWeek, sheet.Month, sheet.Year, sheet.IsActive, sheet.CreatedBy, sheet.CreatedAt,
		).Scan(&sheet.ID)
		if err != nil {
			return translate(err)
		}

		for _, e := range entries {
			e.CallsheetID = sheet.ID
			err := tx.QueryRowContext(ctx, `
				INSERT INTO callsheet_entries (callsheet_id, customer_id, address_id, address_label, call_status,
				                               called_by, call_date, person_spoken_to, callback_time, user_id, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
				e.CallsheetID, e.CustomerID, nullInt64(e.AddressID), e.AddressLabel, e.CallStatus,
				e.CalledBy, nullTime(e.CallDate), e.PersonSpokenTo, e.CallbackTime, e.UserID, e.Position,
			).Scan(&e.ID)
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *businessRepo) CreateTodo(ctx context.Context, t *models.TodoItem) error {
	return translate(r.db.QueryRowContext(ctx,
		"INSERT INTO todo_items (user_id, text, completed, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		t.UserID, t.Text, t.Completed, t.CreatedAt,
	).Scan(&t.ID))
}

func (r *businessRepo) CreateCompanyUpdate(ctx context.Context, u *models.CompanyUpdate) error {
	return translate(r.db.QueryRowContext(ctx, `
		INSERT INTO company_updates (title, message, priority, category, is_event, event_date, sticky, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		u.Title, u.Message, u.Priority, u.Category, u.IsEvent, nullTime(u.EventDate), u.Sticky, u.UserID, u.CreatedAt,
	).Scan(&u.ID))
}

func (r *businessRepo) CreateCustomerStock(ctx context.Context, s *models.CustomerStock) error {
	return translate(r.db.QueryRowContext(ctx, `
		INSERT INTO customer_stock (customer_id, product_code, product_name, current_stock, reorder_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		s.CustomerID, s.ProductCode, s.ProductName, s.CurrentStock, s.ReorderLevel, s.CreatedAt,
	).Scan(&s.ID))
}

// BatchInsertStockTransactions inserts transactions using PostgreSQL COPY
func (r *businessRepo) BatchInsertStockTransactions(ctx context.Context, txns []*models.StockTransaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("stock_transactions",
			"stock_item_id", "transaction_type", "quantity", "reference", "notes", "transaction_date", "created_by",
		))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range txns {
			_, err := stmt.ExecContext(ctx,
				t.StockItemID, t.TransactionType, t.Quantity, t.Reference, t.Notes, t.TransactionDate, t.CreatedBy,
			)
			if err != nil {
				return err
			}
			inserted++
		}

		_, err = stmt.ExecContext(ctx)
		return translate(err)
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// CreateStandingOrder inserts an order with its lines in one transaction
func (r *businessRepo) CreateStandingOrder(ctx context.Context, o *models.StandingOrder, items []*models.StandingOrderItem) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO standing_orders (customer_id, delivery_days, start_date, status, special_instructions, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			o.CustomerID, o.DeliveryDays, o.StartDate, o.Status, o.SpecialInstructions, o.CreatedBy, o.CreatedAt,
		).Scan(&o.ID)
		if err != nil {
			return translate(err)
		}

		for _, item := range items {
			item.StandingOrderID = o.ID
			err := tx.QueryRowContext(ctx, `
				INSERT INTO standing_order_items (standing_order_id, product_code, product_name, quantity, unit_type)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				item.StandingOrderID, item.ProductCode, item.ProductName, item.Quantity, item.UnitType,
			).Scan(&item.ID)
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *businessRepo) CreateClearanceStock(ctx context.Context, c *models.ClearanceStock) error {
	return translate(r.db.QueryRowContext(ctx, `
		INSERT INTO clearance_stock (qty, qty_sold, supplier_code, his_code, description, cost_price, total_price, pallet, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		c.Qty, c.QtySold, c.SupplierCode, c.HisCode, c.Description, c.CostPrice, c.TotalPrice, c.Pallet, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID))
}

func (r *businessRepo) CreateForm(ctx context.Context, f *models.Form) error {
	return translate(r.db.QueryRowContext(ctx, `
		INSERT INTO forms (type, data, is_completed, completed_date, user_id, completed_by, date_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		f.Type, f.Data, f.IsCompleted, nullTime(f.CompletedDate), f.UserID, nullInt64(f.CompletedBy), f.DateCreated,
	).Scan(&f.ID))
}
