package models

import (
	"time"
)

// Supplier is a vendor that articles may reference
type Supplier struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ContactName string    `json:"contact_name" db:"contact_name"`
	ContactInfo string    `json:"contact_info" db:"contact_info"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	Website     string    `json:"website" db:"website"`
	Address     string    `json:"address" db:"address"`
	Category    string    `json:"category" db:"category"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SupplierInput is the create/update payload. On update, nil fields are kept.
type SupplierInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ContactName *string `json:"contact_name"`
	ContactInfo *string `json:"contact_info"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	Address     *string `json:"address"`
	Category    *string `json:"category"`
	Notes       *string `json:"notes"`
}

// Apply copies every non-nil field onto s
func (in *SupplierInput) Apply(s *Supplier) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Name, in.Name)
	set(&s.Description, in.Description)
	set(&s.ContactName, in.ContactName)
	set(&s.ContactInfo, in.ContactInfo)
	set(&s.Phone, in.Phone)
	set(&s.Email, in.Email)
	set(&s.Website, in.Website)
	set(&s.Address, in.Address)
	set(&s.Category, in.Category)
	set(&s.Notes, in.Notes)
}
