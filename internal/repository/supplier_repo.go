package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// supplierRepo is the concrete implementation of SupplierRepository
type supplierRepo struct {
	db *database.DB
}

// NewSupplierRepo creates a new supplier repository
func NewSupplierRepo(db *database.DB) SupplierRepository {
	return &supplierRepo{db: db}
}

const supplierColumns = `id, name, description, contact_name, contact_info, phone, email,
	website, address, category, notes, created_at, updated_at`

func scanSupplier(row rowScanner) (*models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.ContactName, &s.ContactInfo, &s.Phone, &s.Email,
		&s.Website, &s.Address, &s.Category, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new supplier and fills in its ID
func (r *supplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now

	query := `
		INSERT INTO suppliers (name, description, contact_name, contact_info, phone, email,
		                       website, address, category, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.Description, s.ContactName, s.ContactInfo, s.Phone, s.Email,
		s.Website, s.Address, s.Category, s.Notes, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	return translate(err)
}

// GetByID retrieves a supplier by ID
func (r *supplierRepo) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetByName retrieves a supplier by exact, case-sensitive name
func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE name = $1", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// Update writes every mutable field
func (r *supplierRepo) Update(ctx context.Context, s *models.Supplier) error {
	s.UpdatedAt = time.Now()
	query := `
		UPDATE suppliers
		SET name = $1, description = $2, contact_name = $3, contact_info = $4, phone = $5,
		    email = $6, website = $7, address = $8, category = $9, notes = $10, updated_at = $11
		WHERE id = $12
	`
	return expectOne(r.db.ExecContext(ctx, query,
		s.Name, s.Description, s.ContactName, s.ContactInfo, s.Phone,
		s.Email, s.Website, s.Address, s.Category, s.Notes, s.UpdatedAt, s.ID,
	))
}

// Delete removes a supplier; referencing articles have supplier_id cleared
func (r *supplierRepo) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id))
}

// List returns suppliers ordered by name, optionally filtered by a name substring
func (r *supplierRepo) List(ctx context.Context, search string) ([]*models.Supplier, error) {
	query := "SELECT " + supplierColumns + " FROM suppliers"
	var args []interface{}
	if search != "" {
		query += ` WHERE name LIKE $1 ESCAPE '\'`
		args = append(args, LikePattern(search))
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]*models.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// Count returns the total number of suppliers
func (r *supplierRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM suppliers").Scan(&count)
	return count, err
}
