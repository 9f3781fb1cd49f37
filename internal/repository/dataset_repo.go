package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// datasetRepo is the concrete implementation of DatasetRepository
type datasetRepo struct {
	db *database.DB
}

// NewDatasetRepo creates a new dataset housekeeping repository
func NewDatasetRepo(db *database.DB) DatasetRepository {
	return &datasetRepo{db: db}
}

// ClearOrder lists tables children first so deletes never trip a foreign key
var ClearOrder = []string{
	"article_views",
	"articles",
	"categories",
	"suppliers",
	"clearance_stock",
	"standing_order_items",
	"standing_orders",
	"stock_transactions",
	"customer_stock",
	"forms",
	"callsheet_entries",
	"callsheets",
	"customer_addresses",
	"customers",
	"products",
	"company_updates",
	"todo_items",
}

// ClearAll deletes all rows in ClearOrder, then every user except keepUsername
func (r *datasetRepo) ClearAll(ctx context.Context, keepUsername string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, table := range ClearOrder {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE username <> $1", keepUsername); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
		return nil
	})
}

// Counts returns the row count of every seeded table
func (r *datasetRepo) Counts(ctx context.Context) (*models.TableCounts, error) {
	var c models.TableCounts
	targets := []struct {
		table string
		dst   *int
	}{
		{"users", &c.Users},
		{"customers", &c.Customers},
		{"products", &c.Products},
		{"callsheets", &c.Callsheets},
		{"callsheet_entries", &c.CallsheetEntries},
		{"todo_items", &c.TodoItems},
		{"company_updates", &c.CompanyUpdates},
		{"customer_stock", &c.CustomerStockItems},
		{"stock_transactions", &c.StockTransactions},
		{"standing_orders", &c.StandingOrders},
		{"clearance_stock", &c.ClearanceItems},
		{"suppliers", &c.Suppliers},
		{"categories", &c.Categories},
		{"articles", &c.Articles},
		{"forms", &c.Forms},
	}

	for _, t := range targets {
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(t.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
	}
	return &c, nil
}
