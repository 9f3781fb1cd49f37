package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = "id, name, description, color, created_at, updated_at"

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category and fills in its ID
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, description, color, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		category.Name, category.Description, category.Color, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	return translate(err)
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetByName retrieves a category by exact, case-sensitive name
func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE name = $1", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// Update writes name, description and color
func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2, color = $3, updated_at = $4 WHERE id = $5",
		category.Name, category.Description, category.Color, category.UpdatedAt, category.ID,
	))
}

// Delete removes a category
func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id))
}

// ListWithCounts returns categories in creation order with published counts
func (r *categoryRepo) ListWithCounts(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at,
		       COUNT(a.id) FILTER (WHERE a.status = 'published')
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt, &c.ArticleCount); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Count returns the total number of categories
func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}
