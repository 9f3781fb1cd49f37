package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// articleSelect reads an article with its joined display names. The
// body column is substituted so listings can skip it.
const articleSelect = `
	SELECT a.id, a.title, %s, a.category_id, a.supplier_id, a.tags, a.attachments,
	       a.status, a.author_id, a.view_count, a.created_at, a.updated_at,
	       COALESCE(c.name, ''), COALESCE(s.name, ''), COALESCE(u.full_name, '')
	FROM articles a
	LEFT JOIN categories c ON c.id = a.category_id
	LEFT JOIN suppliers s ON s.id = a.supplier_id
	LEFT JOIN users u ON u.id = a.author_id
`

var (
	selectWithBody    = fmt.Sprintf(articleSelect, "a.body")
	selectWithoutBody = fmt.Sprintf(articleSelect, "''")
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var categoryID, supplierID sql.NullInt64

	err := row.Scan(
		&a.ID, &a.Title, &a.Body, &categoryID, &supplierID, &a.Tags, &a.Attachments,
		&a.Status, &a.AuthorID, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt,
		&a.CategoryName, &a.SupplierName, &a.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	a.CategoryID = int64Ptr(categoryID)
	a.SupplierID = int64Ptr(supplierID)
	return &a, nil
}

func (r *articleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Create inserts a new article and fills in its ID
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	if article.UpdatedAt.IsZero() {
		article.UpdatedAt = article.CreatedAt
	}

	query := `
		INSERT INTO articles (title, body, category_id, supplier_id, tags, attachments,
		                      status, author_id, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Body, nullInt64(article.CategoryID), nullInt64(article.SupplierID),
		article.Tags, article.Attachments, article.Status, article.AuthorID, article.ViewCount,
		article.CreatedAt, article.UpdatedAt,
	).Scan(&article.ID)
	return translate(err)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, selectWithBody+" WHERE a.id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// Update writes every mutable field of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $1, body = $2, category_id = $3, supplier_id = $4, tags = $5,
		    attachments = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	return expectOne(r.db.ExecContext(ctx, query,
		article.Title, article.Body, nullInt64(article.CategoryID), nullInt64(article.SupplierID),
		article.Tags, article.Attachments, article.Status, article.UpdatedAt, article.ID,
	))
}

// SetStatus moves an article to a new lifecycle state
func (r *articleRepo) SetStatus(ctx context.Context, id int64, status models.ArticleStatus, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE articles SET status = $1, updated_at = $2 WHERE id = $3",
		status, at, id,
	))
}

// Delete removes an article; its views cascade
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id))
}

// List returns articles newest first, without bodies
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "a.status = "+arg(filter.Status))
	}
	if filter.CategoryID != nil {
		where = append(where, "a.category_id = "+arg(*filter.CategoryID))
	}
	if filter.Search != "" {
		p := arg(LikePattern(filter.Search))
		where = append(where, fmt.Sprintf(
			`(a.title LIKE %[1]s ESCAPE '\' OR a.body LIKE %[1]s ESCAPE '\' OR a.tags LIKE %[1]s ESCAPE '\')`, p))
	}

	var b strings.Builder
	b.WriteString(selectWithoutBody)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY a.created_at DESC, a.id DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		b.WriteString(" OFFSET " + arg(filter.Offset))
	}

	return r.queryArticles(ctx, b.String(), args...)
}

// ListPublished returns the newest or most viewed published articles
func (r *articleRepo) ListPublished(ctx context.Context, order ArticleOrder, limit int) ([]*models.Article, error) {
	orderBy := "a.created_at DESC, a.id DESC"
	if order == OrderMostViewed {
		orderBy = "a.view_count DESC, a.id DESC"
	}
	query := selectWithoutBody + " WHERE a.status = $1 ORDER BY " + orderBy + " LIMIT $2"
	return r.queryArticles(ctx, query, models.StatusPublished, limit)
}

// ListByStatus returns all articles in a state, most recently updated first
func (r *articleRepo) ListByStatus(ctx context.Context, status models.ArticleStatus) ([]*models.Article, error) {
	query := selectWithoutBody + " WHERE a.status = $1 ORDER BY a.updated_at DESC, a.id DESC"
	return r.queryArticles(ctx, query, status)
}

// CountByStatus returns the number of articles in each state
func (r *articleRepo) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	var counts models.StatusCounts
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM articles GROUP BY status")
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.ArticleStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		switch status {
		case models.StatusDraft:
			counts.Draft = n
		case models.StatusPending:
			counts.Pending = n
		case models.StatusPublished:
			counts.Published = n
		}
	}
	return counts, rows.Err()
}

// CountByCategory counts articles of any status in a category
func (r *articleRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE category_id = $1", categoryID).Scan(&count)
	return count, err
}
