package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
	"github.com/lib/pq"
)

// viewRepo is the concrete implementation of ViewRepository
type viewRepo struct {
	db *database.DB
}

// NewViewRepo creates a new article view repository
func NewViewRepo(db *database.DB) ViewRepository {
	return &viewRepo{db: db}
}

// Record inserts one view row and increments the counter in SQL, so two
// concurrent views of the same article are both counted.
func (r *viewRepo) Record(ctx context.Context, view *models.ArticleView) (int, error) {
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}

	var count int
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"UPDATE articles SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count",
			view.ArticleID,
		).Scan(&count)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return translate(tx.QueryRowContext(ctx,
			"INSERT INTO article_views (article_id, user_id, viewed_at) VALUES ($1, $2, $3) RETURNING id",
			view.ArticleID, view.UserID, view.ViewedAt,
		).Scan(&view.ID))
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByArticle returns how many views were logged for an article
func (r *viewRepo) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM article_views WHERE article_id = $1", articleID).Scan(&count)
	return count, err
}

// BatchInsert inserts multiple views using PostgreSQL COPY. The article
// counters are left alone.
func (r *viewRepo) BatchInsert(ctx context.Context, views []*models.ArticleView) (int, error) {
	if len(views) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("article_views", "article_id", "user_id", "viewed_at"))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, v := range views {
			if _, err := stmt.ExecContext(ctx, v.ArticleID, v.UserID, v.ViewedAt); err != nil {
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
