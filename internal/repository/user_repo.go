package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, full_name, role, job_title, direct_phone, mobile_phone,
	password_hash, is_active, must_change_password, last_login, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.JobTitle, &u.DirectPhone, &u.MobilePhone,
		&u.PasswordHash, &u.IsActive, &u.MustChangePassword, &lastLogin, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

// Create inserts a new user and fills in its ID
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	var lastLogin sql.NullTime
	if user.LastLogin != nil {
		lastLogin = sql.NullTime{Time: *user.LastLogin, Valid: true}
	}

	query := `
		INSERT INTO users (username, email, full_name, role, job_title, direct_phone, mobile_phone,
		                   password_hash, is_active, must_change_password, last_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.Role, user.JobTitle, user.DirectPhone, user.MobilePhone,
		user.PasswordHash, user.IsActive, user.MustChangePassword, lastLogin, user.CreatedAt,
	).Scan(&user.ID)
	return translate(err)
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetByUsername retrieves a user by login name
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// UpdateLastLogin stamps a successful login
func (r *userRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, id))
}
