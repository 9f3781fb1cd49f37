package models

import (
	"time"
)

// User represents a portal user
type User struct {
	ID                 int64      `json:"id" db:"id"`
	Username           string     `json:"username" db:"username"`
	Email              string     `json:"email" db:"email"`
	FullName           string     `json:"full_name" db:"full_name"`
	Role               string     `json:"role" db:"role"`
	JobTitle           string     `json:"job_title" db:"job_title"`
	DirectPhone        string     `json:"direct_phone" db:"direct_phone"`
	MobilePhone        string     `json:"mobile_phone" db:"mobile_phone"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	MustChangePassword bool       `json:"must_change_password" db:"must_change_password"`
	LastLogin          *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
