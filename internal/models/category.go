package models

import (
	"time"
)

// Category groups articles; names are unique
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Color        string    `json:"color" db:"color"`
	ArticleCount int       `json:"article_count" db:"-"` // published only
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryInput is the create/update payload. On update, nil fields are kept.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}
