package models

import (
	"time"
)

// ArticleStatus is the lifecycle stage of a knowledge-base article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusPublished ArticleStatus = "published"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusPending:   true,
	StatusPublished: true,
}

// IsValid reports whether s is one of the three lifecycle states
func (s ArticleStatus) IsValid() bool {
	return ValidStatuses[s]
}

// Article represents a knowledge-base article
type Article struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Body        string        `json:"body" db:"body"`
	BodyHTML    string        `json:"body_html,omitempty" db:"-"`
	CategoryID  *int64        `json:"category_id" db:"category_id"`
	SupplierID  *int64        `json:"supplier_id" db:"supplier_id"`
	Tags        string        `json:"tags" db:"tags"` // comma separated
	Attachments string        `json:"attachments" db:"attachments"`
	Status      ArticleStatus `json:"status" db:"status"`
	AuthorID    int64         `json:"author_id" db:"author_id"`
	ViewCount   int           `json:"view_count" db:"view_count"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// Joined display fields
	CategoryName string `json:"category_name,omitempty" db:"-"`
	SupplierName string `json:"supplier_name,omitempty" db:"-"`
	AuthorName   string `json:"author_name,omitempty" db:"-"`
}

// ArticleSummary is the list representation of an article (no body)
type ArticleSummary struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	CategoryID   *int64        `json:"category_id"`
	CategoryName string        `json:"category_name,omitempty"`
	SupplierID   *int64        `json:"supplier_id"`
	SupplierName string        `json:"supplier_name,omitempty"`
	Tags         string        `json:"tags"`
	Status       ArticleStatus `json:"status"`
	AuthorID     int64         `json:"author_id"`
	AuthorName   string        `json:"author_name,omitempty"`
	ViewCount    int           `json:"view_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Summary drops the body for list responses
func (a *Article) Summary() ArticleSummary {
	return ArticleSummary{
		ID:           a.ID,
		Title:        a.Title,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName,
		SupplierID:   a.SupplierID,
		SupplierName: a.SupplierName,
		Tags:         a.Tags,
		Status:       a.Status,
		AuthorID:     a.AuthorID,
		AuthorName:   a.AuthorName,
		ViewCount:    a.ViewCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Summaries converts a slice of articles to list items
func Summaries(articles []*Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Summary())
	}
	return out
}

// ArticleView records one detail-page visit
type ArticleView struct {
	ID        int64     `json:"id" db:"id"`
	ArticleID int64     `json:"article_id" db:"article_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}

// ArticleFilter narrows an article listing
type ArticleFilter struct {
	Search     string
	CategoryID *int64
	Status     ArticleStatus // empty means any
	Limit      int
	Offset     int
}

// OptionalID carries a nullable foreign key that may be absent from a patch
type OptionalID struct {
	Set   bool
	Value *int64
}

// ArticleCreate is the payload for creating an article
type ArticleCreate struct {
	Title       *string `json:"title"`
	Body        *string `json:"body"`
	CategoryID  *int64  `json:"category_id"`
	SupplierID  *int64  `json:"supplier_id"`
	Tags        string  `json:"tags"`
	Attachments string  `json:"attachments"`
	Status      string  `json:"status"`
}

// ArticlePatch is a partial update; nil pointers are left untouched
type ArticlePatch struct {
	Title       *string
	Body        *string
	CategoryID  OptionalID
	SupplierID  OptionalID
	Tags        *string
	Attachments *string
	Status      *string
}

// StatusCounts summarises the workflow queue
type StatusCounts struct {
	Draft     int `json:"draft_count"`
	Pending   int `json:"pending_count"`
	Published int `json:"published_count"`
}
