package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/highland-admin-portal/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Column widths from the schema
const (
	MaxTitleLength         = 255
	MaxCategoryNameLength  = 100
	MaxSupplierNameLength  = 200
	MaxContactNameLength   = 200
	MaxPhoneLength         = 50
	MaxEmailLength         = 255
	MaxWebsiteLength       = 255
	MaxSupplierCategoryLen = 100
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type checker struct {
	errors []ValidationError
}

func (c *checker) add(field, message string, value interface{}) {
	c.errors = append(c.errors, ValidationError{Field: field, Message: message, Value: value})
}

func (c *checker) maxLen(field string, v *string, limit int) {
	if v != nil && utf8.RuneCountInString(*v) > limit {
		c.add(field, fmt.Sprintf("%s must be at most %d characters", field, limit), nil)
	}
}

func (c *checker) email(field string, v *string) {
	if v == nil || *v == "" {
		return
	}
	if !emailRegex.MatchString(strings.TrimSpace(*v)) {
		c.add(field, "invalid email format", *v)
	}
}

func (c *checker) website(field string, v *string) {
	if v == nil || *v == "" {
		return
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.add(field, "website must be an http or https URL", *v)
	}
}

// Article checks the fields of an article write. Nil fields are skipped.
func Article(title *string) []ValidationError {
	var c checker
	c.maxLen("title", title, MaxTitleLength)
	return c.errors
}

// Category checks a category create or update
func Category(in *models.CategoryInput) []ValidationError {
	var c checker
	c.maxLen("name", in.Name, MaxCategoryNameLength)
	if in.Color != nil && *in.Color != "" && !colorRegex.MatchString(*in.Color) {
		c.add("color", "color must be a hex value like #10B981", *in.Color)
	}
	return c.errors
}

// Supplier checks a supplier create or update
func Supplier(in *models.SupplierInput) []ValidationError {
	var c checker
	c.maxLen("name", in.Name, MaxSupplierNameLength)
	c.maxLen("contact_name", in.ContactName, MaxContactNameLength)
	c.maxLen("phone", in.Phone, MaxPhoneLength)
	c.maxLen("email", in.Email, MaxEmailLength)
	c.maxLen("website", in.Website, MaxWebsiteLength)
	c.maxLen("category", in.Category, MaxSupplierCategoryLen)
	c.email("email", in.Email)
	c.website("website", in.Website)
	return c.errors
}
