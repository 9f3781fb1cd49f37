package repository

import (
	"context"
	"time"

	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// ArticleOrder selects the ordering of a published-article feed
type ArticleOrder int

const (
	OrderNewest ArticleOrder = iota
	OrderMostViewed
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	SetStatus(ctx context.Context, id int64, status models.ArticleStatus, at time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListPublished(ctx context.Context, order ArticleOrder, limit int) ([]*models.Article, error)
	ListByStatus(ctx context.Context, status models.ArticleStatus) ([]*models.Article, error)
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}

// ViewRepository records article detail-page visits
type ViewRepository interface {
	// Record inserts a view and bumps the article's view_count in one
	// transaction, returning the new count.
	Record(ctx context.Context, view *models.ArticleView) (int, error)
	CountByArticle(ctx context.Context, articleID int64) (int, error)
	BatchInsert(ctx context.Context, views []*models.ArticleView) (int, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	// ListWithCounts returns all categories with their published-article counts
	ListWithCounts(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]*models.Supplier, error)
	Count(ctx context.Context) (int, error)
}

// BusinessRepository writes the non-KB business entities
type BusinessRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	CreateProduct(ctx context.Context, product *models.Product) error
	CreateCallsheet(ctx context.Context, sheet *models.Callsheet, entries []*models.CallsheetEntry) error
	CreateTodo(ctx context.Context, todo *models.TodoItem) error
	CreateCompanyUpdate(ctx context.Context, update *models.CompanyUpdate) error
	CreateCustomerStock(ctx context.Context, stock *models.CustomerStock) error
	BatchInsertStockTransactions(ctx context.Context, txns []*models.StockTransaction) (int, error)
	CreateStandingOrder(ctx context.Context, order *models.StandingOrder, items []*models.StandingOrderItem) error
	CreateClearanceStock(ctx context.Context, item *models.ClearanceStock) error
	CreateForm(ctx context.Context, form *models.Form) error
}

// DatasetRepository performs whole-database housekeeping for the seeder
type DatasetRepository interface {
	// ClearAll deletes every row in foreign-key order, keeping the user
	// named keepUsername.
	ClearAll(ctx context.Context, keepUsername string) error
	Counts(ctx context.Context) (*models.TableCounts, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Article  ArticleRepository
	View     ViewRepository
	Category CategoryRepository
	Supplier SupplierRepository
	Business BusinessRepository
	Dataset  DatasetRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Article:  NewArticleRepo(db),
		View:     NewViewRepo(db),
		Category: NewCategoryRepo(db),
		Supplier: NewSupplierRepo(db),
		Business: NewBusinessRepo(db),
		Dataset:  NewDatasetRepo(db),
	}
}
