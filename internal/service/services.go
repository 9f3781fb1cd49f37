package service

import (
	"context"
	"io"
	"time"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/storage"
	"github.com/rs/zerolog"
)

// ArticleService defines the article workflow
type ArticleService interface {
	Create(ctx context.Context, actor authz.Actor, in *models.ArticleCreate) (*models.Article, error)
	Update(ctx context.Context, actor authz.Actor, id int64, patch *models.ArticlePatch) (*models.Article, error)
	Submit(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	Approve(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	Reject(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	// View is the detail-page read; it records an ArticleView
	View(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error)
	List(ctx context.Context, actor authz.Actor, filter models.ArticleFilter) ([]*models.Article, error)
	Recent(ctx context.Context, actor authz.Actor, limit int) ([]*models.Article, error)
	Popular(ctx context.Context, actor authz.Actor, limit int) ([]*models.Article, error)
	ReviewQueue(ctx context.Context, actor authz.Actor) (*models.ReviewQueue, error)
}

// CategoryService defines category registry operations
type CategoryService interface {
	List(ctx context.Context, actor authz.Actor) ([]*models.Category, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*models.Category, error)
	Create(ctx context.Context, actor authz.Actor, in *models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in *models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// SupplierService defines supplier registry operations
type SupplierService interface {
	List(ctx context.Context, actor authz.Actor, search string) ([]*models.Supplier, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*models.Supplier, error)
	Create(ctx context.Context, actor authz.Actor, in *models.SupplierInput) (*models.Supplier, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in *models.SupplierInput) (*models.Supplier, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// ImageService validates and stores article images
type ImageService interface {
	Upload(ctx context.Context, actor authz.Actor, filename string, file io.ReadSeeker) (*models.UploadResult, error)
}

// DashboardService builds the knowledge-base landing page
type DashboardService interface {
	Get(ctx context.Context, actor authz.Actor) (*models.Dashboard, error)
}

// AuthService issues and verifies actor tokens
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (authz.Actor, *models.User, error)
}

// Services holds all service interfaces
type Services struct {
	Article   ArticleService
	Category  CategoryService
	Supplier  SupplierService
	Image     ImageService
	Dashboard DashboardService
	Auth      AuthService

	// Authorizer is shared with the HTTP layer for page-level checks
	Authorizer *authz.Authorizer
}

// Deps are the collaborators services need besides repositories
type Deps struct {
	Authorizer *authz.Authorizer
	Images     storage.ImageStore
	Stats      cache.StatsCache
	Tokens     *authn.Tokens
	// Now defaults to time.Now
	Now func() time.Time
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, deps Deps, log zerolog.Logger) *Services {
	if deps.Stats == nil {
		deps.Stats = cache.Nop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Services{
		Article:    newArticleService(repos, deps, log),
		Category:   newCategoryService(repos, deps, log),
		Supplier:   newSupplierService(repos, deps, log),
		Image:      newImageService(deps, cfg.Upload.MaxImageSize, log),
		Dashboard:  newDashboardService(repos, deps, log),
		Auth:       newAuthService(repos.User, deps, log),
		Authorizer: deps.Authorizer,
	}
}

// invalidateStats drops the cached dashboard after a write. A cache
// failure never fails the write.
func invalidateStats(ctx context.Context, stats cache.StatsCache, log zerolog.Logger) {
	if err := stats.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate dashboard stats")
	}
}
