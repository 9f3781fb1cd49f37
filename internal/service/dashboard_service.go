package service

import (
	"context"
	"fmt"

	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/rs/zerolog"
)

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	repos *repository.Repositories
	authz *authz.Authorizer
	stats cache.StatsCache
	log   zerolog.Logger
}

func newDashboardService(repos *repository.Repositories, deps Deps, log zerolog.Logger) *dashboardService {
	return &dashboardService{
		repos: repos,
		authz: deps.Authorizer,
		stats: deps.Stats,
		log:   log.With().Str("service", "dashboard").Logger(),
	}
}

// Get returns the dashboard. The pending count is only filled in for
// actors who can review articles.
func (s *dashboardService) Get(ctx context.Context, actor authz.Actor) (*models.Dashboard, error) {
	if err := s.authz.Require(actor, authz.DashboardRead); err != nil {
		return nil, err
	}

	stats, err := s.cachedStats(ctx)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{DashboardStats: *stats}
	if s.authz.Can(actor, authz.ArticleReviewQueue) {
		counts, err := s.repos.Article.CountByStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count articles: %w", err)
		}
		d.PendingArticles = counts.Pending
	}
	return d, nil
}

func (s *dashboardService) cachedStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.stats.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Dashboard cache read failed")
	}
	if stats != nil {
		return stats, nil
	}

	stats, err = s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Set(ctx, stats); err != nil {
		s.log.Warn().Err(err).Msg("Dashboard cache write failed")
	}
	return stats, nil
}

func (s *dashboardService) compute(ctx context.Context) (*models.DashboardStats, error) {
	counts, err := s.repos.Article.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	totalCategories, err := s.repos.Category.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	totalSuppliers, err := s.repos.Supplier.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	recent, err := s.repos.Article.ListPublished(ctx, repository.OrderNewest, DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent articles: %w", err)
	}
	popular, err := s.repos.Article.ListPublished(ctx, repository.OrderMostViewed, DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular articles: %w", err)
	}
	categories, err := s.repos.Category.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &models.DashboardStats{
		TotalArticles:   counts.Published,
		TotalCategories: totalCategories,
		TotalSuppliers:  totalSuppliers,
		Recent:          models.Summaries(recent),
		Popular:         models.Summaries(popular),
		Categories:      categories,
	}, nil
}
