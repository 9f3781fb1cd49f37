package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/validation"
	"github.com/rs/zerolog"
)

const categoryExists = "Category name already exists"

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	categories repository.CategoryRepository
	articles   repository.ArticleRepository
	authz      *authz.Authorizer
	stats      cache.StatsCache
	log        zerolog.Logger
}

func newCategoryService(repos *repository.Repositories, deps Deps, log zerolog.Logger) *categoryService {
	return &categoryService{
		categories: repos.Category,
		articles:   repos.Article,
		authz:      deps.Authorizer,
		stats:      deps.Stats,
		log:        log.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) load(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	if c == nil {
		return nil, errs.NewNotFoundError("Category not found")
	}
	return c, nil
}

// List returns every category with its published-article count
func (s *categoryService) List(ctx context.Context, actor authz.Actor) ([]*models.Category, error) {
	if err := s.authz.Require(actor, authz.CategoryRead); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, actor authz.Actor, id int64) (*models.Category, error) {
	if err := s.authz.Require(actor, authz.CategoryRead); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// nameTaken reports whether another category already uses name
func (s *categoryService) nameTaken(ctx context.Context, name string, selfID int64) (bool, error) {
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to look up category name: %w", err)
	}
	return existing != nil && existing.ID != selfID, nil
}

func (s *categoryService) save(ctx context.Context, c *models.Category, create bool) error {
	var err error
	if create {
		err = s.categories.Create(ctx, c)
	} else {
		err = s.categories.Update(ctx, c)
	}
	switch {
	case err == nil:
		invalidateStats(ctx, s.stats, s.log)
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return errs.NewConflictError(categoryExists).WithField("name")
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewNotFoundError("Category not found")
	}
	return fmt.Errorf("failed to save category: %w", err)
}

func (s *categoryService) Create(ctx context.Context, actor authz.Actor, in *models.CategoryInput) (*models.Category, error) {
	if err := s.authz.Require(actor, authz.CategoryWrite); err != nil {
		return nil, err
	}
	if err := invalid(validation.Category(in)); err != nil {
		return nil, err
	}
	name, err := requireText(in.Name, "name")
	if err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflictError(categoryExists).WithField("name")
	}

	c := &models.Category{Name: name}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if err := s.save(ctx, c, true); err != nil {
		return nil, err
	}
	s.log.Info().Int64("category_id", c.ID).Str("name", c.Name).Msg("Category created")
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, actor authz.Actor, id int64, in *models.CategoryInput) (*models.Category, error) {
	if err := s.authz.Require(actor, authz.CategoryWrite); err != nil {
		return nil, err
	}
	if err := invalid(validation.Category(in)); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := requireText(in.Name, "name")
		if err != nil {
			return nil, err
		}
		taken, err := s.nameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errs.NewConflictError(categoryExists).WithField("name")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Color != nil {
		c.Color = *in.Color
	}

	if err := s.save(ctx, c, false); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category that no article references
func (s *categoryService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.authz.Require(actor, authz.CategoryWrite); err != nil {
		return err
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	n, err := s.articles.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category articles: %w", err)
	}
	if n > 0 {
		return errs.NewBadRequestError(fmt.Sprintf("Cannot delete category with %d articles", n))
	}

	err = s.categories.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewNotFoundError("Category not found")
	case errors.Is(err, repository.ErrInvalidReference):
		// an article was attached between the count and the delete
		return errs.NewBadRequestError("Cannot delete category with articles").WithCause(err)
	case err != nil:
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.log.Info().Int64("category_id", id).Msg("Category deleted")
	invalidateStats(ctx, s.stats, s.log)
	return nil
}
