package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/markdown"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/validation"
	"github.com/rs/zerolog"
)

// List paging bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	DefaultFeedLimit = 5
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles   repository.ArticleRepository
	views      repository.ViewRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	authz      *authz.Authorizer
	stats      cache.StatsCache
	now        func() time.Time
	log        zerolog.Logger
}

func newArticleService(repos *repository.Repositories, deps Deps, log zerolog.Logger) *articleService {
	return &articleService{
		articles:   repos.Article,
		views:      repos.View,
		categories: repos.Category,
		suppliers:  repos.Supplier,
		authz:      deps.Authorizer,
		stats:      deps.Stats,
		now:        deps.Now,
		log:        log.With().Str("service", "article").Logger(),
	}
}

// load fetches an article or returns a 404
func (s *articleService) load(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	if article == nil {
		return nil, errs.NewNotFoundError("Article not found")
	}
	return article, nil
}

// checkRefs verifies that referenced category and supplier rows exist
func (s *articleService) checkRefs(ctx context.Context, categoryID, supplierID *int64) error {
	if categoryID != nil {
		c, err := s.categories.GetByID(ctx, *categoryID)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}
		if c == nil {
			return errs.NewBadRequestError("Category not found").WithField("category_id")
		}
	}
	if supplierID != nil {
		sup, err := s.suppliers.GetByID(ctx, *supplierID)
		if err != nil {
			return fmt.Errorf("failed to get supplier: %w", err)
		}
		if sup == nil {
			return errs.NewBadRequestError("Supplier not found").WithField("supplier_id")
		}
	}
	return nil
}

func requireText(v *string, field string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", errs.NewBadRequestError("Missing required field: " + field).WithField(field)
	}
	return *v, nil
}

// invalid reports the first validation failure as a 400
func invalid(problems []validation.ValidationError) error {
	if len(problems) == 0 {
		return nil
	}
	return errs.NewBadRequestError(problems[0].Message).WithField(problems[0].Field)
}

// writeErr maps repository write failures onto API errors
func writeErr(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewNotFoundError("Article not found")
	case errors.Is(err, repository.ErrInvalidReference):
		return errs.NewBadRequestError("Referenced category or supplier does not exist").WithCause(err)
	}
	return fmt.Errorf("failed to %s article: %w", action, err)
}

func (s *articleService) Create(ctx context.Context, actor authz.Actor, in *models.ArticleCreate) (*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleCreate); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int64("actor_id", actor.ID).
		Interface("payload", in).
		Msg("Received article create request")

	title, err := requireText(in.Title, "title")
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.Article(in.Title)); err != nil {
		return nil, err
	}
	body, err := requireText(in.Body, "body")
	if err != nil {
		return nil, err
	}

	status := models.ArticleStatus(in.Status)
	if !status.IsValid() {
		if in.Status != "" {
			s.log.Debug().Str("requested", in.Status).Msg("Invalid status, defaulting to draft")
		}
		status = models.StatusDraft
	}
	if status == models.StatusPublished && !s.authz.Can(actor, authz.ArticleApprove) {
		s.log.Warn().
			Int64("actor_id", actor.ID).
			Str("role", string(actor.Role)).
			Msg("Article created as published without approval")
	}

	if err := s.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}

	now := s.now()
	article := &models.Article{
		Title:       title,
		Body:        body,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		Tags:        in.Tags,
		Attachments: in.Attachments,
		Status:      status,
		AuthorID:    actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, writeErr(err, "create")
	}

	s.log.Debug().Int64("article_id", article.ID).Str("status", string(article.Status)).Msg("Article saved")
	invalidateStats(ctx, s.stats, s.log)

	return s.load(ctx, article.ID)
}

func (s *articleService) Update(ctx context.Context, actor authz.Actor, id int64, patch *models.ArticlePatch) (*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleUpdate); err != nil {
		return nil, err
	}
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(article.AuthorID) && !s.authz.Can(actor, authz.ArticleEditAny) {
		return nil, errs.NewForbiddenError("Can only edit your own articles")
	}

	if patch.Title != nil {
		if article.Title, err = requireText(patch.Title, "title"); err != nil {
			return nil, err
		}
		if err := invalid(validation.Article(patch.Title)); err != nil {
			return nil, err
		}
	}
	if patch.Body != nil {
		if article.Body, err = requireText(patch.Body, "body"); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID.Set {
		article.CategoryID = patch.CategoryID.Value
	}
	if patch.SupplierID.Set {
		article.SupplierID = patch.SupplierID.Value
	}
	if patch.CategoryID.Set || patch.SupplierID.Set {
		if err := s.checkRefs(ctx, patch.CategoryID.Value, patch.SupplierID.Value); err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		article.Tags = *patch.Tags
	}
	if patch.Attachments != nil {
		article.Attachments = *patch.Attachments
	}
	if patch.Status != nil {
		if s.authz.Can(actor, authz.ArticleSetStatus) {
			status := models.ArticleStatus(*patch.Status)
			if !status.IsValid() {
				return nil, errs.NewBadRequestError("Invalid status: " + *patch.Status).WithField("status")
			}
			article.Status = status
		} else {
			s.log.Debug().Int64("article_id", id).Msg("Ignoring status change from non-admin")
		}
	}

	article.UpdatedAt = s.now()
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, writeErr(err, "update")
	}
	invalidateStats(ctx, s.stats, s.log)

	return s.load(ctx, id)
}

// transition moves an article to a new status after op is authorized
func (s *articleService) transition(ctx context.Context, actor authz.Actor, id int64, op authz.Operation, to models.ArticleStatus) (*models.Article, error) {
	if err := s.authz.Require(actor, op); err != nil {
		return nil, err
	}
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == authz.ArticleSubmit && !actor.Owns(article.AuthorID) && !s.authz.Can(actor, authz.ArticleEditAny) {
		return nil, errs.NewForbiddenError("Can only submit your own articles")
	}

	at := s.now()
	if err := s.articles.SetStatus(ctx, id, to, at); err != nil {
		return nil, writeErr(err, "update")
	}
	s.log.Info().
		Int64("article_id", id).
		Int64("actor_id", actor.ID).
		Str("from", string(article.Status)).
		Str("to", string(to)).
		Msg("Article status changed")
	invalidateStats(ctx, s.stats, s.log)

	article.Status = to
	article.UpdatedAt = at
	return article, nil
}

// Submit sends an article for approval
func (s *articleService) Submit(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	return s.transition(ctx, actor, id, authz.ArticleSubmit, models.StatusPending)
}

// Approve publishes an article regardless of its current state
func (s *articleService) Approve(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	return s.transition(ctx, actor, id, authz.ArticleApprove, models.StatusPublished)
}

// Reject returns an article to draft regardless of its current state
func (s *articleService) Reject(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	return s.transition(ctx, actor, id, authz.ArticleReject, models.StatusDraft)
}

// Delete removes an article and returns what was deleted
func (s *articleService) Delete(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleDelete); err != nil {
		return nil, err
	}
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return nil, writeErr(err, "delete")
	}
	s.log.Info().Int64("article_id", id).Int64("actor_id", actor.ID).Msg("Article deleted")
	invalidateStats(ctx, s.stats, s.log)
	return article, nil
}

// readable loads an article and applies the status gate
func (s *articleService) readable(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleRead); err != nil {
		return nil, err
	}
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != models.StatusPublished && !s.authz.Can(actor, authz.ArticleReadUnpublished) {
		return nil, errs.NewForbiddenError("Cannot view unpublished articles")
	}
	return article, nil
}

func (s *articleService) View(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	article, err := s.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	count, err := s.views.Record(ctx, &models.ArticleView{
		ArticleID: id,
		UserID:    actor.ID,
		ViewedAt:  s.now(),
	})
	if err != nil {
		return nil, writeErr(err, "record view for")
	}
	article.ViewCount = count

	html, err := markdown.Render(article.Body)
	if err != nil {
		s.log.Error().Err(err).Int64("article_id", id).Msg("Failed to render article body")
	}
	article.BodyHTML = html
	return article, nil
}

func (s *articleService) Get(ctx context.Context, actor authz.Actor, id int64) (*models.Article, error) {
	return s.readable(ctx, actor, id)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (s *articleService) List(ctx context.Context, actor authz.Actor, filter models.ArticleFilter) ([]*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleRead); err != nil {
		return nil, err
	}

	if !s.authz.Can(actor, authz.ArticleReadUnpublished) {
		filter.Status = models.StatusPublished
	} else if filter.Status != "" && !filter.Status.IsValid() {
		return nil, errs.NewBadRequestError("Invalid status: " + string(filter.Status)).WithField("status")
	}
	filter.Limit = clampLimit(filter.Limit, DefaultListLimit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	articles, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func (s *articleService) feed(ctx context.Context, actor authz.Actor, order repository.ArticleOrder, limit int) ([]*models.Article, error) {
	if err := s.authz.Require(actor, authz.ArticleRead); err != nil {
		return nil, err
	}
	articles, err := s.articles.ListPublished(ctx, order, clampLimit(limit, DefaultFeedLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}
	return articles, nil
}

// Recent returns the newest published articles
func (s *articleService) Recent(ctx context.Context, actor authz.Actor, limit int) ([]*models.Article, error) {
	return s.feed(ctx, actor, repository.OrderNewest, limit)
}

// Popular returns the most viewed published articles
func (s *articleService) Popular(ctx context.Context, actor authz.Actor, limit int) ([]*models.Article, error) {
	return s.feed(ctx, actor, repository.OrderMostViewed, limit)
}

func (s *articleService) ReviewQueue(ctx context.Context, actor authz.Actor) (*models.ReviewQueue, error) {
	if err := s.authz.Require(actor, authz.ArticleReviewQueue); err != nil {
		return nil, err
	}
	pending, err := s.articles.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending articles: %w", err)
	}
	counts, err := s.articles.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	return &models.ReviewQueue{
		Pending:      models.Summaries(pending),
		StatusCounts: counts,
	}, nil
}
