package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/mocks"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

var (
	admin   = authz.Actor{ID: 1, Role: authz.RoleAdmin}
	staff   = authz.Actor{ID: 2, Role: authz.RoleStaff}
	other   = authz.Actor{ID: 3, Role: authz.RoleStaff}
	manager = authz.Actor{ID: 4, Role: authz.RoleManager}
	rep     = authz.Actor{ID: 5, Role: authz.RoleRep}
)

type fixture struct {
	repos  *mocks.Repos
	stats  *mocks.MockStatsCache
	images *mocks.MockImageStore
	svc    *service.Services
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	authorizer, err := authz.NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer failed: %v", err)
	}
	tokens, err := authn.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens failed: %v", err)
	}

	f := &fixture{
		repos:  mocks.NewRepos(),
		stats:  mocks.NewMockStatsCache(),
		images: mocks.NewMockImageStore(),
		now:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{Upload: config.UploadConfig{MaxImageSize: 5 * 1024 * 1024}}
	f.svc = service.NewServices(f.repos.Repositories(), cfg, service.Deps{
		Authorizer: authorizer,
		Images:     f.images,
		Stats:      f.stats,
		Tokens:     tokens,
		Now: func() time.Time {
			f.now = f.now.Add(time.Second)
			return f.now
		},
	}, zerolog.Nop())
	return f
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

// createArticle creates an article as actor and fails the test on error
func (f *fixture) createArticle(t *testing.T, actor authz.Actor, title, status string) *models.Article {
	t.Helper()
	a, err := f.svc.Article.Create(context.Background(), actor, &models.ArticleCreate{
		Title:  strPtr(title),
		Body:   strPtr("Body of " + title),
		Status: status,
	})
	if err != nil {
		t.Fatalf("Create %q failed: %v", title, err)
	}
	return a
}

func TestEndToEnd_DraftSubmitApprovePublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	article, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("Handling Rush Orders"),
		Body:  strPtr("Call the warehouse first."),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if article.Status != models.StatusDraft {
		t.Fatalf("Expected draft, got %s", article.Status)
	}

	// rep cannot see drafts
	list, err := f.svc.Article.List(ctx, rep, models.ArticleFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected rep to see no articles, got %d", len(list))
	}

	submitted, err := f.svc.Article.Submit(ctx, staff, article.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.Status != models.StatusPending {
		t.Fatalf("Expected pending, got %s", submitted.Status)
	}

	approved, err := f.svc.Article.Approve(ctx, admin, article.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != models.StatusPublished {
		t.Fatalf("Expected published, got %s", approved.Status)
	}

	list, err = f.svc.Article.List(ctx, rep, models.ArticleFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != article.ID {
		t.Fatalf("Expected rep to see the published article, got %+v", list)
	}
	if list[0].Body != "" {
		t.Error("List items should omit the body")
	}
}

func TestNewServices_DefaultsNopCache(t *testing.T) {
	authorizer, err := authz.NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer failed: %v", err)
	}
	repos := mocks.NewRepos()
	svc := service.NewServices(repos.Repositories(), &config.Config{}, service.Deps{Authorizer: authorizer}, zerolog.Nop())

	// writes must not fail without a cache
	if _, err := svc.Category.Create(context.Background(), admin, &models.CategoryInput{Name: strPtr("Procedures")}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	d, err := svc.Dashboard.Get(context.Background(), admin)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalCategories != 1 {
		t.Errorf("Expected 1 category, got %d", d.TotalCategories)
	}
}
