package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
)

func TestDashboard_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Procedures")})
	f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Troubleshooting")})
	f.svc.Supplier.Create(ctx, staff, &models.SupplierInput{Name: strPtr("NorthCo Distributors")})
	for i, status := range []string{"draft", "pending", "pending", "published", "published", "published"} {
		_, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
			Title: strPtr(status), Body: strPtr("b"), Status: status, CategoryID: &cat.ID,
		})
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	d, err := f.svc.Dashboard.Get(ctx, manager)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalArticles != 3 || d.TotalCategories != 2 || d.TotalSuppliers != 1 {
		t.Errorf("Unexpected totals: %+v", d.DashboardStats)
	}
	if d.PendingArticles != 2 {
		t.Errorf("Expected 2 pending for manager, got %d", d.PendingArticles)
	}
	if len(d.Recent) != 3 || len(d.Popular) != 3 {
		t.Errorf("Expected 3 recent and popular, got %d and %d", len(d.Recent), len(d.Popular))
	}
	if len(d.Categories) != 2 || d.Categories[0].ArticleCount != 3 {
		t.Errorf("Unexpected category counts: %+v", d.Categories)
	}

	d, err = f.svc.Dashboard.Get(ctx, staff)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.PendingArticles != 0 {
		t.Errorf("Staff should not see the pending count, got %d", d.PendingArticles)
	}
}

func TestDashboard_CacheLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Dashboard.Get(ctx, rep); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if f.stats.Sets != 1 {
		t.Fatalf("Expected stats to be cached once, got %d", f.stats.Sets)
	}

	if _, err := f.svc.Dashboard.Get(ctx, rep); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if f.stats.Sets != 1 {
		t.Errorf("Second read should hit the cache, got %d sets", f.stats.Sets)
	}

	f.createArticle(t, staff, "Fresh", "published")
	d, err := f.svc.Dashboard.Get(ctx, rep)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalArticles != 1 {
		t.Errorf("Write should invalidate cached stats, got %d articles", d.TotalArticles)
	}

	// a broken cache degrades to a direct read
	f.stats.GetError = errors.New("redis down")
	if _, err := f.svc.Dashboard.Get(ctx, rep); err != nil {
		t.Errorf("Cache failure should not fail the dashboard: %v", err)
	}
}

func TestAuth_LoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hash, err := authn.HashPassword("Password123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	f.repos.User.Create(ctx, &models.User{
		Username: "jsmith", FullName: "James Smith", Role: "user", PasswordHash: hash, IsActive: true,
	})
	f.repos.User.Create(ctx, &models.User{
		Username: "gone", Role: "staff", PasswordHash: hash, IsActive: false,
	})

	res, err := f.svc.Auth.Login(ctx, &models.LoginRequest{Username: "jsmith", Password: "Password123!"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token == "" || res.User.Username != "jsmith" {
		t.Errorf("Unexpected login response: %+v", res)
	}
	stored, _ := f.repos.User.GetByUsername(ctx, "jsmith")
	if stored.LastLogin == nil {
		t.Error("Expected last_login to be recorded")
	}

	actor, user, err := f.svc.Auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if actor.ID != user.ID || actor.Role != "staff" {
		t.Errorf("Expected legacy user role to map to staff, got %+v", actor)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "jsmith", "nope"},
		{"unknown user", "nobody", "Password123!"},
		{"inactive", "gone", "Password123!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.Login(ctx, &models.LoginRequest{Username: tt.username, Password: tt.password})
			if !errs.IsUnauthorized(err) {
				t.Errorf("Expected unauthorized, got %v", err)
			}
		})
	}

	if _, err := f.svc.Auth.Login(ctx, &models.LoginRequest{}); !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for empty credentials, got %v", err)
	}
	if _, _, err := f.svc.Auth.Authenticate(ctx, "garbage"); !errs.IsUnauthorized(err) {
		t.Errorf("Expected unauthorized for bad token, got %v", err)
	}
}
