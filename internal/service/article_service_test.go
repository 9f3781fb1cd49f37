package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
)

func TestArticleCreate_StatusDefaults(t *testing.T) {
	tests := []struct {
		requested string
		expected  models.ArticleStatus
	}{
		{"", models.StatusDraft},
		{"draft", models.StatusDraft},
		{"pending", models.StatusPending},
		{"published", models.StatusPublished},
		{"archived", models.StatusDraft},
		{"PUBLISHED", models.StatusDraft},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run("status="+tt.requested, func(t *testing.T) {
			a := f.createArticle(t, staff, "Article "+tt.requested, tt.requested)
			if a.Status != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, a.Status)
			}
			if a.AuthorID != staff.ID {
				t.Errorf("Expected author %d, got %d", staff.ID, a.AuthorID)
			}
		})
	}
}

func TestArticleCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    *models.ArticleCreate
		field string
	}{
		{"missing title", &models.ArticleCreate{Body: strPtr("b")}, "title"},
		{"blank title", &models.ArticleCreate{Title: strPtr("  "), Body: strPtr("b")}, "title"},
		{"missing body", &models.ArticleCreate{Title: strPtr("t")}, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Article.Create(ctx, staff, tt.in)
			if !errs.IsBadRequest(err) {
				t.Fatalf("Expected bad request, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected message to name %q, got %q", tt.field, err.Error())
			}
		})
	}

	_, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("t"), Body: strPtr("b"), CategoryID: int64Ptr(999),
	})
	if !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for unknown category, got %v", err)
	}
}

func TestArticleCreate_RoleGate(t *testing.T) {
	f := newFixture(t)
	for _, actor := range []authz.Actor{rep, manager} {
		_, err := f.svc.Article.Create(context.Background(), actor, &models.ArticleCreate{
			Title: strPtr("t"), Body: strPtr("b"),
		})
		if !errs.IsForbidden(err) {
			t.Errorf("%s: expected forbidden, got %v", actor.Role, err)
		}
	}
	if len(f.repos.Article.Articles) != 0 {
		t.Error("No article should have been stored")
	}
}

func TestArticleCreate_WithCategoryInvalidatesStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, err := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Procedures")})
	if err != nil {
		t.Fatalf("Category create failed: %v", err)
	}
	before := f.stats.InvalidationCount()

	a, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("t"), Body: strPtr("b"), CategoryID: &cat.ID, Tags: "orders, urgent",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.CategoryID == nil || *a.CategoryID != cat.ID {
		t.Errorf("Expected category %d, got %v", cat.ID, a.CategoryID)
	}
	if a.Tags != "orders, urgent" {
		t.Errorf("Unexpected tags %q", a.Tags)
	}
	if f.stats.InvalidationCount() != before+1 {
		t.Errorf("Expected stats invalidation after create")
	}
}

func TestArticleUpdate_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Mine", "")

	_, err := f.svc.Article.Update(ctx, other, a.ID, &models.ArticlePatch{Title: strPtr("Stolen")})
	if !errs.IsForbidden(err) {
		t.Fatalf("Expected forbidden, got %v", err)
	}
	if err.Error() != "Can only edit your own articles" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	updated, err := f.svc.Article.Update(ctx, admin, a.ID, &models.ArticlePatch{Title: strPtr("Edited by admin")})
	if err != nil {
		t.Fatalf("Admin update failed: %v", err)
	}
	if updated.Title != "Edited by admin" || updated.Body != a.Body {
		t.Errorf("Unexpected article after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) {
		t.Error("updated_at should advance")
	}

	_, err = f.svc.Article.Update(ctx, manager, a.ID, &models.ArticlePatch{Title: strPtr("x")})
	if !errs.IsForbidden(err) {
		t.Errorf("Expected forbidden for manager, got %v", err)
	}
}

func TestArticleUpdate_StatusOnlyForAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Draft", "")

	got, err := f.svc.Article.Update(ctx, staff, a.ID, &models.ArticlePatch{Status: strPtr("published")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("Staff status change should be ignored, got %s", got.Status)
	}

	_, err = f.svc.Article.Update(ctx, admin, a.ID, &models.ArticlePatch{Status: strPtr("archived")})
	if !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for invalid status, got %v", err)
	}

	got, err = f.svc.Article.Update(ctx, admin, a.ID, &models.ArticlePatch{Status: strPtr("published")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Status != models.StatusPublished {
		t.Errorf("Expected published, got %s", got.Status)
	}
}

func TestArticleUpdate_ClearsForeignKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sup, err := f.svc.Supplier.Create(ctx, staff, &models.SupplierInput{Name: strPtr("NorthCo Distributors")})
	if err != nil {
		t.Fatalf("Supplier create failed: %v", err)
	}
	a, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("t"), Body: strPtr("b"), SupplierID: &sup.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := f.svc.Article.Update(ctx, staff, a.ID, &models.ArticlePatch{
		SupplierID: models.OptionalID{Set: true},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.SupplierID != nil {
		t.Errorf("Expected supplier cleared, got %v", *got.SupplierID)
	}

	_, err = f.svc.Article.Update(ctx, staff, a.ID, &models.ArticlePatch{
		CategoryID: models.OptionalID{Set: true, Value: int64Ptr(42)},
	})
	if !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for unknown category, got %v", err)
	}
}

func TestArticleUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Article.Update(context.Background(), admin, 404, &models.ArticlePatch{})
	if !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestArticleSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Draft", "")

	_, err := f.svc.Article.Submit(ctx, other, a.ID)
	if !errs.IsForbidden(err) || err.Error() != "Can only submit your own articles" {
		t.Fatalf("Expected ownership error, got %v", err)
	}
	if f.repos.Article.Get(a.ID).Status != models.StatusDraft {
		t.Error("Rejected submit must not change status")
	}

	_, err = f.svc.Article.Submit(ctx, rep, a.ID)
	if !errs.IsForbidden(err) {
		t.Errorf("Expected forbidden for rep, got %v", err)
	}

	got, err := f.svc.Article.Submit(ctx, staff, a.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("Expected pending, got %s", got.Status)
	}

	// admin may submit anyone's article
	b := f.createArticle(t, other, "Other draft", "")
	if _, err := f.svc.Article.Submit(ctx, admin, b.ID); err != nil {
		t.Errorf("Admin submit failed: %v", err)
	}
}

func TestArticleApproveReject_FromAnyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, from := range []string{"draft", "pending", "published"} {
		a := f.createArticle(t, staff, "From "+from, from)

		got, err := f.svc.Article.Approve(ctx, admin, a.ID)
		if err != nil {
			t.Fatalf("Approve from %s failed: %v", from, err)
		}
		if got.Status != models.StatusPublished {
			t.Errorf("Approve from %s: expected published, got %s", from, got.Status)
		}

		got, err = f.svc.Article.Reject(ctx, admin, a.ID)
		if err != nil {
			t.Fatalf("Reject failed: %v", err)
		}
		if got.Status != models.StatusDraft {
			t.Errorf("Reject: expected draft, got %s", got.Status)
		}
		if f.repos.Article.Get(a.ID).Status != models.StatusDraft {
			t.Error("Stored status should be draft")
		}
	}

	a := f.createArticle(t, staff, "Pending", "pending")
	for _, actor := range []authz.Actor{staff, manager, rep} {
		if _, err := f.svc.Article.Approve(ctx, actor, a.ID); !errs.IsForbidden(err) {
			t.Errorf("%s approve: expected forbidden, got %v", actor.Role, err)
		}
		if _, err := f.svc.Article.Reject(ctx, actor, a.ID); !errs.IsForbidden(err) {
			t.Errorf("%s reject: expected forbidden, got %v", actor.Role, err)
		}
	}

	if _, err := f.svc.Article.Approve(ctx, admin, 999); !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestArticleView_CountsEveryVisit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Popular", "published")

	first, err := f.svc.Article.View(ctx, rep, a.ID)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	second, err := f.svc.Article.View(ctx, rep, a.ID)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}

	if first.ViewCount != 1 || second.ViewCount != 2 {
		t.Errorf("Expected counts 1 then 2, got %d then %d", first.ViewCount, second.ViewCount)
	}
	rows, _ := f.repos.View.CountByArticle(ctx, a.ID)
	if rows != 2 {
		t.Errorf("Expected 2 view rows, got %d", rows)
	}
	if f.repos.Article.Get(a.ID).ViewCount != 2 {
		t.Error("Stored view count should be 2")
	}
	if !strings.Contains(second.BodyHTML, "<p>Body of Popular</p>") {
		t.Errorf("Expected rendered body, got %q", second.BodyHTML)
	}
}

func TestArticleView_StatusGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Draft", "")

	_, err := f.svc.Article.View(ctx, rep, a.ID)
	if !errs.IsForbidden(err) || err.Error() != "Cannot view unpublished articles" {
		t.Fatalf("Expected unpublished error, got %v", err)
	}
	if rows, _ := f.repos.View.CountByArticle(ctx, a.ID); rows != 0 {
		t.Error("A denied view must not be recorded")
	}

	for _, actor := range []authz.Actor{admin, manager, staff, other} {
		if _, err := f.svc.Article.View(ctx, actor, a.ID); err != nil {
			t.Errorf("%s view failed: %v", actor.Role, err)
		}
	}

	got, err := f.svc.Article.Get(ctx, manager, a.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ViewCount != 4 {
		t.Errorf("Get should not count a view, got %d", got.ViewCount)
	}

	if _, err := f.svc.Article.View(ctx, admin, 999); !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestArticleDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createArticle(t, staff, "Doomed", "published")
	if _, err := f.svc.Article.View(ctx, staff, a.ID); err != nil {
		t.Fatalf("View failed: %v", err)
	}

	if _, err := f.svc.Article.Delete(ctx, staff, a.ID); !errs.IsForbidden(err) {
		t.Fatalf("Expected forbidden, got %v", err)
	}

	deleted, err := f.svc.Article.Delete(ctx, admin, a.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.Title != "Doomed" {
		t.Errorf("Expected deleted article returned, got %q", deleted.Title)
	}
	if _, err := f.svc.Article.Get(ctx, admin, a.ID); !errs.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if rows, _ := f.repos.View.CountByArticle(ctx, a.ID); rows != 0 {
		t.Errorf("Views should cascade, got %d", rows)
	}
}

func TestArticleList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Troubleshooting")})
	f.createArticle(t, staff, "Rush Order Procedure", "published")
	f.createArticle(t, staff, "rush hour deliveries", "draft")
	inCat, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("Stock Discrepancies"), Body: strPtr("count twice"), CategoryID: &cat.ID,
		Tags: "stock, Rush", Status: "pending",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name     string
		actor    authz.Actor
		filter   models.ArticleFilter
		expected int
	}{
		{"all for staff", staff, models.ArticleFilter{}, 3},
		{"published only for rep", rep, models.ArticleFilter{}, 1},
		{"rep cannot widen status", rep, models.ArticleFilter{Status: models.StatusDraft}, 1},
		{"case sensitive search", staff, models.ArticleFilter{Search: "Rush"}, 2},
		{"lower case search", staff, models.ArticleFilter{Search: "rush"}, 1},
		{"search body", staff, models.ArticleFilter{Search: "twice"}, 1},
		{"category", staff, models.ArticleFilter{CategoryID: &cat.ID}, 1},
		{"status", manager, models.ArticleFilter{Status: models.StatusPending}, 1},
		{"limit", staff, models.ArticleFilter{Limit: 2}, 2},
		{"offset", staff, models.ArticleFilter{Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Article.List(ctx, tt.actor, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != tt.expected {
				t.Errorf("Expected %d articles, got %d", tt.expected, len(got))
			}
		})
	}

	got, _ := f.svc.Article.List(ctx, staff, models.ArticleFilter{})
	if got[0].ID != inCat.ID {
		t.Errorf("Expected newest first, got %d", got[0].ID)
	}

	_, err = f.svc.Article.List(ctx, staff, models.ArticleFilter{Status: "archived"})
	if !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for invalid status, got %v", err)
	}
}

func TestArticleFeeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quiet := f.createArticle(t, staff, "Quiet", "published")
	busy := f.createArticle(t, staff, "Busy", "published")
	f.createArticle(t, staff, "Hidden", "draft")
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Article.View(ctx, rep, busy.ID); err != nil {
			t.Fatalf("View failed: %v", err)
		}
	}
	if _, err := f.svc.Article.View(ctx, rep, quiet.ID); err != nil {
		t.Fatalf("View failed: %v", err)
	}
	newest := f.createArticle(t, staff, "Newest", "published")

	recent, err := f.svc.Article.Recent(ctx, rep, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 3 || recent[0].ID != newest.ID {
		t.Errorf("Unexpected recent feed: %+v", recent)
	}

	popular, err := f.svc.Article.Popular(ctx, rep, 1)
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	if len(popular) != 1 || popular[0].ID != busy.ID {
		t.Errorf("Expected busiest article first, got %+v", popular)
	}
}

func TestArticleReviewQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createArticle(t, staff, "Draft", "draft")
	first := f.createArticle(t, staff, "First", "pending")
	second := f.createArticle(t, staff, "Second", "pending")
	f.createArticle(t, staff, "Live", "published")

	// touching first moves it to the top of the queue
	if _, err := f.svc.Article.Update(ctx, staff, first.ID, &models.ArticlePatch{Tags: strPtr("x")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	q, err := f.svc.Article.ReviewQueue(ctx, manager)
	if err != nil {
		t.Fatalf("ReviewQueue failed: %v", err)
	}
	if len(q.Pending) != 2 || q.Pending[0].ID != first.ID || q.Pending[1].ID != second.ID {
		t.Errorf("Unexpected queue order: %+v", q.Pending)
	}
	if q.Draft != 1 || q.StatusCounts.Pending != 2 || q.Published != 1 {
		t.Errorf("Unexpected counts: %+v", q.StatusCounts)
	}

	_, err = f.svc.Article.ReviewQueue(ctx, staff)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
}

func TestArticleList_LimitClamp(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < service.DefaultListLimit+5; i++ {
		f.createArticle(t, staff, "a", "published")
	}
	got, err := f.svc.Article.List(context.Background(), rep, models.ArticleFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != service.DefaultListLimit {
		t.Errorf("Expected default limit %d, got %d", service.DefaultListLimit, len(got))
	}
}
