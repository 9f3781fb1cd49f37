package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
)

func TestCategory_NameUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	procedures, err := f.svc.Category.Create(ctx, admin, &models.CategoryInput{
		Name: strPtr("Procedures"), Description: strPtr("How we do things"), Color: strPtr("#10B981"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if procedures.Color != "#10B981" {
		t.Errorf("Expected color to be stored, got %q", procedures.Color)
	}
	troubleshooting, err := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Troubleshooting")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Procedures")})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if errs.StatusCode(err) != http.StatusBadRequest || err.Error() != "Category name already exists" {
		t.Errorf("Unexpected error: %d %q", errs.StatusCode(err), err.Error())
	}

	// names are case sensitive
	if _, err := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("procedures")}); err != nil {
		t.Errorf("Expected different-case name to be accepted, got %v", err)
	}

	_, err = f.svc.Category.Update(ctx, admin, troubleshooting.ID, &models.CategoryInput{Name: strPtr("Procedures")})
	if !errs.IsConflict(err) {
		t.Errorf("Expected conflict on rename, got %v", err)
	}

	got, err := f.svc.Category.Update(ctx, admin, procedures.ID, &models.CategoryInput{
		Name: strPtr("Procedures"), Description: strPtr("Updated"),
	})
	if err != nil {
		t.Fatalf("Rename to own name failed: %v", err)
	}
	if got.Description != "Updated" || got.Color != "#10B981" {
		t.Errorf("Unexpected category after update: %+v", got)
	}
}

func TestCategory_WriteRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Category.Create(ctx, staff, &models.CategoryInput{Name: strPtr("x")})
	if !errs.IsForbidden(err) {
		t.Errorf("Expected forbidden, got %v", err)
	}
	_, err = f.svc.Category.Create(ctx, admin, &models.CategoryInput{})
	if !errs.IsBadRequest(err) {
		t.Errorf("Expected bad request for missing name, got %v", err)
	}

	c, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("x")})
	if err := f.svc.Category.Delete(ctx, manager, c.ID); !errs.IsForbidden(err) {
		t.Errorf("Expected forbidden, got %v", err)
	}
	if _, err := f.svc.Category.Get(ctx, rep, c.ID); err != nil {
		t.Errorf("Rep should read categories: %v", err)
	}
	if _, err := f.svc.Category.Get(ctx, rep, 999); !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCategory_DeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	used, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Used")})
	unused, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Unused")})
	for _, status := range []string{"draft", "published"} {
		if _, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
			Title: strPtr(status), Body: strPtr("b"), CategoryID: &used.ID, Status: status,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	err := f.svc.Category.Delete(ctx, admin, used.ID)
	if !errs.IsBadRequest(err) {
		t.Fatalf("Expected bad request, got %v", err)
	}
	if err.Error() != "Cannot delete category with 2 articles" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	if err := f.svc.Category.Delete(ctx, admin, unused.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.svc.Category.Get(ctx, admin, unused.ID); !errs.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestCategory_ListCountsPublishedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, _ := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Product Information")})
	for _, status := range []string{"draft", "pending", "published", "published"} {
		if _, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
			Title: strPtr(status), Body: strPtr("b"), CategoryID: &c.ID, Status: status,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := f.svc.Category.List(ctx, rep)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ArticleCount != 2 {
		t.Errorf("Expected one category with 2 published articles, got %+v", list)
	}
}

func TestSupplier_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	highland, err := f.svc.Supplier.Create(ctx, staff, &models.SupplierInput{
		Name:        strPtr("Highland Supplies Ltd"),
		Website:     strPtr("https://highlandsupplies.co.uk"),
		ContactInfo: strPtr("orders@highlandsupplies.co.uk"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	north, err := f.svc.Supplier.Create(ctx, admin, &models.SupplierInput{Name: strPtr("NorthCo Distributors")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = f.svc.Supplier.Create(ctx, staff, &models.SupplierInput{Name: strPtr("Highland Supplies Ltd")})
	if !errs.IsConflict(err) || err.Error() != "Supplier name already exists" {
		t.Errorf("Expected conflict, got %v", err)
	}
	if _, err := f.svc.Supplier.Create(ctx, rep, &models.SupplierInput{Name: strPtr("x")}); !errs.IsForbidden(err) {
		t.Errorf("Expected forbidden for rep, got %v", err)
	}

	_, err = f.svc.Supplier.Update(ctx, staff, north.ID, &models.SupplierInput{Name: strPtr("Highland Supplies Ltd")})
	if !errs.IsConflict(err) {
		t.Errorf("Expected conflict on rename, got %v", err)
	}
	got, err := f.svc.Supplier.Update(ctx, staff, highland.ID, &models.SupplierInput{
		Name: strPtr("Highland Supplies Ltd"), Phone: strPtr("01463 000000"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Phone != "01463 000000" || got.Website != "https://highlandsupplies.co.uk" {
		t.Errorf("Unexpected supplier after update: %+v", got)
	}

	list, err := f.svc.Supplier.List(ctx, rep, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Highland Supplies Ltd" {
		t.Errorf("Expected suppliers ordered by name, got %+v", list)
	}
	list, _ = f.svc.Supplier.List(ctx, rep, "North")
	if len(list) != 1 || list[0].ID != north.ID {
		t.Errorf("Expected search to match NorthCo, got %+v", list)
	}
}

func TestSupplier_DeleteClearsArticleReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sup, _ := f.svc.Supplier.Create(ctx, staff, &models.SupplierInput{Name: strPtr("EcoProducts Scotland")})
	a, err := f.svc.Article.Create(ctx, staff, &models.ArticleCreate{
		Title: strPtr("Eco range"), Body: strPtr("b"), SupplierID: &sup.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := f.svc.Supplier.Delete(ctx, staff, sup.ID); !errs.IsForbidden(err) {
		t.Fatalf("Expected forbidden for staff, got %v", err)
	}
	if err := f.svc.Supplier.Delete(ctx, admin, sup.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := f.svc.Article.Get(ctx, admin, a.ID)
	if err != nil {
		t.Fatalf("Article should survive supplier delete: %v", err)
	}
	if got.SupplierID != nil {
		t.Errorf("Expected supplier_id cleared, got %d", *got.SupplierID)
	}
	if err := f.svc.Supplier.Delete(ctx, admin, sup.ID); !errs.IsNotFound(err) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestRegistry_FieldValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() error
		wantField string
	}{
		{
			name: "supplier email",
			call: func() error {
				_, err := f.svc.Supplier.Create(ctx, admin, &models.SupplierInput{Name: strPtr("Acme"), Email: strPtr("not-an-email")})
				return err
			},
			wantField: "email",
		},
		{
			name: "supplier website",
			call: func() error {
				_, err := f.svc.Supplier.Create(ctx, admin, &models.SupplierInput{Name: strPtr("Acme"), Website: strPtr("acme.example")})
				return err
			},
			wantField: "website",
		},
		{
			name: "category color",
			call: func() error {
				_, err := f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: strPtr("Procedures"), Color: strPtr("green")})
				return err
			},
			wantField: "color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var apiErr *errs.ApiErr
			if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %v", err)
			}
			if apiErr.Field != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, apiErr.Field)
			}
		})
	}

	if len(f.repos.Supplier.Suppliers) != 0 || len(f.repos.Category.Categories) != 0 {
		t.Error("Invalid input should not be stored")
	}
}
