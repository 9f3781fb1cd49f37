package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/mocks"
	"github.com/highland-admin-portal/internal/models"
	"github.com/rs/zerolog"
)

var seedTime = time.Date(2024, 3, 6, 9, 30, 0, 0, time.UTC) // a Wednesday

func newTestSeeder(t *testing.T, repos *mocks.Repos, seed uint64) *Seeder {
	t.Helper()
	ds, err := LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	return New(repos.Repositories(), ds, Options{
		Rand: rand.New(rand.NewPCG(seed, seed)),
		Now:  func() time.Time { return seedTime },
	}, zerolog.Nop())
}

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}

	if len(ds.Users) != 4 || ds.Users[0].Username != KeepUsername {
		t.Errorf("Expected 4 users starting with admin, got %+v", ds.Users)
	}
	if len(ds.Customers) != 8 || len(ds.Customers[0].Addresses) != 2 {
		t.Errorf("Unexpected customers: %d", len(ds.Customers))
	}
	if len(ds.Articles) != 6 {
		t.Errorf("Expected 6 articles, got %d", len(ds.Articles))
	}
	if !strings.HasPrefix(ds.Articles[0].Body, "# Rush Order Procedure") {
		t.Errorf("Article body not parsed as block text: %q", ds.Articles[0].Body[:20])
	}
	if ds.CompanyUpdates[1].EventDate == nil || ds.CompanyUpdates[2].EventIn != 48*time.Hour {
		t.Errorf("Event dates not parsed: %+v", ds.CompanyUpdates)
	}
	if ds.Forms[1].CompletedAgo != 5*time.Hour {
		t.Errorf("Expected 5h completed_ago, got %v", ds.Forms[1].CompletedAgo)
	}
}

func TestParseDataset_RejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown category",
			yaml: `
users: [{username: admin}]
articles: [{title: A, category: Missing, status: draft}]`,
			wantErr: "unknown category",
		},
		{
			name: "unknown supplier",
			yaml: `
users: [{username: admin}]
categories: [{name: C}]
articles: [{title: A, category: C, supplier: Nobody, status: draft}]`,
			wantErr: "unknown supplier",
		},
		{
			name: "invalid status",
			yaml: `
users: [{username: admin}]
articles: [{title: A, status: archived}]`,
			wantErr: "invalid status",
		},
		{
			name:    "no users",
			yaml:    `products: []`,
			wantErr: "no users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRun_PopulatesEveryTable(t *testing.T) {
	repos := mocks.NewRepos()
	counts, err := newTestSeeder(t, repos, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	fixed := []struct {
		name string
		got  int
		want int
	}{
		{"users", counts.Users, 4},
		{"customers", counts.Customers, 8},
		{"products", counts.Products, 12},
		{"callsheets", counts.Callsheets, 1},
		{"callsheet entries", counts.CallsheetEntries, 6},
		{"todo items", counts.TodoItems, 6},
		{"company updates", counts.CompanyUpdates, 4},
		{"customer stock", counts.CustomerStockItems, 20},
		{"standing orders", counts.StandingOrders, 3},
		{"clearance", counts.ClearanceItems, 3},
		{"suppliers", counts.Suppliers, 3},
		{"categories", counts.Categories, 4},
		{"articles", counts.Articles, 6},
		{"forms", counts.Forms, 4},
	}
	for _, f := range fixed {
		if f.got != f.want {
			t.Errorf("Expected %d %s, got %d", f.want, f.name, f.got)
		}
	}

	if counts.StockTransactions < 20 || counts.StockTransactions > 60 {
		t.Errorf("Expected 20-60 stock transactions, got %d", counts.StockTransactions)
	}
	if repos.Business.BatchInsertCalls != 1 {
		t.Errorf("Expected stock transactions in one batch, got %d calls", repos.Business.BatchInsertCalls)
	}
	if len(repos.Business.OrderItems) != 12 {
		t.Errorf("Expected 12 standing order items, got %d", len(repos.Business.OrderItems))
	}
	if n := len(repos.Article.Views); n < 30 || n > 120 {
		t.Errorf("Expected 30-120 article views, got %d", n)
	}
}

func TestRun_UsersCanLogIn(t *testing.T) {
	repos := mocks.NewRepos()
	if _, err := newTestSeeder(t, repos, 2).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	u, _ := repos.User.GetByUsername(context.Background(), "jsmith")
	if u == nil {
		t.Fatal("Expected jsmith to be created")
	}
	if !authn.CheckPassword(u.PasswordHash, DefaultPassword) {
		t.Error("Seeded password does not verify")
	}
	if !u.IsActive || u.LastLogin == nil {
		t.Errorf("Expected active user with last login, got %+v", u)
	}
	if d := seedTime.Sub(*u.LastLogin); d < time.Hour || d > 48*time.Hour {
		t.Errorf("Last login %v outside 1-48h window", d)
	}
}

func TestRun_ArticlesResolveNames(t *testing.T) {
	repos := mocks.NewRepos()
	if _, err := newTestSeeder(t, repos, 3).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	ctx := context.Background()

	supplier, _ := repos.Supplier.GetByName(ctx, "Highland Supplies Ltd")
	category, _ := repos.Category.GetByName(ctx, "Supplier Info")

	var found bool
	for _, a := range repos.Article.Articles {
		if a.Status != models.StatusPublished {
			t.Errorf("Expected published seed articles, got %s", a.Status)
		}
		if a.ViewCount < 10 || a.ViewCount > 150 {
			t.Errorf("View count %d outside 10-150", a.ViewCount)
		}
		if a.Title != "Highland Supplies Ltd - Ordering Guide" {
			continue
		}
		found = true
		if a.SupplierID == nil || *a.SupplierID != supplier.ID {
			t.Errorf("Expected supplier %d, got %v", supplier.ID, a.SupplierID)
		}
		if a.CategoryID == nil || *a.CategoryID != category.ID {
			t.Errorf("Expected category %d, got %v", category.ID, a.CategoryID)
		}
	}
	if !found {
		t.Error("Ordering guide article missing")
	}
}

func TestRun_CallsheetEntries(t *testing.T) {
	repos := mocks.NewRepos()
	if _, err := newTestSeeder(t, repos, 4).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sheet := repos.Business.Callsheets[0]
	if sheet.Name != "Week 10 - Monday Calls" {
		t.Errorf("Unexpected callsheet name %q", sheet.Name)
	}

	for i, e := range repos.Business.CallsheetEntries {
		if e.Position != i || e.CallsheetID != sheet.ID {
			t.Errorf("Entry %d not linked in order: %+v", i, e)
		}
		called := e.CallStatus != models.CallNotCalled
		if called != (e.CallDate != nil) || called != (e.CalledBy != "") {
			t.Errorf("Entry %d call details inconsistent with status %s", i, e.CallStatus)
		}
		if e.CallStatus == models.CallCallback && e.CallbackTime != "2:00 PM" {
			t.Errorf("Expected callback time on entry %d", i)
		}
		if e.AddressID == nil {
			t.Errorf("Expected primary address on entry %d", i)
		}
	}
	if repos.Business.CallsheetEntries[4].CallStatus != models.CallCallback {
		t.Errorf("Statuses should cycle, got %s at position 4", repos.Business.CallsheetEntries[4].CallStatus)
	}
}

func TestRun_IsRepeatableAndDeterministic(t *testing.T) {
	ctx := context.Background()

	first, err := newTestSeeder(t, mocks.NewRepos(), 42).Run(ctx)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	other, err := newTestSeeder(t, mocks.NewRepos(), 42).Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if *first != *other {
		t.Errorf("Same seed should give same counts:\n%+v\n%+v", first, other)
	}

	repos := mocks.NewRepos()
	seeder := newTestSeeder(t, repos, 7)
	if _, err := seeder.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	admin, _ := repos.User.GetByUsername(ctx, KeepUsername)

	again, err := newTestSeeder(t, repos, 7).Run(ctx)
	if err != nil {
		t.Fatalf("re-run failed: %v", err)
	}
	if repos.Dataset.ClearCalls != 2 {
		t.Errorf("Expected a clear per run, got %d", repos.Dataset.ClearCalls)
	}
	if again.Users != 4 || again.Articles != 6 || again.Customers != 8 {
		t.Errorf("Re-run should replace the data, got %+v", again)
	}
	kept, _ := repos.User.GetByUsername(ctx, KeepUsername)
	if kept == nil || kept.ID != admin.ID {
		t.Error("Expected the admin account to survive the re-run")
	}
}

func TestRun_ClearFailureStops(t *testing.T) {
	repos := mocks.NewRepos()
	repos.Dataset.ClearError = errors.New("permission denied for table articles")

	_, err := newTestSeeder(t, repos, 1).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to clear data") {
		t.Errorf("Expected clear error, got %v", err)
	}
	if len(repos.User.Users) != 0 {
		t.Error("Nothing should be written after a failed clear")
	}
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},  // Monday
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 0},  // Sunday before the first Monday
		{time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 1},  // first Monday
		{time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), 10}, // Wednesday
	}
	for _, tt := range tests {
		if got := weekOfYear(tt.date); got != tt.want {
			t.Errorf("weekOfYear(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}
