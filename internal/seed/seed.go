// Package seed fills the portal database with demo data.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPassword is set on every seeded account
const DefaultPassword = "Password123!"

// KeepUsername survives the initial wipe
const KeepUsername = "admin"

//go:embed dataset.yaml
var datasetYAML []byte

// Dataset is the static sample data
type Dataset struct {
	Users          []UserSeed              `yaml:"users"`
	Customers      []models.Customer       `yaml:"customers"`
	Products       []models.Product        `yaml:"products"`
	Todos          []TodoSeed              `yaml:"todos"`
	CompanyUpdates []UpdateSeed            `yaml:"company_updates"`
	Clearance      []models.ClearanceStock `yaml:"clearance"`
	Suppliers      []SupplierSeed          `yaml:"suppliers"`
	Categories     []CategorySeed          `yaml:"categories"`
	Articles       []ArticleSeed           `yaml:"articles"`
	Forms          []FormSeed              `yaml:"forms"`
}

type UserSeed struct {
	Username    string `yaml:"username"`
	Email       string `yaml:"email"`
	FullName    string `yaml:"full_name"`
	Role        string `yaml:"role"`
	JobTitle    string `yaml:"job_title"`
	DirectPhone string `yaml:"direct_phone"`
	MobilePhone string `yaml:"mobile_phone"`
}

type TodoSeed struct {
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed"`
}

// UpdateSeed is a company update. EventIn places the event relative to
// the seeding time when no fixed EventDate is given.
type UpdateSeed struct {
	Title     string        `yaml:"title"`
	Message   string        `yaml:"message"`
	Priority  string        `yaml:"priority"`
	Category  string        `yaml:"category"`
	IsEvent   bool          `yaml:"is_event"`
	EventDate *time.Time    `yaml:"event_date"`
	EventIn   time.Duration `yaml:"event_in"`
	Sticky    bool          `yaml:"sticky"`
}

type SupplierSeed struct {
	Name        string `yaml:"name"`
	Website     string `yaml:"website"`
	ContactInfo string `yaml:"contact_info"`
}

type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

// ArticleSeed references its category and supplier by name
type ArticleSeed struct {
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Category string `yaml:"category"`
	Supplier string `yaml:"supplier"`
	Status   string `yaml:"status"`
	Tags     string `yaml:"tags"`
}

type FormSeed struct {
	Type         string        `yaml:"type"`
	Data         string        `yaml:"data"`
	IsCompleted  bool          `yaml:"is_completed"`
	CompletedAgo time.Duration `yaml:"completed_ago"`
}

// LoadDataset parses the embedded sample data
func LoadDataset() (*Dataset, error) {
	return ParseDataset(datasetYAML)
}

// ParseDataset parses sample data and checks that every article reference
// resolves
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	categories := make(map[string]bool, len(ds.Categories))
	for _, c := range ds.Categories {
		categories[c.Name] = true
	}
	suppliers := make(map[string]bool, len(ds.Suppliers))
	for _, s := range ds.Suppliers {
		suppliers[s.Name] = true
	}
	for _, a := range ds.Articles {
		if a.Category != "" && !categories[a.Category] {
			return nil, fmt.Errorf("article %q: unknown category %q", a.Title, a.Category)
		}
		if a.Supplier != "" && !suppliers[a.Supplier] {
			return nil, fmt.Errorf("article %q: unknown supplier %q", a.Title, a.Supplier)
		}
		if !models.ArticleStatus(a.Status).IsValid() {
			return nil, fmt.Errorf("article %q: invalid status %q", a.Title, a.Status)
		}
	}
	if len(ds.Users) == 0 {
		return nil, fmt.Errorf("dataset has no users")
	}
	return &ds, nil
}

// Options tune a Seeder; zero values fall back to real time and a random source
type Options struct {
	Rand *rand.Rand
	Now  func() time.Time
}

// Seeder writes a Dataset through the repositories
type Seeder struct {
	repos *repository.Repositories
	data  *Dataset
	rng   *rand.Rand
	now   time.Time
	log   zerolog.Logger
}

// New creates a Seeder
func New(repos *repository.Repositories, data *Dataset, opts Options, log zerolog.Logger) *Seeder {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return &Seeder{
		repos: repos,
		data:  data,
		rng:   rng,
		now:   now(),
		log:   log.With().Str("component", "seeder").Logger(),
	}
}

// between returns a random int in [lo, hi]
func (s *Seeder) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Seeder) daysAgo(lo, hi int) time.Time {
	return s.now.AddDate(0, 0, -s.between(lo, hi))
}

func (s *Seeder) pick(users []*models.User) *models.User {
	return users[s.rng.IntN(len(users))]
}

// Run clears existing data and inserts the full dataset, returning the
// resulting row counts
func (s *Seeder) Run(ctx context.Context) (*models.TableCounts, error) {
	s.log.Info().Msg("Clearing existing data")
	if err := s.repos.Dataset.ClearAll(ctx, KeepUsername); err != nil {
		return nil, fmt.Errorf("failed to clear data: %w", err)
	}

	users, err := s.createUsers(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.createCustomers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.createProducts(ctx)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"callsheet", func(ctx context.Context) error { return s.createCallsheet(ctx, users, customers) }},
		{"todo items", func(ctx context.Context) error { return s.createTodos(ctx, users) }},
		{"company updates", func(ctx context.Context) error { return s.createCompanyUpdates(ctx, users) }},
		{"customer stock", func(ctx context.Context) error { return s.createCustomerStock(ctx, users, customers, products) }},
		{"standing orders", func(ctx context.Context) error { return s.createStandingOrders(ctx, users, customers, products) }},
		{"clearance stock", func(ctx context.Context) error { return s.createClearance(ctx, users) }},
		{"knowledge base", func(ctx context.Context) error { return s.createKnowledgeBase(ctx, users) }},
		{"forms", func(ctx context.Context) error { return s.createForms(ctx, users) }},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", step.name, err)
		}
		s.log.Info().Str("step", step.name).Msg("Created")
	}

	return s.repos.Dataset.Counts(ctx)
}

func (s *Seeder) createUsers(ctx context.Context) ([]*models.User, error) {
	hash, err := authn.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]*models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		existing, err := s.repos.User.GetByUsername(ctx, u.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to look up user %s: %w", u.Username, err)
		}
		if existing != nil {
			users = append(users, existing)
			continue
		}

		lastLogin := s.now.Add(-time.Duration(s.between(1, 48)) * time.Hour)
		user := &models.User{
			Username:     u.Username,
			Email:        u.Email,
			FullName:     u.FullName,
			Role:         u.Role,
			JobTitle:     u.JobTitle,
			DirectPhone:  u.DirectPhone,
			MobilePhone:  u.MobilePhone,
			PasswordHash: hash,
			IsActive:     true,
			LastLogin:    &lastLogin,
			CreatedAt:    s.now,
		}
		if err := s.repos.User.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		users = append(users, user)
	}
	s.log.Info().Int("count", len(users)).Msg("Created users")
	return users, nil
}

func (s *Seeder) createCustomers(ctx context.Context) ([]*models.Customer, error) {
	customers := make([]*models.Customer, 0, len(s.data.Customers))
	for i := range s.data.Customers {
		c := s.data.Customers[i]
		c.Addresses = append([]models.CustomerAddress(nil), c.Addresses...)
		if err := s.repos.Business.CreateCustomer(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to create customer %s: %w", c.AccountNumber, err)
		}
		customers = append(customers, &c)
	}
	s.log.Info().Int("count", len(customers)).Msg("Created customers")
	return customers, nil
}

func (s *Seeder) createProducts(ctx context.Context) ([]*models.Product, error) {
	products := make([]*models.Product, 0, len(s.data.Products))
	for i := range s.data.Products {
		p := s.data.Products[i]
		if err := s.repos.Business.CreateProduct(ctx, &p); err != nil {
			return nil, fmt.Errorf("failed to create product %s: %w", p.Code, err)
		}
		products = append(products, &p)
	}
	s.log.Info().Int("count", len(products)).Msg("Created products")
	return products, nil
}

// weekOfYear numbers weeks from the first Monday, matching strftime %W
func weekOfYear(t time.Time) int {
	weekday := (int(t.Weekday()) + 6) % 7
	return (t.YearDay() - 1 + 7 - weekday) / 7
}

var callStatuses = []string{
	models.CallNotCalled,
	models.CallOrdered,
	models.CallNoAnswer,
	models.CallDeclined,
	models.CallCallback,
}

func (s *Seeder) createCallsheet(ctx context.Context, users []*models.User, customers []*models.Customer) error {
	sheet := &models.Callsheet{
		Name:      fmt.Sprintf("Week %02d - Monday Calls", weekOfYear(s.now)),
		DayOfWeek: "Monday",
		Month:     int(s.now.Month()),
		Year:      s.now.Year(),
		IsActive:  true,
		CreatedBy: users[0].ID,
		CreatedAt: s.now.AddDate(0, 0, -2),
	}

	var entries []*models.CallsheetEntry
	for i, c := range customers[:min(6, len(customers))] {
		status := callStatuses[i%len(callStatuses)]
		e := &models.CallsheetEntry{
			CustomerID: c.ID,
			CallStatus: status,
			UserID:     s.pick(users).ID,
			Position:   i,
		}
		if len(c.Addresses) > 0 {
			e.AddressID = &c.Addresses[0].ID
			e.AddressLabel = c.Addresses[0].Label
		}
		if status != models.CallNotCalled {
			e.CalledBy = s.pick(users[1:]).FullName
			at := s.now.Add(-time.Duration(s.between(1, 6)) * time.Hour)
			e.CallDate = &at
		}
		if status == models.CallOrdered || status == models.CallCallback {
			e.PersonSpokenTo = c.ContactName
		}
		if status == models.CallCallback {
			e.CallbackTime = "2:00 PM"
		}
		entries = append(entries, e)
	}

	return s.repos.Business.CreateCallsheet(ctx, sheet, entries)
}

func (s *Seeder) createTodos(ctx context.Context, users []*models.User) error {
	for _, u := range users[:min(2, len(users))] {
		for _, t := range s.data.Todos[:min(3, len(s.data.Todos))] {
			todo := &models.TodoItem{
				UserID:    u.ID,
				Text:      t.Text,
				Completed: t.Completed,
				CreatedAt: s.daysAgo(0, 5),
			}
			if err := s.repos.Business.CreateTodo(ctx, todo); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createCompanyUpdates(ctx context.Context, users []*models.User) error {
	for _, u := range s.data.CompanyUpdates {
		update := &models.CompanyUpdate{
			Title:     u.Title,
			Message:   u.Message,
			Priority:  u.Priority,
			Category:  u.Category,
			IsEvent:   u.IsEvent,
			EventDate: u.EventDate,
			Sticky:    u.Sticky,
			UserID:    users[0].ID,
			CreatedAt: s.daysAgo(0, 7),
		}
		if update.EventDate == nil && u.EventIn != 0 {
			at := s.now.Add(u.EventIn)
			update.EventDate = &at
		}
		if err := s.repos.Business.CreateCompanyUpdate(ctx, update); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createCustomerStock(ctx context.Context, users []*models.User, customers []*models.Customer, products []*models.Product) error {
	var txns []*models.StockTransaction
	for _, c := range customers[:min(4, len(customers))] {
		for _, p := range products[:min(5, len(products))] {
			stock := &models.CustomerStock{
				CustomerID:   c.ID,
				ProductCode:  p.Code,
				ProductName:  p.Name,
				CurrentStock: s.between(0, 50),
				ReorderLevel: s.between(5, 15),
				CreatedAt:    s.daysAgo(10, 60),
			}
			if err := s.repos.Business.CreateCustomerStock(ctx, stock); err != nil {
				return err
			}

			for n := s.between(1, 3); n > 0; n-- {
				txType := "stock_in"
				if s.rng.IntN(2) == 1 {
					txType = "stock_out"
				}
				notes := "Rush order"
				if s.rng.Float64() > 0.5 {
					notes = "Regular delivery"
				}
				txns = append(txns, &models.StockTransaction{
					StockItemID:     stock.ID,
					TransactionType: txType,
					Quantity:        s.between(5, 20),
					Reference:       fmt.Sprintf("ORD%d", s.between(1000, 9999)),
					Notes:           notes,
					TransactionDate: s.daysAgo(1, 30),
					CreatedBy:       s.pick(users).ID,
				})
			}
		}
	}

	_, err := s.repos.Business.BatchInsertStockTransactions(ctx, txns)
	return err
}

func (s *Seeder) createStandingOrders(ctx context.Context, users []*models.User, customers []*models.Customer, products []*models.Product) error {
	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, s.now.Location())
	for _, c := range customers[:min(3, len(customers))] {
		where := "main entrance"
		if len(c.Addresses) > 0 {
			where = c.Addresses[0].Label
		}
		order := &models.StandingOrder{
			CustomerID:          c.ID,
			DeliveryDays:        "0,3",
			StartDate:           today.AddDate(0, 0, -30),
			Status:              "active",
			SpecialInstructions: "Please deliver to " + where,
			CreatedBy:           users[0].ID,
			CreatedAt:           s.now.AddDate(0, 0, -30),
		}

		var items []*models.StandingOrderItem
		for _, p := range products[:min(4, len(products))] {
			items = append(items, &models.StandingOrderItem{
				ProductCode: p.Code,
				ProductName: p.Name,
				Quantity:    s.between(2, 10),
				UnitType:    "units",
			})
		}
		if err := s.repos.Business.CreateStandingOrder(ctx, order, items); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createClearance(ctx context.Context, users []*models.User) error {
	for i := range s.data.Clearance {
		item := s.data.Clearance[i]
		item.CreatedBy = users[0].ID
		item.CreatedAt = s.daysAgo(5, 30)
		if err := s.repos.Business.CreateClearanceStock(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createKnowledgeBase(ctx context.Context, users []*models.User) error {
	suppliers := make(map[string]int64, len(s.data.Suppliers))
	for _, sup := range s.data.Suppliers {
		m := &models.Supplier{Name: sup.Name, Website: sup.Website, ContactInfo: sup.ContactInfo}
		if err := s.repos.Supplier.Create(ctx, m); err != nil {
			return fmt.Errorf("supplier %s: %w", sup.Name, err)
		}
		suppliers[sup.Name] = m.ID
	}

	categories := make(map[string]int64, len(s.data.Categories))
	for _, cat := range s.data.Categories {
		m := &models.Category{Name: cat.Name, Description: cat.Description, Color: cat.Color}
		if err := s.repos.Category.Create(ctx, m); err != nil {
			return fmt.Errorf("category %s: %w", cat.Name, err)
		}
		categories[cat.Name] = m.ID
	}

	var views []*models.ArticleView
	for i, a := range s.data.Articles {
		article := &models.Article{
			Title:     a.Title,
			Body:      a.Body,
			Tags:      a.Tags,
			Status:    models.ArticleStatus(a.Status),
			AuthorID:  users[i%len(users)].ID,
			ViewCount: s.between(10, 150),
			CreatedAt: s.daysAgo(5, 60),
		}
		if id, ok := categories[a.Category]; ok {
			article.CategoryID = &id
		}
		if id, ok := suppliers[a.Supplier]; ok {
			article.SupplierID = &id
		}
		if err := s.repos.Article.Create(ctx, article); err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}

		for n := s.between(5, 20); n > 0; n-- {
			views = append(views, &models.ArticleView{
				ArticleID: article.ID,
				UserID:    s.pick(users).ID,
				ViewedAt:  s.daysAgo(0, 30),
			})
		}
	}

	_, err := s.repos.View.BatchInsert(ctx, views)
	return err
}

func (s *Seeder) createForms(ctx context.Context, users []*models.User) error {
	for _, f := range s.data.Forms {
		form := &models.Form{
			Type:        f.Type,
			Data:        f.Data,
			IsCompleted: f.IsCompleted,
			UserID:      s.pick(users).ID,
			DateCreated: s.daysAgo(1, 7),
		}
		if f.IsCompleted {
			done := s.now.Add(-f.CompletedAgo)
			form.CompletedDate = &done
			form.CompletedBy = &s.pick(users).ID
		}
		if err := s.repos.Business.CreateForm(ctx, form); err != nil {
			return err
		}
	}
	return nil
}
