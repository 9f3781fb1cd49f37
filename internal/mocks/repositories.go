package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
)

// Repos bundles the in-memory repositories so tests can reach their state
type Repos struct {
	User     *MockUserRepository
	Article  *MockArticleRepository
	View     *MockViewRepository
	Category *MockCategoryRepository
	Supplier *MockSupplierRepository
	Business *MockBusinessRepository
	Dataset  *MockDatasetRepository
}

// NewRepos creates linked in-memory repositories. Deletes honour the same
// cascade rules as the SQL schema.
func NewRepos() *Repos {
	articles := NewMockArticleRepository()
	r := &Repos{
		User:     NewMockUserRepository(),
		Article:  articles,
		View:     NewMockViewRepository(articles),
		Category: NewMockCategoryRepository(articles),
		Supplier: NewMockSupplierRepository(articles),
		Business: NewMockBusinessRepository(),
	}
	r.Dataset = NewMockDatasetRepository(r)
	return r
}

// Repositories exposes the mocks through the repository interfaces
func (r *Repos) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:     r.User,
		Article:  r.Article,
		View:     r.View,
		Category: r.Category,
		Supplier: r.Supplier,
		Business: r.Business,
		Dataset:  r.Dataset,
	}
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[int64]*models.User
	InsertError error
	nextID      int64
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	for _, u := range m.Users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	u, ok := m.Users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu          sync.Mutex
	Articles    map[int64]*models.Article
	Views       []*models.ArticleView
	InsertError error
	UpdateError error
	ListError   error
	nextID      int64
	nextViewID  int64
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int64]*models.Article)}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.nextID++
	article.ID = m.nextID
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	if article.UpdatedAt.IsZero() {
		article.UpdatedAt = article.CreatedAt
	}
	cp := *article
	m.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

// Get returns the stored article for assertions
func (m *MockArticleRepository) Get(id int64) *models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *article
	cp.ViewCount = stored.ViewCount
	cp.CreatedAt = stored.CreatedAt
	cp.AuthorID = stored.AuthorID
	m.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) SetStatus(ctx context.Context, id int64, status models.ArticleStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.Articles[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = at
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Articles, id)

	kept := m.Views[:0]
	for _, v := range m.Views {
		if v.ArticleID != id {
			kept = append(kept, v)
		}
	}
	m.Views = kept
	return nil
}

func (m *MockArticleRepository) sorted(match func(*models.Article) bool, less func(a, b *models.Article) bool) []*models.Article {
	out := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b *models.Article) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func page(in []*models.Article, limit, offset int) []*models.Article {
	if offset >= len(in) {
		return []*models.Article{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (m *MockArticleRepository) List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	match := func(a *models.Article) bool {
		if f.Status != "" && a.Status != f.Status {
			return false
		}
		if f.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *f.CategoryID) {
			return false
		}
		if f.Search != "" &&
			!strings.Contains(a.Title, f.Search) &&
			!strings.Contains(a.Body, f.Search) &&
			!strings.Contains(a.Tags, f.Search) {
			return false
		}
		return true
	}
	out := page(m.sorted(match, newestFirst), f.Limit, f.Offset)
	for _, a := range out {
		a.Body = ""
	}
	return out, nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context, order repository.ArticleOrder, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	less := newestFirst
	if order == repository.OrderMostViewed {
		less = func(a, b *models.Article) bool {
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
			return a.ID > b.ID
		}
	}
	published := func(a *models.Article) bool { return a.Status == models.StatusPublished }
	return page(m.sorted(published, less), limit, 0), nil
}

func (m *MockArticleRepository) ListByStatus(ctx context.Context, status models.ArticleStatus) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(
		func(a *models.Article) bool { return a.Status == status },
		func(a, b *models.Article) bool {
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.ID > b.ID
		},
	), nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c models.StatusCounts
	for _, a := range m.Articles {
		switch a.Status {
		case models.StatusDraft:
			c.Draft++
		case models.StatusPending:
			c.Pending++
		case models.StatusPublished:
			c.Published++
		}
	}
	return c, nil
}

func (m *MockArticleRepository) countWhere(match func(*models.Article) bool) int {
	n := 0
	for _, a := range m.Articles {
		if match(a) {
			n++
		}
	}
	return n
}

func (m *MockArticleRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countWhere(func(a *models.Article) bool {
		return a.CategoryID != nil && *a.CategoryID == categoryID
	}), nil
}

// MockViewRepository records views against a MockArticleRepository
type MockViewRepository struct {
	articles    *MockArticleRepository
	InsertError error
}

var _ repository.ViewRepository = (*MockViewRepository)(nil)

func NewMockViewRepository(articles *MockArticleRepository) *MockViewRepository {
	return &MockViewRepository{articles: articles}
}

func (m *MockViewRepository) Record(ctx context.Context, view *models.ArticleView) (int, error) {
	m.articles.mu.Lock()
	defer m.articles.mu.Unlock()
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	a, ok := m.articles.Articles[view.ArticleID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}
	m.articles.nextViewID++
	view.ID = m.articles.nextViewID
	cp := *view
	m.articles.Views = append(m.articles.Views, &cp)
	a.ViewCount++
	return a.ViewCount, nil
}

func (m *MockViewRepository) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	m.articles.mu.Lock()
	defer m.articles.mu.Unlock()
	n := 0
	for _, v := range m.articles.Views {
		if v.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}

func (m *MockViewRepository) BatchInsert(ctx context.Context, views []*models.ArticleView) (int, error) {
	m.articles.mu.Lock()
	defer m.articles.mu.Unlock()
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, v := range views {
		m.articles.nextViewID++
		cp := *v
		cp.ID = m.articles.nextViewID
		m.articles.Views = append(m.articles.Views, &cp)
	}
	return len(views), nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories  map[int64]*models.Category
	InsertError error
	articles    *MockArticleRepository
	nextID      int64
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func NewMockCategoryRepository(articles *MockArticleRepository) *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[int64]*models.Category), articles: articles}
}

func (m *MockCategoryRepository) nameTaken(name string, exceptID int64) bool {
	for _, c := range m.Categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.nameTaken(c.Name, 0) {
		return repository.ErrDuplicate
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	m.Categories[c.ID] = &cp
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if c, ok := m.Categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	if _, ok := m.Categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	c.UpdatedAt = time.Now()
	cp := *c
	m.Categories[c.ID] = &cp
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Categories[id]; !ok {
		return repository.ErrNotFound
	}
	if n, _ := m.articles.CountByCategory(ctx, id); n > 0 {
		return repository.ErrInvalidReference
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) ListWithCounts(ctx context.Context) ([]*models.Category, error) {
	out := make([]*models.Category, 0, len(m.Categories))
	m.articles.mu.Lock()
	for _, c := range m.Categories {
		cp := *c
		cp.ArticleCount = m.articles.countWhere(func(a *models.Article) bool {
			return a.Status == models.StatusPublished && a.CategoryID != nil && *a.CategoryID == c.ID
		})
		out = append(out, &cp)
	}
	m.articles.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.Categories), nil
}

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	Suppliers   map[int64]*models.Supplier
	InsertError error
	articles    *MockArticleRepository
	nextID      int64
}

var _ repository.SupplierRepository = (*MockSupplierRepository)(nil)

func NewMockSupplierRepository(articles *MockArticleRepository) *MockSupplierRepository {
	return &MockSupplierRepository{Suppliers: make(map[int64]*models.Supplier), articles: articles}
}

func (m *MockSupplierRepository) nameTaken(name string, exceptID int64) bool {
	for _, s := range m.Suppliers {
		if s.Name == name && s.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockSupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.nameTaken(s.Name, 0) {
		return repository.ErrDuplicate
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	cp := *s
	m.Suppliers[s.ID] = &cp
	return nil
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	if s, ok := m.Suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *MockSupplierRepository) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	for _, s := range m.Suppliers {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockSupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	if _, ok := m.Suppliers[s.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(s.Name, s.ID) {
		return repository.ErrDuplicate
	}
	s.UpdatedAt = time.Now()
	cp := *s
	m.Suppliers[s.ID] = &cp
	return nil
}

// Delete clears supplier_id on referencing articles, as ON DELETE SET NULL does
func (m *MockSupplierRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Suppliers, id)

	m.articles.mu.Lock()
	defer m.articles.mu.Unlock()
	for _, a := range m.articles.Articles {
		if a.SupplierID != nil && *a.SupplierID == id {
			a.SupplierID = nil
		}
	}
	return nil
}

func (m *MockSupplierRepository) List(ctx context.Context, search string) ([]*models.Supplier, error) {
	out := make([]*models.Supplier, 0, len(m.Suppliers))
	for _, s := range m.Suppliers {
		if search == "" || strings.Contains(s.Name, search) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockSupplierRepository) Count(ctx context.Context) (int, error) {
	return len(m.Suppliers), nil
}

// MockBusinessRepository keeps seeded business entities in slices
type MockBusinessRepository struct {
	Customers         []*models.Customer
	Products          []*models.Product
	Callsheets        []*models.Callsheet
	CallsheetEntries  []*models.CallsheetEntry
	Todos             []*models.TodoItem
	CompanyUpdates    []*models.CompanyUpdate
	Stock             []*models.CustomerStock
	StockTransactions []*models.StockTransaction
	StandingOrders    []*models.StandingOrder
	OrderItems        []*models.StandingOrderItem
	Clearance         []*models.ClearanceStock
	Forms             []*models.Form
	InsertError       error
	BatchInsertCalls  int
	nextID            int64
}

var _ repository.BusinessRepository = (*MockBusinessRepository)(nil)

func NewMockBusinessRepository() *MockBusinessRepository {
	return &MockBusinessRepository{}
}

func (m *MockBusinessRepository) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockBusinessRepository) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	c.ID = m.id()
	for i := range c.Addresses {
		c.Addresses[i].ID = m.id()
		c.Addresses[i].CustomerID = c.ID
	}
	m.Customers = append(m.Customers, c)
	return nil
}

func (m *MockBusinessRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	p.ID = m.id()
	m.Products = append(m.Products, p)
	return nil
}

func (m *MockBusinessRepository) CreateCallsheet(ctx context.Context, sheet *models.Callsheet, entries []*models.CallsheetEntry) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	sheet.ID = m.id()
	m.Callsheets = append(m.Callsheets, sheet)
	for _, e := range entries {
		e.ID = m.id()
		e.CallsheetID = sheet.ID
		m.CallsheetEntries = append(m.CallsheetEntries, e)
	}
	return nil
}

func (m *MockBusinessRepository) CreateTodo(ctx context.Context, t *models.TodoItem) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	t.ID = m.id()
	m.Todos = append(m.Todos, t)
	return nil
}

func (m *MockBusinessRepository) CreateCompanyUpdate(ctx context.Context, u *models.CompanyUpdate) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	u.ID = m.id()
	m.CompanyUpdates = append(m.CompanyUpdates, u)
	return nil
}

func (m *MockBusinessRepository) CreateCustomerStock(ctx context.Context, s *models.CustomerStock) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	s.ID = m.id()
	m.Stock = append(m.Stock, s)
	return nil
}

func (m *MockBusinessRepository) BatchInsertStockTransactions(ctx context.Context, txns []*models.StockTransaction) (int, error) {
	m.BatchInsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, t := range txns {
		t.ID = m.id()
	}
	m.StockTransactions = append(m.StockTransactions, txns...)
	return len(txns), nil
}

func (m *MockBusinessRepository) CreateStandingOrder(ctx context.Context, o *models.StandingOrder, items []*models.StandingOrderItem) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	o.ID = m.id()
	m.StandingOrders = append(m.StandingOrders, o)
	for _, item := range items {
		item.ID = m.id()
		item.StandingOrderID = o.ID
		m.OrderItems = append(m.OrderItems, item)
	}
	return nil
}

func (m *MockBusinessRepository) CreateClearanceStock(ctx context.Context, c *models.ClearanceStock) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	c.ID = m.id()
	m.Clearance = append(m.Clearance, c)
	return nil
}

func (m *MockBusinessRepository) CreateForm(ctx context.Context, f *models.Form) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	f.ID = m.id()
	m.Forms = append(m.Forms, f)
	return nil
}

// MockDatasetRepository clears and counts the other mocks
type MockDatasetRepository struct {
	repos      *Repos
	ClearCalls int
	ClearError error
}

var _ repository.DatasetRepository = (*MockDatasetRepository)(nil)

func NewMockDatasetRepository(repos *Repos) *MockDatasetRepository {
	return &MockDatasetRepository{repos: repos}
}

func (m *MockDatasetRepository) ClearAll(ctx context.Context, keepUsername string) error {
	m.ClearCalls++
	if m.ClearError != nil {
		return m.ClearError
	}
	r := m.repos

	r.Article.mu.Lock()
	r.Article.Articles = make(map[int64]*models.Article)
	r.Article.Views = nil
	r.Article.mu.Unlock()

	r.Category.Categories = make(map[int64]*models.Category)
	r.Supplier.Suppliers = make(map[int64]*models.Supplier)

	*r.Business = MockBusinessRepository{nextID: r.Business.nextID}

	for id, u := range r.User.Users {
		if u.Username != keepUsername {
			delete(r.User.Users, id)
		}
	}
	return nil
}

func (m *MockDatasetRepository) Counts(ctx context.Context) (*models.TableCounts, error) {
	r := m.repos
	r.Article.mu.Lock()
	articles := len(r.Article.Articles)
	r.Article.mu.Unlock()
	return &models.TableCounts{
		Users:              len(r.User.Users),
		Customers:          len(r.Business.Customers),
		Products:           len(r.Business.Products),
		Callsheets:         len(r.Business.Callsheets),
		CallsheetEntries:   len(r.Business.CallsheetEntries),
		TodoItems:          len(r.Business.Todos),
		CompanyUpdates:     len(r.Business.CompanyUpdates),
		CustomerStockItems: len(r.Business.Stock),
		StockTransactions:  len(r.Business.StockTransactions),
		StandingOrders:     len(r.Business.StandingOrders),
		ClearanceItems:     len(r.Business.Clearance),
		Suppliers:          len(r.Supplier.Suppliers),
		Categories:         len(r.Category.Categories),
		Articles:           articles,
		Forms:              len(r.Business.Forms),
	}, nil
}
