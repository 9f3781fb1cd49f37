package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/storage"
)

// MockStatsCache is an in-memory dashboard cache that counts its calls
type MockStatsCache struct {
	mu            sync.Mutex
	Stats         *models.DashboardStats
	Gets          int
	Sets          int
	Invalidations int
	GetError      error
}

var _ cache.StatsCache = (*MockStatsCache)(nil)

func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{}
}

func (m *MockStatsCache) Get(ctx context.Context) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Stats, nil
}

func (m *MockStatsCache) Set(ctx context.Context, stats *models.DashboardStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.Stats = stats
	return nil
}

func (m *MockStatsCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidations++
	m.Stats = nil
	return nil
}

// InvalidationCount returns how many times the cache was invalidated
func (m *MockStatsCache) InvalidationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Invalidations
}

// MockImageStore keeps uploaded images in memory
type MockImageStore struct {
	mu        sync.Mutex
	Files     map[string][]byte
	URLPrefix string
	SaveError error
}

var _ storage.ImageStore = (*MockImageStore)(nil)

func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Files: make(map[string][]byte), URLPrefix: "/static/uploads/kb_images"}
}

func (m *MockImageStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.Files[name] = data
	m.mu.Unlock()
	return m.URLPrefix + "/" + name, nil
}
