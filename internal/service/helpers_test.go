package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// testEnv bundles the services over one temporary store.
type testEnv struct {
	store       *sqlite.Store
	index       *search.ItemIndex
	catalog     *CatalogService
	assignments *AssignmentService
	reviews     *ReviewService
}

// setupTestEnv creates services over a temporary SQLite store. With
// useIndex the assignment listing resolves terms through a bleve index kept
// in sync by the store; otherwise through SQL.
func setupTestEnv(t *testing.T, useIndex bool) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var matcher ItemMatcher = st
	var index *search.ItemIndex
	if useIndex {
		index, err = search.NewItemIndex(search.Options{Logger: logger})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })
		st.SetSearchIndexer(index)
		matcher = index
	}

	clock := newTestClock()
	env := &testEnv{
		store:       st,
		index:       index,
		catalog:     NewCatalogService(st, logger),
		assignments: NewAssignmentService(st, matcher, 100, logger),
		reviews:     NewReviewService(st, validation.New(), 100, logger),
	}
	env.catalog.now = clock.Now
	env.assignments.now = clock.Now
	env.reviews.now = clock.Now
	return env
}

// testClock returns strictly increasing times so creation order is stable.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func (e *testEnv) owner(t *testing.T, name string) *domain.Owner {
	t.Helper()
	o, err := e.catalog.CreateOwner(context.Background(), NewOwner{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return o
}

func (e *testEnv) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := e.catalog.CreateCategory(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (e *testEnv) item(t *testing.T, name string, price float64, categoryID string) *domain.Item {
	t.Helper()
	it, err := e.catalog.CreateItem(context.Background(), NewItem{Name: name, Price: price, CategoryID: categoryID})
	require.NoError(t, err)
	return it
}

func (e *testEnv) assign(t *testing.T, o *domain.Owner, it *domain.Item) *domain.Assignment {
	t.Helper()
	a, err := e.assignments.CreateAssignment(context.Background(), o.ID, it.ID)
	require.NoError(t, err)
	return a
}
