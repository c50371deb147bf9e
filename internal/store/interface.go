// Package store defines the persistence interface for the catalog server.
package store

import (
	"context"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Owners
	CreateOwner(ctx context.Context, owner *domain.Owner) error
	GetOwner(ctx context.Context, id string) (*domain.Owner, error)
	GetOwnerByEmail(ctx context.Context, email string) (*domain.Owner, error)
	OwnerExists(ctx context.Context, id string) (bool, error)
	GetOwnersByIDs(ctx context.Context, ids []string) (map[string]*domain.Owner, error)

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	// Items
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ItemExists(ctx context.Context, id string) (bool, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	SetItemStatus(ctx context.Context, id string, status domain.ItemStatus) error
	ListAllItems(ctx context.Context) ([]*domain.Item, error)
	GetItemsByIDs(ctx context.Context, ids []string, join ItemJoin) (map[string]*domain.Item, error)
	SetItemRating(ctx context.Context, id string, rating, count int) (bool, error)

	// Assignments
	CreateAssignment(ctx context.Context, a *domain.Assignment) error
	GetAssignment(ctx context.Context, id string) (*domain.Assignment, error)
	FindAssignment(ctx context.Context, itemID, ownerID string) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignments(ctx context.Context, q AssignmentQuery) ([]*domain.Assignment, error)
	CountAssignments(ctx context.Context, conds []Condition) (int, error)

	// Reviews
	CreateReview(ctx context.Context, r *domain.Review) error
	ListReviews(ctx context.Context, q ReviewQuery) ([]*domain.Review, error)
	CountReviews(ctx context.Context, itemID string) (int, error)
	ListReviewRatings(ctx context.Context, itemID string) ([]int, error)

	// Search
	MatchItems(ctx context.Context, term string) ([]string, error)
	MatchItemsByCategory(ctx context.Context, term string) ([]string, error)
}

// SearchIndexer is the interface for updating an external search index.
// The store calls it after item and category writes so an index stays in sync
// without the store depending on the index implementation.
type SearchIndexer interface {
	IndexItem(ctx context.Context, item *domain.Item) error
	IndexCategory(ctx context.Context, category *domain.Category) error
}

// NoopSearchIndexer is a no-op implementation used when the SQL resolver is active.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexItem(context.Context, *domain.Item) error         { return nil }
func (NoopSearchIndexer) IndexCategory(context.Context, *domain.Category) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }
