package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// ItemIndex wraps a Bleve index of items and categories.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index replacement during rebuild.
type ItemIndex struct {
	index  bleve.Index
	path   string // empty for an in-memory index
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

var _ store.SearchIndexer = (*ItemIndex)(nil)

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage; empty keeps the index in memory
	Logger   *slog.Logger // Logger for operations (uses discard if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on startup removes the on-disk index so it is recreated.
const mappingVersion = "1"

// Source provides the records an index is rebuilt from.
type Source interface {
	ListAllItems(ctx context.Context) ([]*domain.Item, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

// NewItemIndex creates or opens a search index.
// An existing index with a current mapping version is reopened; a corrupt or
// outdated one is removed and recreated empty.
func NewItemIndex(opts Options) (*ItemIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &ItemIndex{index: index, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "items.bleve")
	versionPath := filepath.Join(opts.DataPath, "items.version")

	var index bleve.Index
	if _, statErr := os.Stat(indexPath); statErr == nil {
		existing, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil || string(existing) != mappingVersion:
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
		default:
			opened, err := bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
			} else {
				index = opened
			}
		}
		if index == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
	}

	if index == nil {
		created, err := bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		index = created
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &ItemIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
// Calling Close more than once is a no-op.
func (x *ItemIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true
	return x.index.Close()
}

// Shutdown implements do.Shutdownable.
func (x *ItemIndex) Shutdown() error {
	return x.Close()
}

// IndexItem adds or replaces an item document.
func (x *ItemIndex) IndexItem(_ context.Context, it *domain.Item) error {
	return x.indexDocument(ItemToDocument(it))
}

// IndexCategory adds or replaces a category document.
func (x *ItemIndex) IndexCategory(_ context.Context, c *domain.Category) error {
	return x.indexDocument(CategoryToDocument(c))
}

func (x *ItemIndex) indexDocument(doc *Document) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Index(doc.ID, doc.ToMap())
}

// IndexDocuments indexes multiple documents in batches.
func (x *ItemIndex) IndexDocuments(docs []*Document) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.indexBatched(x.index, docs)
}

func (x *ItemIndex) indexBatched(index bleve.Index, docs []*Document) error {
	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (x *ItemIndex) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Rebuild replaces the index with a fresh one built from src.
// It holds the exclusive lock for the whole rebuild, so searches wait.
func (x *ItemIndex) Rebuild(ctx context.Context, src Source) error {
	items, err := src.ListAllItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	categories, err := src.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	docs := make([]*Document, 0, len(items)+len(categories))
	for _, c := range categories {
		docs = append(docs, CategoryToDocument(c))
	}
	for _, it := range items {
		docs = append(docs, ItemToDocument(it))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return fmt.Errorf("rebuild closed index")
	}
	// Until the replacement exists the old index is gone; a failed rebuild
	// leaves the index closed.
	x.closed = true
	if err := x.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var index bleve.Index
	if x.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(x.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(x.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	x.index = index
	x.closed = false

	if err := x.indexBatched(index, docs); err != nil {
		return err
	}

	x.logger.Info("rebuilt search index",
		"items", len(items),
		"categories", len(categories),
	)
	return nil
}
