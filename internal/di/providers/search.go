package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

// SearchIndexHandle wraps the bleve index with shutdown capability.
// Index is nil when the SQL search backend is configured.
type SearchIndexHandle struct {
	Index *search.ItemIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex opens the bleve index when SEARCH_BACKEND=bleve, rebuilds
// it from the store and wires it to receive item and category writes.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Search.Backend != config.SearchBackendBleve {
		return &SearchIndexHandle{}, nil
	}

	st := do.MustInvoke[*sqlite.Store](i)

	index, err := search.NewItemIndex(search.Options{
		DataPath: cfg.Storage.IndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	// The store may have been written while another backend was active.
	if err := index.Rebuild(context.Background(), st); err != nil {
		_ = index.Close()
		return nil, err
	}
	st.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// matcher hides the Shutdown method of its backend so the container only
// closes the index and the store through their own handles.
type matcher struct {
	service.ItemMatcher
}

// ProvideItemMatcher provides the resolver used by assignment listing filters.
func ProvideItemMatcher(i do.Injector) (service.ItemMatcher, error) {
	handle := do.MustInvoke[*SearchIndexHandle](i)
	if handle.Index != nil {
		return matcher{handle.Index}, nil
	}
	return matcher{do.MustInvoke[*sqlite.Store](i)}, nil
}
