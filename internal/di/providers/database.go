package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

// ProvideStore provides the SQLite store. The store closes itself on
// injector shutdown.
func ProvideStore(i do.Injector) (*sqlite.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := cfg.Storage.DatabasePath()
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return st, nil
}
