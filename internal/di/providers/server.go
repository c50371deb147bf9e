package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/api"
	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	st := do.MustInvoke[*sqlite.Store](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Assignment: do.MustInvoke[*service.AssignmentService](i),
		Review:     do.MustInvoke[*service.ReviewService](i),
	}

	opts := api.Options{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxPageSize:        cfg.Listing.MaxPageSize,
		ReviewLimiter:      do.MustInvoke[*api.RateLimiter](i),
	}
	if indexHandle.Index != nil {
		opts.SearchIndex = indexHandle.Index
	}

	handler := api.NewServer(st, services, tokens, opts, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
