// Package di provides dependency injection configuration for the catalog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/api"
	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/di/providers"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideItemMatcher)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideAssignmentService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideReviewRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization in dependency order, so a failing
// provider stops startup before the server listens.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[providers.AuthKey](injector),
		invoke[*sqlite.Store](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*auth.TokenService](injector),
		invoke[*validation.Validator](injector),
		invoke[*service.CatalogService](injector),
		invoke[*service.AssignmentService](injector),
		invoke[*service.ReviewService](injector),
		invoke[*api.RateLimiter](injector),
		invoke[*providers.HTTPServerHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
