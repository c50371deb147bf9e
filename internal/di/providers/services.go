package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/api"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/ratelimit"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// ProvideValidator provides the shared input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideCatalogService provides the owner, category and item service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	st := do.MustInvoke[*sqlite.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Item writes must reach the bleve index when it is enabled.
	_ = do.MustInvoke[*SearchIndexHandle](i)

	return service.NewCatalogService(st, log.Logger), nil
}

// ProvideAssignmentService provides the assignment listing engine.
func ProvideAssignmentService(i do.Injector) (*service.AssignmentService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	st := do.MustInvoke[*sqlite.Store](i)
	matcher := do.MustInvoke[service.ItemMatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAssignmentService(st, matcher, cfg.Listing.MaxPageSize, log.Logger), nil
}

// ProvideReviewService provides the review aggregation engine.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	st := do.MustInvoke[*sqlite.Store](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(st, validator, cfg.Listing.MaxPageSize, log.Logger), nil
}

// ProvideReviewRateLimiter provides the per-owner review submission limiter.
// It stops its cleanup loop on injector shutdown.
func ProvideReviewRateLimiter(i do.Injector) (*api.RateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.PerMinute(cfg.Reviews.RatePerMinute, cfg.Reviews.RateBurst), nil
}
