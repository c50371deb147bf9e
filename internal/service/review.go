package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// ReviewService records reviews and maintains the item rating aggregate.
type ReviewService struct {
	store       store.Store
	validator   *validation.Validator
	maxPageSize int
	logger      *slog.Logger
	now         func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(store store.Store, validator *validation.Validator, maxPageSize int, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:       store,
		validator:   validator,
		maxPageSize: maxPageSize,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitReviewInput is a new review. OwnerID is the author.
type SubmitReviewInput struct {
	ItemID  string `json:"item_id" validate:"required"`
	OwnerID string `json:"owner_id" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// SubmitReview stores a review and recomputes the item's rating and count.
//
// The recompute reads every rating of the item after the insert and is not
// atomic with it. The aggregate write is skipped when a concurrent submit has
// already stored a count at least as high, so the stored aggregate never
// moves backwards.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*domain.Review, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	exists, err := s.store.ItemExists(ctx, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("check item: %w", err)
	}
	if !exists {
		return nil, domainerrors.NotFound("Item not found")
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generate review id: %w", err)
	}

	now := s.now().UTC()
	r := &domain.Review{
		ID:        reviewID,
		ItemID:    in.ItemID,
		OwnerID:   in.OwnerID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review submitted",
		"review_id", r.ID,
		"item_id", r.ItemID,
		"owner_id", r.OwnerID,
		"rating", r.Rating,
	)

	if err := s.recomputeRating(ctx, in.ItemID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) recomputeRating(ctx context.Context, itemID string) error {
	ratings, err := s.store.ListReviewRatings(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list review ratings: %w", err)
	}

	rating, count := AverageRating(ratings)

	applied, err := s.store.SetItemRating(ctx, itemID, rating, count)
	if err != nil {
		return fmt.Errorf("set item rating: %w", err)
	}
	if !applied {
		s.logger.Debug("stale item rating discarded", "item_id", itemID, "rating", rating, "count", count)
		return nil
	}

	s.logger.Info("item rating recomputed", "item_id", itemID, "rating", rating, "count", count)
	return nil
}

// AverageRating returns the mean of ratings rounded half up, and their count.
// An empty list yields (0, 0).
func AverageRating(ratings []int) (rating, count int) {
	count = len(ratings)
	if count == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	// floor(sum/count + 1/2) in integers.
	return (2*sum + count) / (2 * count), count
}

// ListReviews returns one page of an item's reviews, newest first.
// An unknown item yields an empty page.
func (s *ReviewService) ListReviews(ctx context.Context, itemID string, page store.PageRequest) (*store.PageResult[*domain.Review], error) {
	page = page.Normalize(s.maxPageSize)

	total, err := s.store.CountReviews(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	result := &store.PageResult[*domain.Review]{
		Items: []*domain.Review{},
		Meta:  store.PageMeta{Page: page.Page, Limit: page.Limit, Total: total},
	}
	if page.Offset() >= total {
		return result, nil
	}

	reviews, err := s.store.ListReviews(ctx, store.ReviewQuery{
		ItemID: itemID,
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	result.Items = reviews
	return result, nil
}
