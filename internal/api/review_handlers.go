package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/listenupapp/catalog-server/internal/api/dto"
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/reviews",
		Summary:       "Submit review",
		Description:   "Records a review by the caller and recomputes the item's rating and review count",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItemReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}/reviews",
		Summary:     "List item reviews",
		Description: "Returns a page of an item's reviews, newest first",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListItemReviews)
}

// SubmitReviewRequest is the request body for submitting a review.
// Rating bounds are enforced by the review service so that out-of-range
// values produce the same validation error as every other entry point.
type SubmitReviewRequest struct {
	ItemID  string `json:"item_id" doc:"Reviewed item"`
	Rating  int    `json:"rating" doc:"Score from 1 to 5"`
	Comment string `json:"comment,omitempty" doc:"Free-text comment"`
}

// SubmitReviewInput wraps the submit review request for Huma.
type SubmitReviewInput struct {
	Body SubmitReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// ListItemReviewsInput addresses an item's reviews.
type ListItemReviewsInput struct {
	dto.IDParam
	dto.PageQuery
}

// ReviewListOutput wraps a page of reviews for Huma.
type ReviewListOutput struct {
	Body *store.PageResult[*domain.Review]
}

func (s *Server) handleSubmitReview(ctx context.Context, input *SubmitReviewInput) (*ReviewOutput, error) {
	claims, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.allowReview(claims.UserID); err != nil {
		return nil, err
	}

	review, err := s.services.Review.SubmitReview(ctx, service.SubmitReviewInput{
		ItemID:  input.Body.ItemID,
		OwnerID: claims.UserID,
		Rating:  input.Body.Rating,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, httpError(err)
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleListItemReviews(ctx context.Context, input *ListItemReviewsInput) (*ReviewListOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	page := store.ParsePageRequest(input.Page, input.Limit, s.maxPageSize)

	result, err := s.services.Review.ListReviews(ctx, input.ID, page)
	if err != nil {
		return nil, httpError(err)
	}

	return &ReviewListOutput{Body: result}, nil
}
