package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name       string
		ratings    []int
		wantRating int
		wantCount  int
	}{
		{"empty", nil, 0, 0},
		{"single", []int{3}, 3, 1},
		{"exact mean", []int{4, 5, 3}, 4, 3},
		{"half rounds up", []int{4, 5}, 5, 2},
		{"below half rounds down", []int{1, 1, 2}, 1, 3},
		{"above half rounds up", []int{1, 2, 2}, 2, 3},
		{"one and two", []int{1, 2}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, count := AverageRating(tt.ratings)
			assert.Equal(t, tt.wantRating, rating)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestReviewService_SubmitReview_Aggregates(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Desk Lamp", 29.99, "")

	steps := []struct {
		rating     int
		wantRating int
		wantCount  int
	}{
		{4, 4, 1},
		{5, 5, 2}, // 4.5 rounds half up
		{3, 4, 3},
	}

	for _, step := range steps {
		r, err := env.reviews.SubmitReview(ctx, SubmitReviewInput{
			ItemID:  item.ID,
			OwnerID: owner.ID,
			Rating:  step.rating,
			Comment: "fine",
		})
		require.NoError(t, err)
		assert.Equal(t, step.rating, r.Rating)
		assert.Equal(t, owner.ID, r.OwnerID)

		got, err := env.store.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, step.wantRating, got.Rating)
		assert.Equal(t, step.wantCount, got.Count)
	}
}

func TestReviewService_SubmitReview_ItemNotFound(t *testing.T) {
	env := setupTestEnv(t, false)

	_, err := env.reviews.SubmitReview(context.Background(), SubmitReviewInput{
		ItemID:  "item-missing",
		OwnerID: "own-1",
		Rating:  4,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	assert.Equal(t, "Item not found", err.Error())
}

func TestReviewService_SubmitReview_Validation(t *testing.T) {
	env := setupTestEnv(t, false)
	item := env.item(t, "Lamp", 10, "")

	tests := []struct {
		name string
		in   SubmitReviewInput
	}{
		{"rating zero", SubmitReviewInput{ItemID: item.ID, OwnerID: "own-1", Rating: 0}},
		{"rating six", SubmitReviewInput{ItemID: item.ID, OwnerID: "own-1", Rating: 6}},
		{"missing item", SubmitReviewInput{OwnerID: "own-1", Rating: 3}},
		{"missing author", SubmitReviewInput{ItemID: item.ID, Rating: 3}},
		{"comment too long", SubmitReviewInput{ItemID: item.ID, OwnerID: "own-1", Rating: 3, Comment: strings.Repeat("a", 2001)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.reviews.SubmitReview(context.Background(), tt.in)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation), "got %v", err)
		})
	}

	n, err := env.store.CountReviews(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReviewService_SubmitReview_Concurrent(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Lamp", 10, "")

	ratings := []int{5, 4, 3, 5, 4, 2, 5, 4}
	var wg sync.WaitGroup
	errs := make(chan error, len(ratings))
	for _, r := range ratings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.reviews.SubmitReview(ctx, SubmitReviewInput{ItemID: item.ID, OwnerID: owner.ID, Rating: r})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Whatever the interleaving, the last writer holds the full count.
	got, err := env.store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	wantRating, wantCount := AverageRating(ratings)
	assert.Equal(t, wantCount, got.Count)
	assert.Equal(t, wantRating, got.Rating)
}

func TestReviewService_ListReviews(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Lamp", 10, "")

	var ids []string
	for _, rating := range []int{1, 2, 3, 4, 5} {
		r, err := env.reviews.SubmitReview(ctx, SubmitReviewInput{ItemID: item.ID, OwnerID: owner.ID, Rating: rating})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	res, err := env.reviews.ListReviews(ctx, item.ID, store.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Meta.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, ids[4], res.Items[0].ID)
	assert.Equal(t, ids[3], res.Items[1].ID)

	res, err = env.reviews.ListReviews(ctx, item.ID, store.PageRequest{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Meta.Page)
	assert.Equal(t, 10, res.Meta.Limit)
	assert.Len(t, res.Items, 5)
}

func TestReviewService_ListReviews_UnknownItem(t *testing.T) {
	env := setupTestEnv(t, false)

	res, err := env.reviews.ListReviews(context.Background(), "item-missing", store.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Meta.Total)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
