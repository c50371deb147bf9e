package sqlite

import (
	"context"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

const reviewColumns = `id, item_id, owner_id, rating, comment, created_at, updated_at`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var (
		r         domain.Review
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&r.ID, &r.ItemID, &r.OwnerID, &r.Rating, &r.Comment, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview inserts a new review.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, item_id, owner_id, rating, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ItemID,
		r.OwnerID,
		r.Rating,
		r.Comment,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// ListReviews returns one page of an item's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, q store.ReviewQuery) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE item_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		q.ItemID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CountReviews counts an item's reviews.
func (s *Store) CountReviews(ctx context.Context, itemID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE item_id = ?`, itemID).Scan(&n)
	return n, err
}

// ListReviewRatings returns the rating of every review of an item.
func (s *Store) ListReviewRatings(ctx context.Context, itemID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rating FROM reviews WHERE item_id = ? ORDER BY created_at ASC, id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
