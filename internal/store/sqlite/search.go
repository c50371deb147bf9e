package sqlite

import (
	"context"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
)

// MatchItems returns the ids of non-deleted items whose name contains term,
// ignoring case, or whose price text contains term.
// No match yields an empty slice, never an error.
func (s *Store) MatchItems(ctx context.Context, term string) ([]string, error) {
	pattern := normalize.ContainsPattern(normalize.Fold(term))
	return s.queryIDs(ctx, `
		SELECT id FROM items
		WHERE status != ?
		  AND (name_folded LIKE ? ESCAPE '\' OR price_text LIKE ? ESCAPE '\')
		ORDER BY id`,
		string(domain.ItemStatusDeleted),
		pattern,
		pattern,
	)
}

// MatchItemsByCategory returns the ids of non-deleted items whose name
// contains term, plus those whose category name contains term, ignoring case.
func (s *Store) MatchItemsByCategory(ctx context.Context, term string) ([]string, error) {
	pattern := normalize.ContainsPattern(normalize.Fold(term))
	return s.queryIDs(ctx, `
		SELECT id FROM items
		WHERE status != ?
		  AND (name_folded LIKE ? ESCAPE '\'
		       OR category_id IN (SELECT id FROM categories WHERE name_folded LIKE ? ESCAPE '\'))
		ORDER BY id`,
		string(domain.ItemStatusDeleted),
		pattern,
		pattern,
	)
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
