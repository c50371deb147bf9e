package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
)

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, name, image, size, price, status, category_id, rating, count, created_at, updated_at`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Item.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var (
		it        domain.Item
		status    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&it.ID,
		&it.Name,
		&it.Image,
		&it.Size,
		&it.Price,
		&status,
		&it.CategoryID,
		&it.Rating,
		&it.Count,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Status = domain.ItemStatus(status)

	it.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// CreateItem inserts a new item and indexes it for search.
// The folded name and price text columns are derived here.
func (s *Store) CreateItem(ctx context.Context, it *domain.Item) error {
	if it.Status == "" {
		it.Status = domain.ItemStatusActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (
			id, name, name_folded, image, size, price, price_text,
			status, category_id, rating, count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID,
		it.Name,
		normalize.Fold(it.Name),
		it.Image,
		it.Size,
		it.Price,
		normalize.PriceText(it.Price),
		string(it.Status),
		it.CategoryID,
		it.Rating,
		it.Count,
		formatTime(it.CreatedAt),
		formatTime(it.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	s.indexItem(ctx, it)
	return nil
}

// GetItem retrieves an item by ID, whatever its status.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ItemExists reports whether an item with the given ID exists, whatever its status.
func (s *Store) ItemExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM items WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateItem replaces an item's descriptive fields.
// Rating and count are left untouched; only SetItemRating writes them.
func (s *Store) UpdateItem(ctx context.Context, it *domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			name = ?, name_folded = ?, image = ?, size = ?, price = ?, price_text = ?,
			status = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		it.Name,
		normalize.Fold(it.Name),
		it.Image,
		it.Size,
		it.Price,
		normalize.PriceText(it.Price),
		string(it.Status),
		it.CategoryID,
		formatTime(it.UpdatedAt),
		it.ID,
	)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	s.indexItem(ctx, it)
	return nil
}

// SetItemStatus changes an item's status, which is how items are soft-deleted.
func (s *Store) SetItemStatus(ctx context.Context, id string, status domain.ItemStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(timeNow()), id)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	it, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	s.indexItem(ctx, it)
	return nil
}

// ListAllItems returns every item, including deleted ones, ordered by creation time.
// Used to rebuild the search index.
func (s *Store) ListAllItems(ctx context.Context) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItemsByIDs retrieves items for multiple IDs.
// Returns a map from item ID to item. Missing items, and items excluded by
// the join filter, are omitted from the map.
func (s *Store) GetItemsByIDs(ctx context.Context, ids []string, join store.ItemJoin) (map[string]*domain.Item, error) {
	ids = dedupe(ids)
	items := make(map[string]*domain.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	marks, args := placeholders(ids)
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id IN (%s)`, itemColumns, marks)
	if join.ExcludeDeleted {
		query += ` AND status != ?`
		args = append(args, string(domain.ItemStatusDeleted))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItemRating writes the review aggregate onto an item.
// The write only applies when count is not lower than the stored count, so a
// recompute based on fewer reviews never replaces a fresher one. It reports
// whether the row was updated.
func (s *Store) SetItemRating(ctx context.Context, id string, rating, count int) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET rating = ?, count = ?, updated_at = ? WHERE id = ? AND count <= ?`,
		rating, count, formatTime(timeNow()), id, count)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) indexItem(ctx context.Context, it *domain.Item) {
	if err := s.searchIndexer.IndexItem(ctx, it); err != nil {
		s.logger.Warn("failed to index item", "item_id", it.ID, "error", err)
	}
}

// requireAffected returns store.ErrNotFound when an update or delete touched no rows.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
