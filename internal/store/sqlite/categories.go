package sqlite

import (
	"context"
	"database/sql"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
)

const categoryColumns = `id, name, created_at, updated_at`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&c.ID, &c.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category and indexes it for search.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, name_folded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		normalize.Fold(c.Name),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	if err := s.searchIndexer.IndexCategory(ctx, c); err != nil {
		s.logger.Warn("failed to index category", "category_id", c.ID, "error", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
