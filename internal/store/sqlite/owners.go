package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// ownerColumns is the ordered list of columns selected in owner queries.
// Must match the scan order in scanOwner.
const ownerColumns = `id, name, email, image, role, created_at, updated_at`

// scanOwner scans a sql.Row (or sql.Rows via its Scan method) into a domain.Owner.
func scanOwner(scanner interface{ Scan(dest ...any) error }) (*domain.Owner, error) {
	var (
		o         domain.Owner
		role      string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&o.ID,
		&o.Name,
		&o.Email,
		&o.Image,
		&role,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Role = domain.Role(role)

	o.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	o.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// CreateOwner inserts a new owner.
// Returns store.ErrAlreadyExists on duplicate id or email.
func (s *Store) CreateOwner(ctx context.Context, o *domain.Owner) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO owners (id, name, email, image, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID,
		o.Name,
		o.Email,
		o.Image,
		string(o.Role),
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetOwner retrieves an owner by ID.
// Returns store.ErrNotFound if the owner does not exist.
func (s *Store) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE id = ?`, id)

	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetOwnerByEmail retrieves an owner by email address.
// Returns store.ErrNotFound if no owner has that email.
func (s *Store) GetOwnerByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE email = ?`, email)

	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// OwnerExists reports whether an owner with the given ID exists.
func (s *Store) OwnerExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM owners WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetOwnersByIDs retrieves owners for multiple IDs.
// Returns a map from owner ID to owner. Missing owners are omitted from the map.
func (s *Store) GetOwnersByIDs(ctx context.Context, ids []string) (map[string]*domain.Owner, error) {
	ids = dedupe(ids)
	owners := make(map[string]*domain.Owner, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	marks, args := placeholders(ids)
	query := fmt.Sprintf(`SELECT %s FROM owners WHERE id IN (%s)`, ownerColumns, marks)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		owners[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}
