package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

const assignmentColumns = `id, item_id, owner_id, created_at, updated_at`

func scanAssignment(scanner interface{ Scan(dest ...any) error }) (*domain.Assignment, error) {
	var (
		a         domain.Assignment
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&a.ID, &a.ItemID, &a.OwnerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAssignment inserts a new assignment.
// Returns store.ErrAlreadyExists if the (item, owner) pair is already assigned.
func (s *Store) CreateAssignment(ctx context.Context, a *domain.Assignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, item_id, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.ItemID,
		a.OwnerID,
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetAssignment retrieves an assignment by ID.
// Returns store.ErrNotFound if the assignment does not exist.
func (s *Store) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id)

	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindAssignment retrieves the assignment of an item to an owner.
// Returns store.ErrNotFound if the pair is not assigned.
func (s *Store) FindAssignment(ctx context.Context, itemID, ownerID string) (*domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE item_id = ? AND owner_id = ?`,
		itemID, ownerID)

	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssignment removes an assignment by ID.
// Returns store.ErrNotFound if the assignment does not exist.
func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListAssignments returns one page of assignments matching all conditions,
// newest first.
func (s *Store) ListAssignments(ctx context.Context, q store.AssignmentQuery) ([]*domain.Assignment, error) {
	where, args, err := buildWhere(q.Conditions)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + assignmentColumns + ` FROM assignments` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CountAssignments counts assignments matching all conditions.
func (s *Store) CountAssignments(ctx context.Context, conds []store.Condition) (int, error) {
	where, args, err := buildWhere(conds)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments`+where, args...).Scan(&n)
	return n, err
}

// buildWhere renders conditions as a WHERE clause. Field names come from the
// closed store.AssignmentField set; values are always bound parameters.
// A condition with no values renders as a predicate that is never true.
// Value sets travel as one JSON array parameter, so resolver results of any
// size stay under SQLite's bound-variable limit.
func buildWhere(conds []store.Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		if !c.Field.Valid() {
			return "", nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown assignment field %q", c.Field))
		}
		switch len(c.Values) {
		case 0:
			clauses = append(clauses, "0")
		case 1:
			clauses = append(clauses, string(c.Field)+" = ?")
			args = append(args, c.Values[0])
		default:
			set, err := json.Marshal(c.Values)
			if err != nil {
				return "", nil, fmt.Errorf("encode %s values: %w", c.Field, err)
			}
			clauses = append(clauses, string(c.Field)+" IN (SELECT value FROM json_each(?))")
			args = append(args, string(set))
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}
