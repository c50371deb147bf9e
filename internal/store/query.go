package store

// AssignmentField is a filterable assignment column.
// The set is closed: only these fields can appear in a Condition.
type AssignmentField string

const (
	AssignmentFieldItem  AssignmentField = "item_id"
	AssignmentFieldOwner AssignmentField = "owner_id"
)

// Valid reports whether f is a known field.
func (f AssignmentField) Valid() bool {
	return f == AssignmentFieldItem || f == AssignmentFieldOwner
}

// Condition restricts Field to one of Values.
// An empty Values set matches no rows.
type Condition struct {
	Field  AssignmentField
	Values []string
}

// Equals returns a condition matching a single value.
func Equals(field AssignmentField, value string) Condition {
	return Condition{Field: field, Values: []string{value}}
}

// In returns a condition matching any of values.
func In(field AssignmentField, values []string) Condition {
	if values == nil {
		values = []string{}
	}
	return Condition{Field: field, Values: values}
}

// MatchesNothing reports whether the condition can never be satisfied.
func (c Condition) MatchesNothing() bool {
	return len(c.Values) == 0
}

// AssignmentQuery selects a page of assignments.
// Conditions are ANDed; no conditions selects every assignment.
// Rows are ordered newest first, ties broken by id descending.
type AssignmentQuery struct {
	Conditions []Condition
	Offset     int
	Limit      int
}

// ReviewQuery selects a page of an item's reviews, newest first.
type ReviewQuery struct {
	ItemID string
	Offset int
	Limit  int
}

// ItemJoin controls which items a batch lookup may return.
type ItemJoin struct {
	// ExcludeDeleted drops soft-deleted items from the result, as if they
	// did not exist.
	ExcludeDeleted bool
}
