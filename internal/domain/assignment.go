package domain

import "time"

// Assignment links one item to one owner.
// There is at most one assignment per (item, owner) pair. Assignments are
// never updated; they are created once and removed by an administrator.
type Assignment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is an owner's immutable rating of an item.
type Review struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	OwnerID   string    `json:"owner_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// MinRating is the lowest accepted review rating.
	MinRating = 1
	// MaxRating is the highest accepted review rating.
	MaxRating = 5
)
