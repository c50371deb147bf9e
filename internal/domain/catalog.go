package domain

import "time"

// Role represents an owner's permission level.
type Role string

const (
	// RoleAdmin manages assignments for every owner.
	RoleAdmin Role = "admin"
	// RoleUser sees only its own assignments and writes reviews.
	RoleUser Role = "user"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ItemStatus is the lifecycle state of a catalog item.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
	// ItemStatusDeleted is the soft-delete state. Deleted items are never
	// matched by search and never enriched into assignment listings.
	ItemStatusDeleted ItemStatus = "deleted"
)

// IsValid reports whether s is a known item status.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDeleted:
		return true
	}
	return false
}

// Owner is a user account that items are assigned to.
type Owner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the owner has the admin role.
func (o *Owner) IsAdmin() bool {
	return o.Role == RoleAdmin
}

// Category groups items by a display name.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a catalog entry that can be assigned and reviewed.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Image      string     `json:"image,omitempty"`
	Size       string     `json:"size,omitempty"`
	Price      float64    `json:"price"`
	Status     ItemStatus `json:"status"`
	CategoryID string     `json:"category_id,omitempty"`

	// Rating and Count are derived from the item's reviews and only
	// written by the review aggregation.
	Rating int `json:"rating"`
	Count  int `json:"count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDeleted reports whether the item is soft-deleted.
func (i *Item) IsDeleted() bool {
	return i.Status == ItemStatusDeleted
}

// Touch updates the UpdatedAt timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now()
}
