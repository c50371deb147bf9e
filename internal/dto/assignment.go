// Package dto holds the enriched views returned to clients.
package dto

import (
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// ItemSummary is the projection of an item joined into an assignment row.
type ItemSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Image      string            `json:"image,omitempty"`
	Size       string            `json:"size,omitempty"`
	Price      float64           `json:"price"`
	Status     domain.ItemStatus `json:"status"`
	CategoryID string            `json:"category_id,omitempty"`
	Rating     int               `json:"rating"`
	Count      int               `json:"count"`
}

// OwnerSummary is the projection of an owner joined into an assignment row.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// AssignmentView is an assignment with its item and owner denormalized.
// Item is never nil in a listing; Owner is nil when the owner record is gone.
type AssignmentView struct {
	ID        string        `json:"id"`
	ItemID    string        `json:"item_id"`
	OwnerID   string        `json:"owner_id"`
	Item      *ItemSummary  `json:"item"`
	Owner     *OwnerSummary `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewItemSummary projects an item.
func NewItemSummary(it *domain.Item) *ItemSummary {
	if it == nil {
		return nil
	}
	return &ItemSummary{
		ID:         it.ID,
		Name:       it.Name,
		Image:      it.Image,
		Size:       it.Size,
		Price:      it.Price,
		Status:     it.Status,
		CategoryID: it.CategoryID,
		Rating:     it.Rating,
		Count:      it.Count,
	}
}

// NewOwnerSummary projects an owner.
func NewOwnerSummary(o *domain.Owner) *OwnerSummary {
	if o == nil {
		return nil
	}
	return &OwnerSummary{
		ID:    o.ID,
		Name:  o.Name,
		Email: o.Email,
		Image: o.Image,
	}
}
