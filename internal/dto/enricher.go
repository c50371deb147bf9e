package dto

import (
	"context"
	"fmt"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// Store defines the batch lookups used during enrichment.
type Store interface {
	GetItemsByIDs(ctx context.Context, ids []string, join store.ItemJoin) (map[string]*domain.Item, error)
	GetOwnersByIDs(ctx context.Context, ids []string) (map[string]*domain.Owner, error)
}

// Enricher joins assignment rows with their items and owners.
//
// One query per entity type, not per row. Soft-deleted items are filtered
// by the item join, and rows left without an item are dropped.
type Enricher struct {
	store Store
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store) *Enricher {
	return &Enricher{store: store}
}

// EnrichAssignments denormalizes a page of assignments, preserving order.
// The result may be shorter than the input.
func (e *Enricher) EnrichAssignments(ctx context.Context, rows []*domain.Assignment) ([]*AssignmentView, error) {
	views := make([]*AssignmentView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	itemIDs := make([]string, 0, len(rows))
	ownerIDs := make([]string, 0, len(rows))
	for _, a := range rows {
		itemIDs = append(itemIDs, a.ItemID)
		ownerIDs = append(ownerIDs, a.OwnerID)
	}

	items, err := e.store.GetItemsByIDs(ctx, itemIDs, store.ItemJoin{ExcludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	owners, err := e.store.GetOwnersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch owners: %w", err)
	}

	for _, a := range rows {
		item, ok := items[a.ItemID]
		if !ok {
			continue
		}
		views = append(views, &AssignmentView{
			ID:        a.ID,
			ItemID:    a.ItemID,
			OwnerID:   a.OwnerID,
			Item:      NewItemSummary(item),
			Owner:     NewOwnerSummary(owners[a.OwnerID]),
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return views, nil
}
