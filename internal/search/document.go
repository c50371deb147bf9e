// Package search provides the bleve-backed item resolver.
// It answers the same substring questions as the SQL resolver from an index
// of item and category documents kept in sync by the store.
package search

import (
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
)

// DocType represents the type of document in the index.
type DocType string

// Document types for the search index.
const (
	DocTypeItem     DocType = "item"
	DocTypeCategory DocType = "category"
)

// Document is the unified document structure for the Bleve index.
// Items and categories share one index and are told apart by Type.
type Document struct {
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// NameFolded is the case-folded name; matched by substring.
	NameFolded string `json:"name_folded"`

	// Item-only fields.
	PriceText  string            `json:"price_text,omitempty"`
	Status     domain.ItemStatus `json:"status,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
}

// ToMap converts the document to a map with the field names used by the mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"type":        string(d.Type),
		"name_folded": d.NameFolded,
	}
	if d.Type == DocTypeItem {
		m["price_text"] = d.PriceText
		m["status"] = string(d.Status)
		m["category_id"] = d.CategoryID
	}
	return m
}

// ItemToDocument converts a domain.Item to a search document.
func ItemToDocument(it *domain.Item) *Document {
	return &Document{
		ID:         it.ID,
		Type:       DocTypeItem,
		NameFolded: normalize.Fold(it.Name),
		PriceText:  normalize.PriceText(it.Price),
		Status:     it.Status,
		CategoryID: it.CategoryID,
	}
}

// CategoryToDocument converts a domain.Category to a search document.
func CategoryToDocument(c *domain.Category) *Document {
	return &Document{
		ID:         c.ID,
		Type:       DocTypeCategory,
		NameFolded: normalize.Fold(c.Name),
	}
}
