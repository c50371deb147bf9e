package service

import "context"

// ItemMatcher resolves free-text terms to item ids.
// Implementations never return an error for "no match"; they return an
// empty, non-nil slice. Soft-deleted items are never matched.
type ItemMatcher interface {
	// MatchItems matches the item name, ignoring case, or the price text.
	MatchItems(ctx context.Context, term string) ([]string, error)
	// MatchItemsByCategory matches the item name or the name of the item's category.
	MatchItemsByCategory(ctx context.Context, term string) ([]string, error)
}
