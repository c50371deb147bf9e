package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/catalog-server/internal/store"
)

// AssignmentFilter is the closed set of filters accepted by ListAssignments.
// Empty fields are ignored.
type AssignmentFilter struct {
	SearchTerm   string
	CategoryName string
	OwnerID      string
	ItemID       string
}

// buildConditions turns a filter into store conditions, one per non-empty
// field. Both resolver lookups run concurrently. A resolver returning no ids
// yields a condition that matches nothing.
func buildConditions(ctx context.Context, matcher ItemMatcher, f AssignmentFilter) ([]store.Condition, error) {
	var (
		searchIDs   []string
		categoryIDs []string
	)
	searchTerm := strings.TrimSpace(f.SearchTerm)
	categoryName := strings.TrimSpace(f.CategoryName)

	g, gctx := errgroup.WithContext(ctx)
	if searchTerm != "" {
		g.Go(func() error {
			ids, err := matcher.MatchItems(gctx, searchTerm)
			if err != nil {
				return fmt.Errorf("match items: %w", err)
			}
			searchIDs = ids
			return nil
		})
	}
	if categoryName != "" {
		g.Go(func() error {
			ids, err := matcher.MatchItemsByCategory(gctx, categoryName)
			if err != nil {
				return fmt.Errorf("match items by category: %w", err)
			}
			categoryIDs = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var conds []store.Condition
	if searchTerm != "" {
		conds = append(conds, store.In(store.AssignmentFieldItem, searchIDs))
	}
	if categoryName != "" {
		conds = append(conds, store.In(store.AssignmentFieldItem, categoryIDs))
	}
	if f.OwnerID != "" {
		conds = append(conds, store.Equals(store.AssignmentFieldOwner, f.OwnerID))
	}
	if f.ItemID != "" {
		conds = append(conds, store.Equals(store.AssignmentFieldItem, f.ItemID))
	}
	return conds, nil
}

// matchesNothing reports whether any condition excludes every row.
func matchesNothing(conds []store.Condition) bool {
	for _, c := range conds {
		if c.MatchesNothing() {
			return true
		}
	}
	return false
}
