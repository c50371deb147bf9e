package search

import (
	"context"
	"fmt"
	"regexp"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
)

// MatchItems returns the ids of non-deleted items whose folded name or price
// text contains the folded term. No match yields an empty slice.
func (x *ItemIndex) MatchItems(ctx context.Context, term string) ([]string, error) {
	pattern := containsRegexp(term)

	x.mu.RLock()
	defer x.mu.RUnlock()

	q := liveItems(bleve.NewDisjunctionQuery(
		fieldRegexp("name_folded", pattern),
		fieldRegexp("price_text", pattern),
	))
	return x.collectIDs(ctx, q)
}

// MatchItemsByCategory returns the ids of non-deleted items whose folded name
// contains the folded term, plus the items of every category whose folded
// name contains it.
func (x *ItemIndex) MatchItemsByCategory(ctx context.Context, term string) ([]string, error) {
	pattern := containsRegexp(term)

	x.mu.RLock()
	defer x.mu.RUnlock()

	categoryIDs, err := x.collectIDs(ctx, bleve.NewConjunctionQuery(
		fieldTerm("type", string(DocTypeCategory)),
		fieldRegexp("name_folded", pattern),
	))
	if err != nil {
		return nil, fmt.Errorf("match categories: %w", err)
	}

	matchers := []query.Query{fieldRegexp("name_folded", pattern)}
	for _, id := range categoryIDs {
		matchers = append(matchers, fieldTerm("category_id", id))
	}

	return x.collectIDs(ctx, liveItems(bleve.NewDisjunctionQuery(matchers...)))
}

// collectIDs runs q and returns every matching document id, sorted by id.
// Caller must hold the read lock.
func (x *ItemIndex) collectIDs(ctx context.Context, q query.Query) ([]string, error) {
	total, err := x.index.DocCount()
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if total == 0 {
		return ids, nil
	}

	req := bleve.NewSearchRequestOptions(q, int(total), 0, false)
	req.SortBy([]string{"_id"})

	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// liveItems restricts q to item documents that are not soft-deleted.
func liveItems(q query.Query) query.Query {
	b := bleve.NewBooleanQuery()
	b.AddMust(fieldTerm("type", string(DocTypeItem)), q)
	b.AddMustNot(fieldTerm("status", string(domain.ItemStatusDeleted)))
	return b
}

// containsRegexp builds a regexp matching any value containing the folded term.
func containsRegexp(term string) string {
	return ".*" + regexp.QuoteMeta(normalize.Fold(term)) + ".*"
}

func fieldRegexp(field, pattern string) query.Query {
	q := bleve.NewRegexpQuery(pattern)
	q.SetField(field)
	return q
}

func fieldTerm(field, value string) query.Query {
	q := bleve.NewTermQuery(value)
	q.SetField(field)
	return q
}
