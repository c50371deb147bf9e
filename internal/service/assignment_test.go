package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/dto"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestAssignmentService_CreateAssignment(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Desk Lamp", 29.99, "")

	a, err := env.assignments.CreateAssignment(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, a.OwnerID)
	assert.Equal(t, item.ID, a.ItemID)
	assert.Contains(t, a.ID, "asg-")

	got, err := env.assignments.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = env.assignments.CreateAssignment(ctx, owner.ID, item.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
	assert.Equal(t, "Item already assigned to this owner", err.Error())
}

func TestAssignmentService_CreateAssignment_NotFound(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Desk Lamp", 29.99, "")

	tests := []struct {
		name    string
		ownerID string
		itemID  string
		wantMsg string
	}{
		{"missing owner", "own-missing", item.ID, "Owner not found"},
		{"missing item", owner.ID, "item-missing", "Item not found"},
		{"both missing", "own-missing", "item-missing", "Owner not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.assignments.CreateAssignment(ctx, tt.ownerID, tt.itemID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	n, err := env.store.CountAssignments(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAssignmentService_CreateAssignment_Validation(t *testing.T) {
	env := setupTestEnv(t, false)

	_, err := env.assignments.CreateAssignment(context.Background(), "", "item-1")
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestAssignmentService_CreateAssignment_Race(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	item := env.item(t, "Desk Lamp", 29.99, "")

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.assignments.CreateAssignment(ctx, owner.ID, item.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)

	n, err := env.store.CountAssignments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAssignmentService_DeleteAssignment(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	a := env.assign(t, env.owner(t, "ada"), env.item(t, "Lamp", 10, ""))

	require.NoError(t, env.assignments.DeleteAssignment(ctx, a.ID))

	err := env.assignments.DeleteAssignment(ctx, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	assert.Equal(t, "Assignment not found", err.Error())

	_, err = env.assignments.GetAssignment(ctx, a.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func viewIDs(views []*dto.AssignmentView) []string {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func TestAssignmentService_ListAssignments_Paging(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	var created []string
	for i := range 7 {
		a := env.assign(t, owner, env.item(t, fmt.Sprintf("Item %d", i), float64(i), ""))
		created = append(created, a.ID)
	}

	tests := []struct {
		name      string
		page      store.PageRequest
		wantPage  int
		wantLimit int
		wantIDs   []string
	}{
		{"first page", store.PageRequest{Page: 1, Limit: 3}, 1, 3, []string{created[6], created[5], created[4]}},
		{"last partial page", store.PageRequest{Page: 3, Limit: 3}, 3, 3, []string{created[0]}},
		{"beyond last page", store.PageRequest{Page: 4, Limit: 3}, 4, 3, []string{}},
		{"page below one clamps", store.PageRequest{Page: -2, Limit: 2}, 1, 2, []string{created[6], created[5]}},
		{"zero limit defaults to 10", store.PageRequest{Page: 1, Limit: 0}, 1, 10, reversed(created)},
		{"limit capped at max", store.PageRequest{Page: 1, Limit: 1000}, 1, 100, reversed(created)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.assignments.ListAssignments(ctx, AssignmentFilter{}, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, res.Meta.Page)
			assert.Equal(t, tt.wantLimit, res.Meta.Limit)
			assert.Equal(t, 7, res.Meta.Total)
			assert.LessOrEqual(t, len(res.Items), res.Meta.Limit)
			assert.Equal(t, tt.wantIDs, viewIDs(res.Items))
		})
	}
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func TestAssignmentService_ListAssignments_DeletedItemsPostFiltered(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	keep := env.item(t, "Lamp", 10, "")
	gone := env.item(t, "Chair", 20, "")
	kept := env.assign(t, owner, keep)
	env.assign(t, owner, gone)

	require.NoError(t, env.catalog.DeleteItem(ctx, gone.ID))

	res, err := env.assignments.ListAssignments(ctx, AssignmentFilter{}, store.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Total counts before the join; the deleted item's row is dropped after.
	assert.Equal(t, 2, res.Meta.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, kept.ID, res.Items[0].ID)
	for _, v := range res.Items {
		require.NotNil(t, v.Item)
		assert.NotEqual(t, "deleted", string(v.Item.Status))
	}
}

func TestAssignmentService_ListAssignments_Enrichment(t *testing.T) {
	env := setupTestEnv(t, false)
	ctx := context.Background()

	owner := env.owner(t, "ada")
	cat := env.category(t, "Lighting")
	item := env.item(t, "Desk Lamp", 29.99, cat.ID)
	env.assign(t, owner, item)

	res, err := env.assignments.ListAssignments(ctx, AssignmentFilter{}, store.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	v := res.Items[0]
	assert.Equal(t, "Desk Lamp", v.Item.Name)
	assert.Equal(t, 29.99, v.Item.Price)
	assert.Equal(t, cat.ID, v.Item.CategoryID)
	require.NotNil(t, v.Owner)
	assert.Equal(t, "ada", v.Owner.Name)
	assert.Equal(t, "ada@example.com", v.Owner.Email)
}

func TestAssignmentService_ListAssignments_Filters(t *testing.T) {
	for _, backend := range []struct {
		name     string
		useIndex bool
	}{{"sql", false}, {"bleve", true}} {
		t.Run(backend.name, func(t *testing.T) {
			env := setupTestEnv(t, backend.useIndex)
			ctx := context.Background()

			ada := env.owner(t, "ada")
			grace := env.owner(t, "grace")
			lighting := env.category(t, "Lighting")
			seating := env.category(t, "Seating")

			lamp := env.item(t, "Desk Lamp", 29.99, lighting.ID)
			chair := env.item(t, "Office Chair", 120, seating.ID)
			shade := env.item(t, "Lampshade", 30, lighting.ID)

			adaLamp := env.assign(t, ada, lamp)
			adaChair := env.assign(t, ada, chair)
			graceLamp := env.assign(t, grace, lamp)
			graceShade := env.assign(t, grace, shade)

			tests := []struct {
				name   string
				filter AssignmentFilter
				want   []string
			}{
				{"no filter", AssignmentFilter{}, []string{graceShade.ID, graceLamp.ID, adaChair.ID, adaLamp.ID}},
				{"search by name", AssignmentFilter{SearchTerm: "LAMP"}, []string{graceShade.ID, graceLamp.ID, adaLamp.ID}},
				{"search by price", AssignmentFilter{SearchTerm: "120"}, []string{adaChair.ID}},
				{"category name", AssignmentFilter{CategoryName: "seat"}, []string{adaChair.ID}},
				{"category or item name", AssignmentFilter{CategoryName: "chair"}, []string{adaChair.ID}},
				{"owner", AssignmentFilter{OwnerID: grace.ID}, []string{graceShade.ID, graceLamp.ID}},
				{"item", AssignmentFilter{ItemID: lamp.ID}, []string{graceLamp.ID, adaLamp.ID}},
				{"combined", AssignmentFilter{SearchTerm: "lamp", CategoryName: "light", OwnerID: ada.ID}, []string{adaLamp.ID}},
				{"no match excludes all", AssignmentFilter{SearchTerm: "sofa"}, []string{}},
				{"no match wins over owner", AssignmentFilter{SearchTerm: "sofa", OwnerID: ada.ID}, []string{}},
				{"blank term ignored", AssignmentFilter{SearchTerm: "   "}, []string{graceShade.ID, graceLamp.ID, adaChair.ID, adaLamp.ID}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					res, err := env.assignments.ListAssignments(ctx, tt.filter, store.PageRequest{Page: 1, Limit: 10})
					require.NoError(t, err)
					assert.Equal(t, tt.want, viewIDs(res.Items))
					assert.Equal(t, len(tt.want), res.Meta.Total)
				})
			}
		})
	}
}

// failingMatcher always fails.
type failingMatcher struct{}

func (failingMatcher) MatchItems(context.Context, string) ([]string, error) {
	return nil, errors.New("index unavailable")
}

func (failingMatcher) MatchItemsByCategory(context.Context, string) ([]string, error) {
	return nil, errors.New("index unavailable")
}

func TestAssignmentService_ListAssignments_MatcherError(t *testing.T) {
	env := setupTestEnv(t, false)
	env.assignments.matcher = failingMatcher{}

	_, err := env.assignments.ListAssignments(context.Background(), AssignmentFilter{SearchTerm: "lamp"}, store.PageRequest{Page: 1, Limit: 10})
	assert.ErrorContains(t, err, "index unavailable")
}
