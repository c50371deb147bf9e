package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/domain"
	viewdto "github.com/listenupapp/catalog-server/internal/dto"
	"github.com/listenupapp/catalog-server/internal/store"
)

type assignmentPage = store.PageResult[*viewdto.AssignmentView]

func (ts *testServer) assign(t *testing.T, adminAuth, ownerID, itemID string) *domain.Assignment {
	t.Helper()
	resp := ts.api.Post("/api/v1/assignments", adminAuth, map[string]any{
		"item_id":  itemID,
		"owner_id": ownerID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	env := decodeEnvelope[*domain.Assignment](t, resp.Body.Bytes())
	return env.Data
}

func TestCreateAssignment(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	alice, _ := ts.owner(t, "alice", domain.RoleUser)
	lamp := ts.item(t, "Desk Lamp", 29.9, "")

	a := ts.assign(t, adminAuth, alice.ID, lamp.ID)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, lamp.ID, a.ItemID)
	assert.Equal(t, alice.ID, a.OwnerID)

	// Same pair again.
	resp := ts.api.Post("/api/v1/assignments", adminAuth, map[string]any{
		"item_id":  lamp.ID,
		"owner_id": alice.ID,
	})
	require.Equal(t, http.StatusConflict, resp.Code)
	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "Item already assigned to this owner", env.Error)
}

func TestCreateAssignment_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	alice, aliceAuth := ts.owner(t, "alice", domain.RoleUser)
	lamp := ts.item(t, "Desk Lamp", 29.9, "")

	tests := []struct {
		name       string
		auth       string
		body       map[string]any
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "non-admin",
			auth:       aliceAuth,
			body:       map[string]any{"item_id": lamp.ID, "owner_id": alice.ID},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "unknown owner",
			auth:       adminAuth,
			body:       map[string]any{"item_id": lamp.ID, "owner_id": "own-missing"},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "Owner not found",
		},
		{
			name:       "unknown item",
			auth:       adminAuth,
			body:       map[string]any{"item_id": "item-missing", "owner_id": alice.ID},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "Item not found",
		},
		{
			name:       "missing field",
			auth:       adminAuth,
			body:       map[string]any{"item_id": lamp.ID},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/assignments", tt.auth, tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			env := decodeEnvelope[any](t, resp.Body.Bytes())
			assert.Equal(t, tt.wantCode, env.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, env.Error)
			}
		})
	}
}

func TestListAssignments_AdminAndUserScope(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	alice, aliceAuth := ts.owner(t, "alice", domain.RoleUser)
	bob, _ := ts.owner(t, "bob", domain.RoleUser)
	lamp := ts.item(t, "Desk Lamp", 29.9, "")
	sofa := ts.item(t, "Sofa", 450, "")

	ts.assign(t, adminAuth, alice.ID, lamp.ID)
	ts.assign(t, adminAuth, bob.ID, lamp.ID)
	ts.assign(t, adminAuth, bob.ID, sofa.ID)

	resp := ts.api.Get("/api/v1/assignments", adminAuth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env := decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, 3, env.Data.Meta.Total)
	assert.Len(t, env.Data.Items, 3)

	// Admins may filter by owner.
	resp = ts.api.Get("/api/v1/assignments?owner_id="+bob.ID, adminAuth)
	env = decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
	assert.Equal(t, 2, env.Data.Meta.Total)

	// Users only ever see their own, whatever owner_id they pass.
	resp = ts.api.Get("/api/v1/assignments?owner_id="+bob.ID, aliceAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	env = decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, alice.ID, env.Data.Items[0].OwnerID)
	require.NotNil(t, env.Data.Items[0].Item)
	assert.Equal(t, "Desk Lamp", env.Data.Items[0].Item.Name)
	require.NotNil(t, env.Data.Items[0].Owner)
	assert.Equal(t, "alice@example.com", env.Data.Items[0].Owner.Email)
}

func TestListAssignments_Filters(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)

	ctx := context.Background()
	lighting, err := ts.catalog.CreateCategory(ctx, "Lighting")
	require.NoError(t, err)

	lamp := ts.item(t, "Desk Lamp", 29.9, lighting.ID)
	bulb := ts.item(t, "Bulb", 5, lighting.ID)
	sofa := ts.item(t, "Sofa", 450, "")
	for _, it := range []*domain.Item{lamp, bulb, sofa} {
		ts.assign(t, adminAuth, admin.ID, it.ID)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"search_term=lamp", 1},
		{"search_term=LAMP", 1},
		{"search_term=450", 1},
		{"search_term=%25", 0},
		{"search_term=nothing", 0},
		{"category_name=light", 2},
		{"category_name=sofa", 1},
		{"item_id=" + sofa.ID, 1},
		{"search_term=lamp&category_name=light", 1},
		{"search_term=%20%20", 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/assignments?"+tt.query, adminAuth)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
			assert.Equal(t, tt.want, env.Data.Meta.Total)
			assert.Len(t, env.Data.Items, tt.want)
		})
	}
}

func TestListAssignments_Paging(t *testing.T) {
	ts := setupTestServer(t, Options{MaxPageSize: 2})
	admin, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	for _, name := range []string{"A", "B", "C"} {
		ts.assign(t, adminAuth, admin.ID, ts.item(t, name, 1, "").ID)
	}

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantRows  int
	}{
		{"", 1, 2, 2}, // default 10 capped at 2
		{"page=abc&limit=xyz", 1, 2, 2},
		{"page=0&limit=1", 1, 1, 1},
		{"page=-4&limit=1", 1, 1, 1},
		{"page=2&limit=2", 2, 2, 1},
		{"page=9&limit=2", 9, 2, 0},
		{"limit=500", 1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/assignments?"+tt.query, adminAuth)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
			assert.Equal(t, tt.wantPage, env.Data.Meta.Page)
			assert.Equal(t, tt.wantLimit, env.Data.Meta.Limit)
			assert.Equal(t, 3, env.Data.Meta.Total)
			assert.Len(t, env.Data.Items, tt.wantRows)
		})
	}
}

func TestListAssignments_DeletedItemsPostFiltered(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	lamp := ts.item(t, "Desk Lamp", 29.9, "")
	sofa := ts.item(t, "Sofa", 450, "")
	ts.assign(t, adminAuth, admin.ID, lamp.ID)
	ts.assign(t, adminAuth, admin.ID, sofa.ID)

	require.NoError(t, ts.catalog.DeleteItem(context.Background(), sofa.ID))

	resp := ts.api.Get("/api/v1/assignments", adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[assignmentPage](t, resp.Body.Bytes())
	assert.Equal(t, 2, env.Data.Meta.Total)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, lamp.ID, env.Data.Items[0].ItemID)
}

func TestGetAndDeleteAssignment(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, adminAuth := ts.owner(t, "admin", domain.RoleAdmin)
	_, aliceAuth := ts.owner(t, "alice", domain.RoleUser)
	a := ts.assign(t, adminAuth, admin.ID, ts.item(t, "Desk Lamp", 29.9, "").ID)

	resp := ts.api.Get("/api/v1/assignments/"+a.ID, adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeEnvelope[*domain.Assignment](t, resp.Body.Bytes())
	assert.Equal(t, a.ID, got.Data.ID)

	resp = ts.api.Delete("/api/v1/assignments/"+a.ID, aliceAuth)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/assignments/"+a.ID, adminAuth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	for _, call := range []func() int{
		func() int { return ts.api.Get("/api/v1/assignments/"+a.ID, adminAuth).Code },
		func() int { return ts.api.Delete("/api/v1/assignments/"+a.ID, adminAuth).Code },
	} {
		assert.Equal(t, http.StatusNotFound, call())
	}

	resp = ts.api.Delete("/api/v1/assignments/asg-missing", adminAuth)
	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "Assignment not found", env.Error)
}
