package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/listenupapp/catalog-server/internal/api/dto"
	"github.com/listenupapp/catalog-server/internal/domain"
	viewdto "github.com/listenupapp/catalog-server/internal/dto"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

func (s *Server) registerAssignmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createAssignment",
		Method:        http.MethodPost,
		Path:          "/api/v1/assignments",
		Summary:       "Create assignment",
		Description:   "Assigns an item to an owner. Each pair can be assigned once.",
		Tags:          []string{"Assignments"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAssignment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAssignments",
		Method:      http.MethodGet,
		Path:        "/api/v1/assignments",
		Summary:     "List assignments",
		Description: "Returns a page of assignments, newest first, with item and owner details. Non-admin callers only see their own.",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAssignments)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAssignment",
		Method:      http.MethodGet,
		Path:        "/api/v1/assignments/{id}",
		Summary:     "Get assignment",
		Description: "Returns an assignment by ID",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAssignment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAssignment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/assignments/{id}",
		Summary:     "Delete assignment",
		Description: "Removes an assignment",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAssignment)
}

// === DTOs ===

// CreateAssignmentRequest is the request body for creating an assignment.
type CreateAssignmentRequest struct {
	ItemID  string `json:"item_id" minLength:"1" doc:"Item to assign"`
	OwnerID string `json:"owner_id" minLength:"1" doc:"Owner receiving the item"`
}

// CreateAssignmentInput wraps the create assignment request for Huma.
type CreateAssignmentInput struct {
	Body CreateAssignmentRequest
}

// AssignmentOutput wraps a single assignment for Huma.
type AssignmentOutput struct {
	Body *domain.Assignment
}

// ListAssignmentsInput holds the listing filter and page parameters.
type ListAssignmentsInput struct {
	dto.PageQuery
	SearchTerm   string `query:"search_term" doc:"Matches item name or price"`
	CategoryName string `query:"category_name" doc:"Matches item name or category name"`
	OwnerID      string `query:"owner_id" doc:"Owner filter (admin only; ignored for other callers)"`
	ItemID       string `query:"item_id" doc:"Item filter"`
}

// AssignmentListOutput wraps a page of enriched assignments for Huma.
type AssignmentListOutput struct {
	Body *store.PageResult[*viewdto.AssignmentView]
}

// AssignmentIDInput addresses one assignment.
type AssignmentIDInput struct {
	dto.IDParam
}

// === Handlers ===

func (s *Server) handleCreateAssignment(ctx context.Context, input *CreateAssignmentInput) (*AssignmentOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	a, err := s.services.Assignment.CreateAssignment(ctx, input.Body.OwnerID, input.Body.ItemID)
	if err != nil {
		return nil, httpError(err)
	}

	return &AssignmentOutput{Body: a}, nil
}

func (s *Server) handleListAssignments(ctx context.Context, input *ListAssignmentsInput) (*AssignmentListOutput, error) {
	claims, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	filter := service.AssignmentFilter{
		SearchTerm:   input.SearchTerm,
		CategoryName: input.CategoryName,
		OwnerID:      input.OwnerID,
		ItemID:       input.ItemID,
	}
	if !claims.IsAdmin() {
		filter.OwnerID = claims.UserID
	}

	page := store.ParsePageRequest(input.Page, input.Limit, s.maxPageSize)

	result, err := s.services.Assignment.ListAssignments(ctx, filter, page)
	if err != nil {
		return nil, httpError(err)
	}

	return &AssignmentListOutput{Body: result}, nil
}

func (s *Server) handleGetAssignment(ctx context.Context, input *AssignmentIDInput) (*AssignmentOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	a, err := s.services.Assignment.GetAssignment(ctx, input.ID)
	if err != nil {
		return nil, httpError(err)
	}

	return &AssignmentOutput{Body: a}, nil
}

func (s *Server) handleDeleteAssignment(ctx context.Context, input *AssignmentIDInput) (*dto.MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Assignment.DeleteAssignment(ctx, input.ID); err != nil {
		return nil, httpError(err)
	}

	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Assignment deleted"}}, nil
}
