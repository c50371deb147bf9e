package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/dto"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/store"
)

// AssignmentService creates, lists and removes item assignments.
type AssignmentService struct {
	store       store.Store
	matcher     ItemMatcher
	enricher    *dto.Enricher
	maxPageSize int
	logger      *slog.Logger
	now         func() time.Time
}

// NewAssignmentService creates a new assignment service.
// maxPageSize caps the listing page size; values < 1 use store.DefaultMaxLimit.
func NewAssignmentService(store store.Store, matcher ItemMatcher, maxPageSize int, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{
		store:       store,
		matcher:     matcher,
		enricher:    dto.NewEnricher(store),
		maxPageSize: maxPageSize,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateAssignment assigns an item to an owner.
//
// The owner, the item and the existing pair are looked up concurrently.
// Returns NotFound when the owner or item is missing and Conflict when the
// pair is already assigned, including when a concurrent call wins the insert.
func (s *AssignmentService) CreateAssignment(ctx context.Context, ownerID, itemID string) (*domain.Assignment, error) {
	if ownerID == "" || itemID == "" {
		return nil, domainerrors.Validation("owner_id and item_id are required")
	}

	var ownerFound, itemFound, assigned bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := s.store.OwnerExists(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("check owner: %w", err)
		}
		ownerFound = ok
		return nil
	})
	g.Go(func() error {
		ok, err := s.store.ItemExists(gctx, itemID)
		if err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		itemFound = ok
		return nil
	})
	g.Go(func() error {
		_, err := s.store.FindAssignment(gctx, itemID, ownerID)
		switch {
		case err == nil:
			assigned = true
		case errors.Is(err, store.ErrNotFound):
		default:
			return fmt.Errorf("check assignment: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !ownerFound {
		return nil, domainerrors.NotFound("Owner not found")
	}
	if !itemFound {
		return nil, domainerrors.NotFound("Item not found")
	}
	if assigned {
		return nil, errAlreadyAssigned()
	}

	assignmentID, err := id.Generate(id.PrefixAssignment)
	if err != nil {
		return nil, fmt.Errorf("generate assignment id: %w", err)
	}

	now := s.now().UTC()
	a := &domain.Assignment{
		ID:        assignmentID,
		ItemID:    itemID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errAlreadyAssigned()
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.logger.Info("assignment created",
		"assignment_id", a.ID,
		"item_id", itemID,
		"owner_id", ownerID,
	)
	return a, nil
}

func errAlreadyAssigned() error {
	return domainerrors.Conflict("Item already assigned to this owner")
}

// ListAssignments returns one page of enriched assignments, newest first.
//
// Rows whose item is missing or soft-deleted are dropped after the page is
// read, so a page may hold fewer rows than its limit. Meta.Total counts rows
// before that post-filter.
func (s *AssignmentService) ListAssignments(ctx context.Context, filter AssignmentFilter, page store.PageRequest) (*store.PageResult[*dto.AssignmentView], error) {
	page = page.Normalize(s.maxPageSize)

	result := &store.PageResult[*dto.AssignmentView]{
		Items: []*dto.AssignmentView{},
		Meta:  store.PageMeta{Page: page.Page, Limit: page.Limit},
	}

	conds, err := buildConditions(ctx, s.matcher, filter)
	if err != nil {
		return nil, err
	}
	if matchesNothing(conds) {
		return result, nil
	}

	total, err := s.store.CountAssignments(ctx, conds)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	result.Meta.Total = total
	if page.Offset() >= total {
		return result, nil
	}

	rows, err := s.store.ListAssignments(ctx, store.AssignmentQuery{
		Conditions: conds,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	views, err := s.enricher.EnrichAssignments(ctx, rows)
	if err != nil {
		return nil, err
	}
	if dropped := len(rows) - len(views); dropped > 0 {
		s.logger.Debug("assignment rows dropped by item join", "dropped", dropped, "page", page.Page)
	}

	result.Items = views
	return result, nil
}

// GetAssignment returns a single assignment.
func (s *AssignmentService) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("Assignment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// DeleteAssignment removes an assignment.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, assignmentID string) error {
	err := s.store.DeleteAssignment(ctx, assignmentID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("Assignment not found")
	}
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	s.logger.Info("assignment deleted", "assignment_id", assignmentID)
	return nil
}
