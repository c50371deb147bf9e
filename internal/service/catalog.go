package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/store"
)

// CatalogService manages owners, categories and items.
// It is the write path used by seeding and administration; the listing and
// review engines only read these records.
type CatalogService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger, now: time.Now}
}

// NewOwner describes an owner to create.
type NewOwner struct {
	Name  string
	Email string
	Image string
	Role  domain.Role
}

// CreateOwner creates an owner. Email addresses are unique.
func (s *CatalogService) CreateOwner(ctx context.Context, in NewOwner) (*domain.Owner, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, domainerrors.Validation("name and email are required")
	}
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !in.Role.IsValid() {
		return nil, domainerrors.Validationf("invalid role %q", in.Role)
	}

	ownerID, err := id.Generate(id.PrefixOwner)
	if err != nil {
		return nil, fmt.Errorf("generate owner id: %w", err)
	}
	now := s.now().UTC()
	o := &domain.Owner{
		ID:        ownerID,
		Name:      in.Name,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Image:     in.Image,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateOwner(ctx, o); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create owner: %w", err)
	}

	s.logger.Info("owner created", "owner_id", o.ID, "role", o.Role)
	return o, nil
}

// CreateCategory creates a category.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("name is required")
	}

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, fmt.Errorf("generate category id: %w", err)
	}
	now := s.now().UTC()
	c := &domain.Category{ID: categoryID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// NewItem describes an item to create.
type NewItem struct {
	Name       string
	Image      string
	Size       string
	Price      float64
	CategoryID string
	Status     domain.ItemStatus
}

// CreateItem creates an item with an empty rating aggregate.
func (s *CatalogService) CreateItem(ctx context.Context, in NewItem) (*domain.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domainerrors.Validation("name is required")
	}
	if in.Price < 0 {
		return nil, domainerrors.Validation("price must not be negative")
	}
	if in.Status == "" {
		in.Status = domain.ItemStatusActive
	}
	if !in.Status.IsValid() {
		return nil, domainerrors.Validationf("invalid status %q", in.Status)
	}

	itemID, err := id.Generate(id.PrefixItem)
	if err != nil {
		return nil, fmt.Errorf("generate item id: %w", err)
	}
	now := s.now().UTC()
	it := &domain.Item{
		ID:         itemID,
		Name:       in.Name,
		Image:      in.Image,
		Size:       in.Size,
		Price:      in.Price,
		Status:     in.Status,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("item created", "item_id", it.ID, "name", it.Name)
	return it, nil
}

// DeleteItem soft-deletes an item. Its assignments and reviews are kept but
// the item disappears from searches and listings.
func (s *CatalogService) DeleteItem(ctx context.Context, itemID string) error {
	err := s.store.SetItemStatus(ctx, itemID, domain.ItemStatusDeleted)
	if domainerrors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("Item not found")
	}
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info("item deleted", "item_id", itemID)
	return nil
}
