// Package main seeds a catalog database with owners, categories and items
// and prints an access token for each owner.
//
// It reads the same flags and environment as the server:
//
//	DATA_PATH=~/CatalogServer/data go run ./cmd/seed
//	go run ./cmd/seed -data-path ./data -search-backend bleve
//
// Running it twice reuses owners by email but adds the categories and items again.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/di"
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/logger"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

var owners = []service.NewOwner{
	{Name: "Admin", Email: "admin@catalog.local", Role: domain.RoleAdmin},
	{Name: "Alice", Email: "alice@catalog.local", Role: domain.RoleUser},
	{Name: "Bob", Email: "bob@catalog.local", Role: domain.RoleUser},
}

var catalog = map[string][]service.NewItem{
	"Lighting": {
		{Name: "Desk Lamp", Size: "M", Price: 29.9},
		{Name: "Floor Lamp", Size: "L", Price: 89},
		{Name: "LED Bulb", Size: "S", Price: 4.5},
	},
	"Seating": {
		{Name: "Armchair", Size: "L", Price: 249},
		{Name: "Bar Stool", Size: "M", Price: 59.99},
	},
	"Storage": {
		{Name: "Bookshelf", Size: "XL", Price: 120},
	},
}

func main() {
	injector := di.NewContainer()
	defer func() { _ = injector.Shutdown() }()

	if err := run(context.Background(), injector); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}
}

func run(ctx context.Context, injector do.Injector) error {
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return err
	}
	st, err := do.Invoke[*sqlite.Store](injector)
	if err != nil {
		return err
	}
	svc, err := do.Invoke[*service.CatalogService](injector)
	if err != nil {
		return err
	}
	tokens, err := do.Invoke[*auth.TokenService](injector)
	if err != nil {
		return err
	}

	created := make([]*domain.Owner, 0, len(owners))
	for _, in := range owners {
		o, err := svc.CreateOwner(ctx, in)
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			o, err = st.GetOwnerByEmail(ctx, in.Email)
		}
		if err != nil {
			return fmt.Errorf("owner %s: %w", in.Email, err)
		}
		created = append(created, o)
	}

	items := 0
	for categoryName, entries := range catalog {
		c, err := svc.CreateCategory(ctx, categoryName)
		if err != nil {
			return fmt.Errorf("category %s: %w", categoryName, err)
		}
		for _, in := range entries {
			in.CategoryID = c.ID
			if _, err := svc.CreateItem(ctx, in); err != nil {
				return fmt.Errorf("item %s: %w", in.Name, err)
			}
			items++
		}
	}

	log.Info("catalog seeded", "owners", len(created), "categories", len(catalog), "items", items)

	fmt.Println()
	fmt.Printf("Access tokens (valid %s):\n", tokens.AccessTokenDuration())
	for _, o := range created {
		token, err := tokens.GenerateAccessToken(o)
		if err != nil {
			return fmt.Errorf("token for %s: %w", o.Email, err)
		}
		fmt.Printf("  %-6s %-22s %s\n", o.Role, o.Email, token)
	}
	return nil
}
