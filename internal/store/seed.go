package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
	"github.com/shopspring/decimal"
)

// SeedUsers, SeedProducts and SeedPurchases are the demo fixtures loaded at
// startup when seeding is enabled. They bypass request validation.
var (
	SeedUsers = []models.User{
		{ID: "u001", Email: "exaltasamba@gmail.com", Password: "7845120"},
		{ID: "u002", Email: "turmadopagode@gmail.com", Password: "784512tt"},
		{ID: "u003", Email: "filhosdoexu@gmail.com", Password: "784512tt@"},
		{ID: "u004", Email: "teste@gmail.com", Password: "784512tt@t"},
	}

	SeedProducts = []models.Product{
		{ID: "1", Name: "Funko Hermione", Price: decimal.RequireFromString("69.90"), Category: models.CategoryFunko},
		{ID: "2", Name: "Funko Star Wars", Price: decimal.RequireFromString("69.90"), Category: models.CategoryFunko},
	}

	SeedPurchases = []models.Purchase{
		{UserID: "u001", ProductID: "1", Quantity: 2, TotalPrice: decimal.RequireFromString("139.80")},
		{UserID: "u002", ProductID: "2", Quantity: 1, TotalPrice: decimal.RequireFromString("69.90")},
	}
)

// Seed loads the fixtures in one atomic unit. Users and products that
// already exist are skipped; purchases are only added to an empty
// collection, so seeding twice changes nothing.
func Seed(ctx context.Context, s Store) error {
	return s.Atomic(ctx, func(q Querier) error {
		added := 0
		for _, u := range SeedUsers {
			_, err := q.GetUser(ctx, u.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, database.ErrUserNotFound) {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
			if err := q.CreateUser(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
			added++
		}

		for _, p := range SeedProducts {
			_, err := q.GetProduct(ctx, p.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, database.ErrProductNotFound) {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
			if err := q.CreateProduct(ctx, &p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
			added++
		}

		existing, err := q.ListPurchases(ctx)
		if err != nil {
			return fmt.Errorf("seed purchases: %w", err)
		}
		if len(existing) == 0 {
			for _, p := range SeedPurchases {
				if err := q.CreatePurchase(ctx, &p); err != nil {
					return fmt.Errorf("seed purchase for %s: %w", p.UserID, err)
				}
				added++
			}
		}

		slog.Info("seed data loaded", "added", added)
		return nil
	})
}
