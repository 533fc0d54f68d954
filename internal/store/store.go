// Package store holds the shop's entity collections behind one interface
// with an in-memory and a relational implementation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/labecommerce/internal/config"
	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
)

// Querier reads and mutates the users, products and purchases collections.
// Lists are returned in insertion order.
type Querier interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser returns database.ErrUserNotFound for an unknown id.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// FindUserByEmail returns database.ErrUserNotFound when no user has the email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser returns database.ErrDuplicate when the id or email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser applies the non-nil patch fields and returns the result.
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	FindProductByName(ctx context.Context, name string) (*models.Product, error)
	// SearchProducts matches q as a case-insensitive substring of the name.
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	// DeleteProduct reports whether the product existed. Purchases that
	// reference it are left untouched.
	DeleteProduct(ctx context.Context, id string) (bool, error)

	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	ListPurchasesByUser(ctx context.Context, userID string) ([]models.Purchase, error)
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
}

// Store is a Querier that can group several operations into one atomic
// unit. If fn returns an error none of its mutations are kept.
type Store interface {
	Querier
	Atomic(ctx context.Context, fn func(q Querier) error) error
	Close() error
}

// New creates the Store selected by cfg.Store.Backend. SQL backends are
// migrated before they are returned.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		db      *sql.DB
		dialect database.Dialect
		err     error
	)
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		dialect = database.DialectSQLite
		db, err = database.NewSQLiteConnection(cfg.Database.SQLitePath)
	case config.BackendPostgres:
		dialect = database.DialectPostgres
		db, err = database.NewConnection(&cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: memory, sqlite, postgres)", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	s, err := openSQLStore(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	return s, nil
}
