// Package service implements the shop operations on top of a store.Store.
// Every operation runs through a Pipeline, and every failure is a *Error
// whose Kind the transport maps to a response status.
package service

import (
	"errors"
	"log/slog"

	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/store"
	"github.com/safar/labecommerce/internal/validation"
)

type Services struct {
	Users     *UserService
	Products  *ProductService
	Purchases *PurchaseService
}

func New(s store.Store, logger *slog.Logger) *Services {
	p := NewPipeline(s, logger)
	return &Services{
		Users:     &UserService{pipeline: p},
		Products:  &ProductService{pipeline: p},
		Purchases: &PurchaseService{pipeline: p},
	}
}

func validateID(field, id string) func() error {
	return func() error {
		return validation.Var(field, id, "required")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrUserNotFound) || errors.Is(err, database.ErrProductNotFound)
}

// requireAbsent fails with conflict msg when lookup finds a row.
func requireAbsent[T any](lookup func() (T, error), msg string) error {
	_, err := lookup()
	switch {
	case err == nil:
		return conflict("%s", msg)
	case isNotFound(err):
		return nil
	default:
		return err
	}
}

// resolveOr returns the lookup result, or missing when the row does not
// exist.
func resolveOr[T any](lookup func() (T, error), missing *Error) (T, error) {
	v, err := lookup()
	if err != nil && isNotFound(err) {
		var zero T
		return zero, missing
	}
	return v, err
}

// duplicateAs maps a unique violation raised by the store to a conflict.
func duplicateAs(err error, msg string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return &Error{Kind: ErrConflict, Message: msg, Err: err}
	}
	return err
}

func nonEmpty[T any](items []T, msg string) ([]T, error) {
	if len(items) == 0 {
		return nil, notFound("%s", msg)
	}
	return items, nil
}
