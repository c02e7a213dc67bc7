// Package uow defines the unit-of-work boundary that domain services run
// balance mutations in.
package uow

import "context"

// Transactor runs fn atomically. Repository calls made with the context
// passed to fn join the same database transaction; a nested call joins the
// outer unit instead of starting a new one. fn's error aborts the unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Direct runs fn without any transaction. It backs in-memory repositories.
type Direct struct{}

func (Direct) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
