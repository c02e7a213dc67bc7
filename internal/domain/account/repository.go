package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create creates a new account with a zero balance
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByID retrieves an account by its ID, or ErrAccountNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// unit of work ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListByUserID retrieves all accounts for a specific user, oldest first
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// UpdateBalance overwrites the stored balance
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// CountOpenPositions counts investment positions held by the account
	CountOpenPositions(ctx context.Context, id uuid.UUID) (int, error)
}
