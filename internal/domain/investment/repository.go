package investment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for position data access
type Repository interface {
	// GetByAccountAndAssetForUpdate locks the position row, or returns
	// ErrPositionNotFound
	GetByAccountAndAssetForUpdate(ctx context.Context, accountID, assetID uuid.UUID) (*Investment, error)
	Create(ctx context.Context, params CreateParams) (*Investment, error)
	Update(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListPositionsByAccountIDs joins positions with their assets, ordered
	// by asset name
	ListPositionsByAccountIDs(ctx context.Context, accountIDs []uuid.UUID) ([]*Position, error)
}
