package asset

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for asset catalog data access
type Repository interface {
	Create(ctx context.Context, params Params) (*Asset, error)
	// GetByID returns ErrAssetNotFound when missing
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	// List returns the catalog ordered by name
	List(ctx context.Context) ([]*Asset, error)
	Update(ctx context.Context, id uuid.UUID, params Params) (*Asset, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*Asset, error)
	Count(ctx context.Context) (int, error)
}
