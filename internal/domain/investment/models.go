package investment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
	"orangejuice/internal/shared/apperr"
)

var (
	ErrInvestmentAccountRequired = apperr.Validation("only investment accounts can buy or sell assets")
	ErrBelowMinimumTicket        = apperr.Validation("purchase is below the minimum ticket for this asset")
	ErrPurchaseTooSmall          = apperr.Validation("purchase total rounds to zero")
	ErrPositionNotFound          = apperr.Validation("account holds no position in this asset")
	ErrInsufficientQuantity      = apperr.Validation("insufficient quantity to sell")
)

// Investment is a position of one account in one asset. A position whose
// quantity reaches zero is deleted.
type Investment struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"accountId"`
	AssetID      uuid.UUID       `json:"assetId"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Position is an investment joined with its asset's catalog data.
type Position struct {
	Investment
	AssetName    string          `json:"assetName"`
	AssetType    asset.Type      `json:"assetType"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

type CreateParams struct {
	AccountID    uuid.UUID
	AssetID      uuid.UUID
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
}
