package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
	"orangejuice/internal/shared/apperr"
)

var ErrInvalidYear = apperr.Validation("year must be between 1900 and 9999")

// TaxItem describes one sale and the tax withheld on it.
type TaxItem struct {
	TransactionID uuid.UUID       `json:"transactionId"`
	AssetName     string          `json:"assetName"`
	AssetType     asset.Type      `json:"assetType"`
	SaleDate      time.Time       `json:"saleDate"`
	Quantity      decimal.Decimal `json:"quantity"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Profit        decimal.Decimal `json:"profit"`
	TaxRetained   decimal.Decimal `json:"taxRetained"`
}

type TaxReport struct {
	Year             int             `json:"year"`
	Items            []TaxItem       `json:"items"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	TotalTaxRetained decimal.Decimal `json:"totalTaxRetained"`
}

// InvestmentSummary values one open position at the current price.
type InvestmentSummary struct {
	AccountID     uuid.UUID       `json:"accountId"`
	AssetID       uuid.UUID       `json:"assetId"`
	AssetName     string          `json:"assetName"`
	AssetType     asset.Type      `json:"assetType"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	Profit        decimal.Decimal `json:"profit"`
}
