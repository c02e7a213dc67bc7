package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/shared/apperr"
	"orangejuice/internal/shared/money"
)

// Type is the asset class. It decides the minimum ticket and the tax rate.
type Type string

const (
	TypeStock        Type = "STOCK"
	TypeCDB          Type = "CDB"
	TypeTreasuryBond Type = "TREASURY_BOND"
)

func IsValidType(t Type) bool {
	switch t {
	case TypeStock, TypeCDB, TypeTreasuryBond:
		return true
	}
	return false
}

var (
	ErrAssetNotFound    = apperr.New(apperr.KindNotFound, "asset not found")
	ErrNameRequired     = apperr.Validation("asset name is required")
	ErrInvalidAssetType = apperr.Validation("asset type must be STOCK, CDB or TREASURY_BOND")
	ErrInvalidPrice     = apperr.Validation("price must be greater than zero with at most 2 decimal places")
)

// Asset is a catalog entry. The price has no history; updates overwrite it.
type Asset struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Type         Type            `json:"type"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Params carries the editable fields of an asset
type Params struct {
	Name         string
	Type         Type
	CurrentPrice decimal.Decimal
}

// Validate normalizes the name and checks every field.
func (p *Params) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	if !IsValidType(p.Type) {
		return ErrInvalidAssetType
	}
	if money.ValidateAmount(p.CurrentPrice) != nil {
		return ErrInvalidPrice
	}
	return nil
}

// DefaultCatalog is seeded into an empty database.
func DefaultCatalog() []Params {
	return []Params{
		{Name: "PETR4 - Petrobras PN", Type: TypeStock, CurrentPrice: decimal.RequireFromString("38.45")},
		{Name: "VALE3 - Vale ON", Type: TypeStock, CurrentPrice: decimal.RequireFromString("61.20")},
		{Name: "ITUB4 - Itaú Unibanco PN", Type: TypeStock, CurrentPrice: decimal.RequireFromString("34.10")},
		{Name: "CDB Orange 110% CDI", Type: TypeCDB, CurrentPrice: decimal.RequireFromString("1000.00")},
		{Name: "CDB Orange Liquidez Diária", Type: TypeCDB, CurrentPrice: decimal.RequireFromString("500.00")},
		{Name: "Tesouro Selic 2029", Type: TypeTreasuryBond, CurrentPrice: decimal.RequireFromString("15234.87")},
		{Name: "Tesouro IPCA+ 2035", Type: TypeTreasuryBond, CurrentPrice: decimal.RequireFromString("2450.33")},
	}
}
