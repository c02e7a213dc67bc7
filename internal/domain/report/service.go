// Package report builds read-only views over the ledger and positions.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/account"
	"orangejuice/internal/domain/asset"
	"orangejuice/internal/domain/investment"
	"orangejuice/internal/domain/transaction"
	"orangejuice/internal/shared/money"
)

type AccountLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
}

type AssetFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
}

type PortfolioReader interface {
	Portfolio(ctx context.Context, userID uuid.UUID) ([]*investment.Position, error)
}

type Service struct {
	accounts  AccountLister
	ledger    transaction.Repository
	assets    AssetFinder
	portfolio PortfolioReader
}

func NewService(accounts AccountLister, ledger transaction.Repository, assets AssetFinder, portfolio PortfolioReader) *Service {
	return &Service{
		accounts:  accounts,
		ledger:    ledger,
		assets:    assets,
		portfolio: portfolio,
	}
}

// TaxReport lists the sales made from the user's investment accounts
// during year (UTC), reconstructed from the ledger alone.
func (s *Service) TaxReport(ctx context.Context, userID uuid.UUID, year int) (*TaxReport, error) {
	if year < 1900 || year > 9999 {
		return nil, ErrInvalidYear
	}

	report := &TaxReport{
		Year:             year,
		Items:            []TaxItem{},
		TotalProfit:      decimal.Zero,
		TotalTaxRetained: decimal.Zero,
	}

	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, acc := range accounts {
		if acc.Type == account.TypeInvestment {
			ids = append(ids, acc.ID)
		}
	}
	if len(ids) == 0 {
		return report, nil
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	sales, err := s.ledger.ListBySourceAccountsAndType(ctx, ids, transaction.TypeSellAsset, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	assets := make(map[uuid.UUID]*asset.Asset)
	for _, sale := range sales {
		item := TaxItem{
			TransactionID: sale.ID,
			SaleDate:      sale.Timestamp,
			Quantity:      deref(sale.Quantity),
			SalePrice:     deref(sale.UnitPrice),
			PurchasePrice: deref(sale.CostBasis),
			TaxRetained:   sale.Breakdown.Tax,
		}
		item.Profit = money.Round2(item.SalePrice.Sub(item.PurchasePrice).Mul(item.Quantity))

		if sale.AssetID != nil {
			a, ok := assets[*sale.AssetID]
			if !ok {
				a, err = s.assets.GetByID(ctx, *sale.AssetID)
				if err != nil {
					return nil, err
				}
				assets[a.ID] = a
			}
			item.AssetName = a.Name
			item.AssetType = a.Type
		}

		report.Items = append(report.Items, item)
		report.TotalProfit = report.TotalProfit.Add(item.Profit)
		report.TotalTaxRetained = report.TotalTaxRetained.Add(item.TaxRetained)
	}
	return report, nil
}

// InvestmentSummary values every open position at the asset's current price.
func (s *Service) InvestmentSummary(ctx context.Context, userID uuid.UUID) ([]InvestmentSummary, error) {
	positions, err := s.portfolio.Portfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]InvestmentSummary, 0, len(positions))
	for _, p := range positions {
		current := money.Round2(p.Quantity.Mul(p.CurrentPrice))
		invested := money.Round2(p.Quantity.Mul(p.AveragePrice))
		out = append(out, InvestmentSummary{
			AccountID:     p.AccountID,
			AssetID:       p.AssetID,
			AssetName:     p.AssetName,
			AssetType:     p.AssetType,
			Quantity:      p.Quantity,
			AveragePrice:  p.AveragePrice,
			CurrentPrice:  p.CurrentPrice,
			TotalInvested: invested,
			CurrentValue:  current,
			Profit:        current.Sub(invested),
		})
	}
	return out, nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
