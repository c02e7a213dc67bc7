package investment

import (
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
	"orangejuice/internal/shared/money"
)

var (
	stockTaxRate       = decimal.RequireFromString("0.15")
	fixedIncomeTaxRate = decimal.RequireFromString("0.22")

	cdbMinimumTicket      = decimal.NewFromInt(1000)
	treasuryMinimumTicket = decimal.NewFromInt(100)
)

// TaxRate is the capital gains rate withheld on a profitable sale.
func TaxRate(t asset.Type) decimal.Decimal {
	if t == asset.TypeStock {
		return stockTaxRate
	}
	return fixedIncomeTaxRate
}

// MinimumTicket is the smallest purchase total accepted for the asset
// class. Stocks have none.
func MinimumTicket(t asset.Type) decimal.Decimal {
	switch t {
	case asset.TypeCDB:
		return cdbMinimumTicket
	case asset.TypeTreasuryBond:
		return treasuryMinimumTicket
	}
	return decimal.Zero
}

// SaleTax is the tax withheld when selling quantity at price from a
// position bought at averagePrice. Losses and break-even sales pay nothing.
func SaleTax(t asset.Type, price, averagePrice, quantity decimal.Decimal) decimal.Decimal {
	profit := price.Sub(averagePrice).Mul(quantity)
	if !profit.IsPositive() {
		return decimal.Zero
	}
	return money.Round2(profit.Mul(TaxRate(t)))
}

// WeightedAverage is the cost basis after adding a purchase of total to a
// position of oldQty at oldAvg.
func WeightedAverage(oldQty, oldAvg, addedQty, total decimal.Decimal) decimal.Decimal {
	newQty := oldQty.Add(addedQty)
	return money.Round2(oldQty.Mul(oldAvg).Add(total).Div(newQty))
}
