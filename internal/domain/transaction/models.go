package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a ledger entry.
type Type string

const (
	TypeDeposit          Type = "DEPOSIT"
	TypeWithdrawal       Type = "WITHDRAWAL"
	TypeInternalTransfer Type = "INTERNAL_TRANSFER"
	TypeExternalTransfer Type = "EXTERNAL_TRANSFER"
	TypeBuyAsset         Type = "BUY_ASSET"
	TypeSellAsset        Type = "SELL_ASSET"
)

func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Breakdown splits a ledger amount into its parts. Net is always Gross
// minus Tax; Fee is charged on top of Gross to the source account.
type Breakdown struct {
	Gross decimal.Decimal `json:"gross"`
	Fee   decimal.Decimal `json:"fee"`
	Tax   decimal.Decimal `json:"tax"`
	Net   decimal.Decimal `json:"net"`
}

// Plain is the breakdown of an entry with no fee or tax.
func Plain(amount decimal.Decimal) Breakdown {
	return Breakdown{Gross: amount, Fee: decimal.Zero, Tax: decimal.Zero, Net: amount}
}

// Transaction is an immutable ledger entry.
//
// Amount keeps the historical meaning per type: the moved amount for
// deposits, withdrawals and transfers, the total price for purchases and
// the value credited for sales.
type Transaction struct {
	ID                   uuid.UUID        `json:"id"`
	Type                 Type             `json:"type"`
	Amount               decimal.Decimal  `json:"amount"`
	Breakdown            Breakdown        `json:"breakdown"`
	SourceAccountID      uuid.UUID        `json:"sourceAccountId"`
	DestinationAccountID *uuid.UUID       `json:"destinationAccountId,omitempty"`
	AssetID              *uuid.UUID       `json:"assetId,omitempty"`
	Quantity             *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice            *decimal.Decimal `json:"unitPrice,omitempty"`
	CostBasis            *decimal.Decimal `json:"costBasis,omitempty"`
	Timestamp            time.Time        `json:"timestamp"`
}

// Label is the customer-facing name of the entry type.
func (t *Transaction) Label() string {
	return t.Type.Label()
}

// CreateParams contains parameters for appending a ledger entry
type CreateParams struct {
	Type                 Type
	Amount               decimal.Decimal
	Breakdown            Breakdown
	SourceAccountID      uuid.UUID
	DestinationAccountID *uuid.UUID
	AssetID              *uuid.UUID
	Quantity             *decimal.Decimal
	UnitPrice            *decimal.Decimal
	CostBasis            *decimal.Decimal
}

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrMissingSource    = errors.New("source account is required")
	ErrNegativeAmount   = errors.New("transaction amounts must not be negative")
	ErrInconsistentNet  = errors.New("net must equal gross minus tax")
	ErrMissingAssetData = errors.New("asset entries require asset, quantity and unit price")
)

// Validate checks the internal consistency of an entry. These are
// programming errors rather than user input problems.
func (p CreateParams) Validate() error {
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.SourceAccountID == uuid.Nil {
		return ErrMissingSource
	}
	b := p.Breakdown
	for _, v := range []decimal.Decimal{p.Amount, b.Gross, b.Fee, b.Tax, b.Net} {
		if v.IsNegative() {
			return ErrNegativeAmount
		}
	}
	if !b.Net.Equal(b.Gross.Sub(b.Tax)) {
		return ErrInconsistentNet
	}
	if p.Type == TypeBuyAsset || p.Type == TypeSellAsset {
		if p.AssetID == nil || p.Quantity == nil || p.UnitPrice == nil {
			return ErrMissingAssetData
		}
	}
	return nil
}

// NewDeposit builds a deposit entry.
func NewDeposit(accountID uuid.UUID, amount decimal.Decimal) CreateParams {
	return CreateParams{
		Type:            TypeDeposit,
		Amount:          amount,
		Breakdown:       Plain(amount),
		SourceAccountID: accountID,
	}
}

// NewWithdrawal builds a withdrawal entry.
func NewWithdrawal(accountID uuid.UUID, amount decimal.Decimal) CreateParams {
	return CreateParams{
		Type:            TypeWithdrawal,
		Amount:          amount,
		Breakdown:       Plain(amount),
		SourceAccountID: accountID,
	}
}

// NewTransfer builds an internal or external transfer entry. The fee is
// recorded in the breakdown; Amount stays the transferred amount.
func NewTransfer(typ Type, sourceID, destinationID uuid.UUID, amount, fee decimal.Decimal) CreateParams {
	b := Plain(amount)
	b.Fee = fee
	return CreateParams{
		Type:                 typ,
		Amount:               amount,
		Breakdown:            b,
		SourceAccountID:      sourceID,
		DestinationAccountID: &destinationID,
	}
}

// NewBuy builds an asset purchase entry.
func NewBuy(accountID, assetID uuid.UUID, quantity, unitPrice, total decimal.Decimal) CreateParams {
	return CreateParams{
		Type:            TypeBuyAsset,
		Amount:          total,
		Breakdown:       Plain(total),
		SourceAccountID: accountID,
		AssetID:         &assetID,
		Quantity:        &quantity,
		UnitPrice:       &unitPrice,
	}
}

// NewSell builds an asset sale entry. Amount is the net value credited.
func NewSell(accountID, assetID uuid.UUID, quantity, unitPrice, costBasis, gross, tax decimal.Decimal) CreateParams {
	net := gross.Sub(tax)
	return CreateParams{
		Type:            TypeSellAsset,
		Amount:          net,
		Breakdown:       Breakdown{Gross: gross, Fee: decimal.Zero, Tax: tax, Net: net},
		SourceAccountID: accountID,
		AssetID:         &assetID,
		Quantity:        &quantity,
		UnitPrice:       &unitPrice,
		CostBasis:       &costBasis,
	}
}
