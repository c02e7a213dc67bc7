package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/shared/apperr"
)

// Type is the kind of account. A user holds CHECKING accounts for cash
// movements and INVESTMENT accounts to fund asset purchases.
type Type string

const (
	TypeChecking   Type = "CHECKING"
	TypeInvestment Type = "INVESTMENT"
)

// IsValidType checks if the provided account type is valid.
func IsValidType(t Type) bool {
	return t == TypeChecking || t == TypeInvestment
}

// Domain errors
var (
	ErrAccountNotFound          = apperr.New(apperr.KindNotFound, "account not found")
	ErrForbidden                = apperr.New(apperr.KindForbidden, "account does not belong to the user")
	ErrInvalidAccountType       = apperr.Validation("account type must be CHECKING or INVESTMENT")
	ErrInvalidUser              = apperr.Validation("valid user id is required")
	ErrDepositRequiresChecking  = apperr.Validation("deposits are only allowed into checking accounts")
	ErrWithdrawRequiresChecking = apperr.Validation("withdrawals are only allowed from checking accounts")
	ErrInsufficientBalance      = apperr.Validation("insufficient balance")
	ErrSameAccount              = apperr.Validation("source and destination accounts must differ")
	ErrExternalRequiresChecking = apperr.Validation("transfers to other users require checking accounts on both sides")
	ErrOpenPositions            = apperr.Validation("investment account has open positions")
	ErrRecipientEmailRequired   = apperr.Validation("recipient email is required")
	ErrRecipientNotFound        = apperr.New(apperr.KindNotFound, "recipient not found")
	ErrRecipientHasNoChecking   = apperr.New(apperr.KindNotFound, "recipient has no checking account")
)

// Account represents a bank account domain entity
type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Type      Type            `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	UserID uuid.UUID
	Type   Type
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUser
	}
	if !IsValidType(p.Type) {
		return ErrInvalidAccountType
	}
	return nil
}
