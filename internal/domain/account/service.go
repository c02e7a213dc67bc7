package account

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/transaction"
	"orangejuice/internal/domain/uow"
	"orangejuice/internal/domain/user"
	"orangejuice/internal/shared/money"
	"orangejuice/internal/shared/telemetry"
)

// RecipientFinder resolves transfer recipients by email.
type RecipientFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service contains the business logic for account operations. Every
// balance change runs in a unit of work with the touched rows locked.
type Service struct {
	repo   Repository
	ledger transaction.Repository
	users  RecipientFinder
	tx     uow.Transactor
	ops    *telemetry.Operations
}

// NewService creates a new account service
func NewService(repo Repository, ledger transaction.Repository, users RecipientFinder, tx uow.Transactor) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		users:  users,
		tx:     tx,
		ops:    telemetry.NewOperations("orangejuice/account"),
	}
}

// CreateAccount opens an empty account of the given type
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, typ Type) (*Account, error) {
	params := CreateParams{UserID: userID, Type: typ}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// ProvisionDefaultAccounts opens one checking and one investment account.
func (s *Service) ProvisionDefaultAccounts(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, typ := range []Type{TypeChecking, TypeInvestment} {
			if _, err := s.CreateAccount(ctx, userID, typ); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAccountByID retrieves an account and verifies user ownership
func (s *Service) GetAccountByID(ctx context.Context, userID, accountID uuid.UUID) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, ErrForbidden
	}
	return acc, nil
}

// GetAccountsByUserID lists the user's accounts, oldest first
func (s *Service) GetAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUser
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Statement returns the account's ledger entries, newest first
func (s *Service) Statement(ctx context.Context, userID, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.ledger.ListByAccountID(ctx, accountID)
}

// Deposit credits a checking account.
func (s *Service) Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "deposit", err) }()

	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lockOwned(ctx, userID, accountID)
		if err != nil {
			return err
		}
		if acc.Type != TypeChecking {
			return ErrDepositRequiresChecking
		}

		if err := s.repo.UpdateBalance(ctx, acc.ID, acc.Balance.Add(amount)); err != nil {
			return err
		}
		entry, err = s.ledger.Create(ctx, transaction.NewDeposit(acc.ID, amount))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Withdraw debits a checking account.
func (s *Service) Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "withdraw", err) }()

	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, err := s.lockOwned(ctx, userID, accountID)
		if err != nil {
			return err
		}
		if acc.Type != TypeChecking {
			return ErrWithdrawRequiresChecking
		}
		if acc.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		if err := s.repo.UpdateBalance(ctx, acc.ID, acc.Balance.Sub(amount)); err != nil {
			return err
		}
		entry, err = s.ledger.Create(ctx, transaction.NewWithdrawal(acc.ID, amount))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Transfer moves amount between two accounts. Transfers between accounts
// of different owners are external: checking to checking only, with the
// fee debited from the source on top of the amount.
func (s *Service) Transfer(ctx context.Context, userID, sourceID, destinationID uuid.UUID, amount decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "transfer", err) }()

	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.transfer(ctx, userID, sourceID, destinationID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// TransferByEmail transfers to the oldest checking account of the user
// registered with recipientEmail.
func (s *Service) TransferByEmail(ctx context.Context, userID, sourceID uuid.UUID, recipientEmail string, amount decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "transfer_by_email", err) }()

	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}
	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		return nil, ErrRecipientEmailRequired
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		destinationID, err := s.resolveRecipient(ctx, recipientEmail)
		if err != nil {
			return err
		}
		entry, err = s.transfer(ctx, userID, sourceID, destinationID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) resolveRecipient(ctx context.Context, email string) (uuid.UUID, error) {
	recipient, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if errors.Is(err, user.ErrUserNotFound) {
		return uuid.Nil, ErrRecipientNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	accounts, err := s.repo.ListByUserID(ctx, recipient.ID)
	if err != nil {
		return uuid.Nil, err
	}
	for _, acc := range accounts {
		if acc.Type == TypeChecking {
			return acc.ID, nil
		}
	}
	return uuid.Nil, ErrRecipientHasNoChecking
}

// transfer must run inside a unit of work.
func (s *Service) transfer(ctx context.Context, userID, sourceID, destinationID uuid.UUID, amount decimal.Decimal) (*transaction.Transaction, error) {
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}

	source, destination, err := s.lockPair(ctx, sourceID, destinationID)
	if err != nil {
		return nil, err
	}
	if source.UserID != userID {
		return nil, ErrForbidden
	}

	typ := transaction.TypeInternalTransfer
	fee := decimal.Zero
	if source.UserID != destination.UserID {
		if source.Type != TypeChecking || destination.Type != TypeChecking {
			return nil, ErrExternalRequiresChecking
		}
		typ = transaction.TypeExternalTransfer
		fee = money.ExternalTransferFee(amount)
	} else if source.Type == TypeInvestment && destination.Type == TypeChecking {
		open, err := s.repo.CountOpenPositions(ctx, source.ID)
		if err != nil {
			return nil, err
		}
		if open > 0 {
			return nil, ErrOpenPositions
		}
	}

	debit := amount.Add(fee)
	if source.Balance.LessThan(debit) {
		return nil, ErrInsufficientBalance
	}

	if err := s.repo.UpdateBalance(ctx, source.ID, source.Balance.Sub(debit)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBalance(ctx, destination.ID, destination.Balance.Add(amount)); err != nil {
		return nil, err
	}
	return s.ledger.Create(ctx, transaction.NewTransfer(typ, source.ID, destination.ID, amount, fee))
}

func (s *Service) lockOwned(ctx context.Context, userID, accountID uuid.UUID) (*Account, error) {
	acc, err := s.repo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, ErrForbidden
	}
	return acc, nil
}

// lockPair locks both accounts in ascending id order so concurrent
// transfers in opposite directions cannot deadlock.
func (s *Service) lockPair(ctx context.Context, sourceID, destinationID uuid.UUID) (*Account, *Account, error) {
	first, second := sourceID, destinationID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	a, err := s.repo.GetByIDForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.repo.GetByIDForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}
