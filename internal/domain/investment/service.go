package investment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/account"
	"orangejuice/internal/domain/asset"
	"orangejuice/internal/domain/transaction"
	"orangejuice/internal/domain/uow"
	"orangejuice/internal/shared/money"
	"orangejuice/internal/shared/telemetry"
)

// AssetFinder looks up catalog entries.
type AssetFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
}

// Service owns the buy and sell rules. Each trade locks the account and
// the position for the duration of its unit of work.
type Service struct {
	accounts account.Repository
	assets   AssetFinder
	repo     Repository
	ledger   transaction.Repository
	tx       uow.Transactor
	ops      *telemetry.Operations
}

func NewService(accounts account.Repository, assets AssetFinder, repo Repository, ledger transaction.Repository, tx uow.Transactor) *Service {
	return &Service{
		accounts: accounts,
		assets:   assets,
		repo:     repo,
		ledger:   ledger,
		tx:       tx,
		ops:      telemetry.NewOperations("orangejuice/investment"),
	}
}

// Buy debits quantity × current price from the investment account and
// adds to the position, recomputing its weighted average cost.
func (s *Service) Buy(ctx context.Context, userID, accountID, assetID uuid.UUID, quantity decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "buy", err) }()

	if err := money.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, a, err := s.load(ctx, userID, accountID, assetID)
		if err != nil {
			return err
		}

		// The minimum ticket applies to the unrounded total; only the debit is rounded.
		exact := quantity.Mul(a.CurrentPrice)
		if exact.LessThan(MinimumTicket(a.Type)) {
			return ErrBelowMinimumTicket
		}
		total := money.Round2(exact)
		if !total.IsPositive() {
			return ErrPurchaseTooSmall
		}
		if acc.Balance.LessThan(total) {
			return account.ErrInsufficientBalance
		}

		if err := s.accounts.UpdateBalance(ctx, acc.ID, acc.Balance.Sub(total)); err != nil {
			return err
		}

		pos, err := s.repo.GetByAccountAndAssetForUpdate(ctx, acc.ID, a.ID)
		switch {
		case errors.Is(err, ErrPositionNotFound):
			_, err = s.repo.Create(ctx, CreateParams{
				AccountID:    acc.ID,
				AssetID:      a.ID,
				Quantity:     quantity,
				AveragePrice: a.CurrentPrice,
			})
		case err == nil:
			avg := WeightedAverage(pos.Quantity, pos.AveragePrice, quantity, total)
			err = s.repo.Update(ctx, pos.ID, pos.Quantity.Add(quantity), avg)
		}
		if err != nil {
			return err
		}

		entry, err = s.ledger.Create(ctx, transaction.NewBuy(acc.ID, a.ID, quantity, a.CurrentPrice, total))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Sell reduces the position and credits the sale value net of capital
// gains tax. The average price of the remaining quantity is unchanged.
func (s *Service) Sell(ctx context.Context, userID, accountID, assetID uuid.UUID, quantity decimal.Decimal) (entry *transaction.Transaction, err error) {
	defer func() { s.ops.Record(ctx, "sell", err) }()

	if err := money.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		acc, a, err := s.load(ctx, userID, accountID, assetID)
		if err != nil {
			return err
		}

		pos, err := s.repo.GetByAccountAndAssetForUpdate(ctx, acc.ID, a.ID)
		if err != nil {
			return err
		}
		if pos.Quantity.LessThan(quantity) {
			return ErrInsufficientQuantity
		}

		gross := money.Round2(quantity.Mul(a.CurrentPrice))
		tax := SaleTax(a.Type, a.CurrentPrice, pos.AveragePrice, quantity)
		net := gross.Sub(tax)

		remaining := pos.Quantity.Sub(quantity)
		if remaining.IsZero() {
			err = s.repo.Delete(ctx, pos.ID)
		} else {
			err = s.repo.Update(ctx, pos.ID, remaining, pos.AveragePrice)
		}
		if err != nil {
			return err
		}

		if err := s.accounts.UpdateBalance(ctx, acc.ID, acc.Balance.Add(net)); err != nil {
			return err
		}

		entry, err = s.ledger.Create(ctx, transaction.NewSell(acc.ID, a.ID, quantity, a.CurrentPrice, pos.AveragePrice, gross, tax))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Portfolio lists the user's positions across all investment accounts.
func (s *Service) Portfolio(ctx context.Context, userID uuid.UUID) ([]*Position, error) {
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
		return []*Position{}, nil
	}
	return s.repo.ListPositionsByAccountIDs(ctx, ids)
}

// load locks the account, checks ownership and type, then fetches the asset.
func (s *Service) load(ctx context.Context, userID, accountID, assetID uuid.UUID) (*account.Account, *asset.Asset, error) {
	acc, err := s.accounts.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if acc.UserID != userID {
		return nil, nil, account.ErrForbidden
	}
	if acc.Type != account.TypeInvestment {
		return nil, nil, ErrInvestmentAccountRequired
	}

	a, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}
	return acc, a, nil
}
