package investment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/account"
	"orangejuice/internal/domain/asset"
	"orangejuice/internal/domain/transaction"
	"orangejuice/internal/domain/uow"
	"orangejuice/internal/shared/apperr"
	"orangejuice/internal/shared/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeAccounts is an in-memory account.Repository.
type fakeAccounts struct {
	rows map[uuid.UUID]*account.Account
}

func newFakeAccounts(accounts ...*account.Account) *fakeAccounts {
	f := &fakeAccounts{rows: make(map[uuid.UUID]*account.Account)}
	for _, a := range accounts {
		f.rows[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	a := &account.Account{ID: uuid.New(), UserID: params.UserID, Type: params.Type}
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAccounts) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	f.rows[id].Balance = balance
	return nil
}

func (f *fakeAccounts) CountOpenPositions(ctx context.Context, id uuid.UUID) (int, error) {
	return 0, nil
}

type assetsFunc func(ctx context.Context, id uuid.UUID) (*asset.Asset, error)

func (f assetsFunc) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	return f(ctx, id)
}

func catalog(assets ...*asset.Asset) AssetFinder {
	return assetsFunc(func(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
		for _, a := range assets {
			if a.ID == id {
				return a, nil
			}
		}
		return nil, asset.ErrAssetNotFound
	})
}

// fakePositions is an in-memory Repository.
type fakePositions struct {
	rows    map[uuid.UUID]*Investment
	deleted []uuid.UUID

	ListPositionsByAccountIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]*Position, error)
}

func newFakePositions(positions ...*Investment) *fakePositions {
	f := &fakePositions{rows: make(map[uuid.UUID]*Investment)}
	for _, p := range positions {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakePositions) find(accountID, assetID uuid.UUID) *Investment {
	for _, p := range f.rows {
		if p.AccountID == accountID && p.AssetID == assetID {
			return p
		}
	}
	return nil
}

func (f *fakePositions) GetByAccountAndAssetForUpdate(ctx context.Context, accountID, assetID uuid.UUID) (*Investment, error) {
	p := f.find(accountID, assetID)
	if p == nil {
		return nil, ErrPositionNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePositions) Create(ctx context.Context, params CreateParams) (*Investment, error) {
	p := &Investment{
		ID:           uuid.New(),
		AccountID:    params.AccountID,
		AssetID:      params.AssetID,
		Quantity:     params.Quantity,
		AveragePrice: params.AveragePrice,
	}
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakePositions) Update(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error {
	f.rows[id].Quantity = quantity
	f.rows[id].AveragePrice = averagePrice
	return nil
}

func (f *fakePositions) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePositions) ListPositionsByAccountIDs(ctx context.Context, ids []uuid.UUID) ([]*Position, error) {
	if f.ListPositionsByAccountIDsFunc != nil {
		return f.ListPositionsByAccountIDsFunc(ctx, ids)
	}
	return nil, nil
}

type fakeLedger struct {
	entries []transaction.CreateParams
}

func (f *fakeLedger) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f.entries = append(f.entries, params)
	return &transaction.Transaction{
		ID:              uuid.New(),
		Type:            params.Type,
		Amount:          params.Amount,
		Breakdown:       params.Breakdown,
		SourceAccountID: params.SourceAccountID,
		AssetID:         params.AssetID,
		Quantity:        params.Quantity,
		UnitPrice:       params.UnitPrice,
		CostBasis:       params.CostBasis,
		Timestamp:       time.Now(),
	}, nil
}

func (f *fakeLedger) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeLedger) ListBySourceAccountsAndType(ctx context.Context, ids []uuid.UUID, typ transaction.Type, from, to time.Time) ([]*transaction.Transaction, error) {
	return nil, nil
}

type fixture struct {
	owner     uuid.UUID
	account   *account.Account
	accounts  *fakeAccounts
	positions *fakePositions
	ledger    *fakeLedger
	svc       *Service
}

func newFixture(balance string, a *asset.Asset, positions ...*Investment) *fixture {
	owner := uuid.New()
	acc := &account.Account{ID: uuid.New(), UserID: owner, Type: account.TypeInvestment, Balance: dec(balance)}
	for _, p := range positions {
		p.AccountID = acc.ID
	}

	f := &fixture{
		owner:     owner,
		account:   acc,
		accounts:  newFakeAccounts(acc),
		positions: newFakePositions(positions...),
		ledger:    &fakeLedger{},
	}
	f.svc = NewService(f.accounts, catalog(a), f.positions, f.ledger, uow.Direct{})
	return f
}

func (f *fixture) balance() decimal.Decimal {
	return f.accounts.rows[f.account.ID].Balance
}

func newAsset(typ asset.Type, price string) *asset.Asset {
	return &asset.Asset{ID: uuid.New(), Name: string(typ), Type: typ, CurrentPrice: dec(price)}
}

func TestBuy_NewPosition(t *testing.T) {
	stock := newAsset(asset.TypeStock, "20")
	f := newFixture("1000", stock)

	entry, err := f.svc.Buy(context.Background(), f.owner, f.account.ID, stock.ID, dec("5"))
	if err != nil {
		t.Fatalf("Buy() failed: %v", err)
	}

	if !f.balance().Equal(dec("900")) {
		t.Errorf("balance = %s, want 900", f.balance())
	}
	pos := f.positions.find(f.account.ID, stock.ID)
	if pos == nil || !pos.Quantity.Equal(dec("5")) || !pos.AveragePrice.Equal(dec("20")) {
		t.Fatalf("position = %+v", pos)
	}
	if entry.Type != transaction.TypeBuyAsset || !entry.Amount.Equal(dec("100")) {
		t.Errorf("entry = %s %s", entry.Type, entry.Amount)
	}
}

func TestBuy_RecomputesWeightedAverage(t *testing.T) {
	stock := newAsset(asset.TypeStock, "30")
	existing := &Investment{ID: uuid.New(), AssetID: stock.ID, Quantity: dec("10"), AveragePrice: dec("20")}
	f := newFixture("1000", stock, existing)

	if _, err := f.svc.Buy(context.Background(), f.owner, f.account.ID, stock.ID, dec("10")); err != nil {
		t.Fatalf("Buy() failed: %v", err)
	}

	pos := f.positions.rows[existing.ID]
	if !pos.Quantity.Equal(dec("20")) {
		t.Errorf("quantity = %s, want 20", pos.Quantity)
	}
	// (10×20 + 300) / 20
	if !pos.AveragePrice.Equal(dec("25")) {
		t.Errorf("average = %s, want 25", pos.AveragePrice)
	}
	if !f.balance().Equal(dec("700")) {
		t.Errorf("balance = %s, want 700", f.balance())
	}
}

func TestBuy_MinimumTicket(t *testing.T) {
	tests := []struct {
		name     string
		asset    *asset.Asset
		quantity string
		wantErr  error
	}{
		{"CDB below 1000", newAsset(asset.TypeCDB, "500"), "1.9998", ErrBelowMinimumTicket},
		{"CDB at 1000", newAsset(asset.TypeCDB, "500"), "2", nil},
		{"Treasury below 100", newAsset(asset.TypeTreasuryBond, "99.99"), "1", ErrBelowMinimumTicket},
		{"Treasury at 100", newAsset(asset.TypeTreasuryBond, "50"), "2", nil},
		{"Stock has no minimum", newAsset(asset.TypeStock, "500"), "1.9998", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("5000", tt.asset)
			_, err := f.svc.Buy(context.Background(), f.owner, f.account.ID, tt.asset.ID, dec(tt.quantity))
			if err != tt.wantErr {
				t.Errorf("Buy() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuy_MinimumTicketUsesExactTotal(t *testing.T) {
	tests := []struct {
		name     string
		asset    *asset.Asset
		quantity string
	}{
		// 999.995 would round to 1000.00
		{"CDB", newAsset(asset.TypeCDB, "1999.99"), "0.5"},
		// 99.995 would round to 100.00
		{"Treasury", newAsset(asset.TypeTreasuryBond, "199.99"), "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("5000", tt.asset)

			_, err := f.svc.Buy(context.Background(), f.owner, f.account.ID, tt.asset.ID, dec(tt.quantity))
			if err != ErrBelowMinimumTicket {
				t.Fatalf("Buy() error = %v, want %v", err, ErrBelowMinimumTicket)
			}
			if !f.balance().Equal(dec("5000")) {
				t.Errorf("balance = %s, want 5000", f.balance())
			}
			if len(f.ledger.entries) != 0 {
				t.Errorf("expected no ledger entries, got %d", len(f.ledger.entries))
			}
		})
	}
}

func TestBuy_Rejections(t *testing.T) {
	stock := newAsset(asset.TypeStock, "10")

	tests := []struct {
		name     string
		setup    func(f *fixture) (caller, accountID, assetID uuid.UUID)
		quantity string
		wantErr  error
	}{
		{
			name:     "Zero quantity",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, f.account.ID, stock.ID },
			quantity: "0", wantErr: money.ErrNonPositiveQuantity,
		},
		{
			name:     "Quantity precision",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, f.account.ID, stock.ID },
			quantity: "0.00001", wantErr: money.ErrQuantityPrecision,
		},
		{
			name:     "Missing account",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, uuid.New(), stock.ID },
			quantity: "1", wantErr: account.ErrAccountNotFound,
		},
		{
			name:     "Missing asset",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, f.account.ID, uuid.New() },
			quantity: "1", wantErr: asset.ErrAssetNotFound,
		},
		{
			name:     "Not owner",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return uuid.New(), f.account.ID, stock.ID },
			quantity: "1", wantErr: account.ErrForbidden,
		},
		{
			name: "Checking account",
			setup: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				f.accounts.rows[f.account.ID].Type = account.TypeChecking
				return f.owner, f.account.ID, stock.ID
			},
			quantity: "1", wantErr: ErrInvestmentAccountRequired,
		},
		{
			name:     "Insufficient balance",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, f.account.ID, stock.ID },
			quantity: "10.01", wantErr: account.ErrInsufficientBalance,
		},
		{
			name:     "Total rounds to zero",
			setup:    func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) { return f.owner, f.account.ID, stock.ID },
			quantity: "0.0001", wantErr: ErrPurchaseTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("100", stock)
			caller, accountID, assetID := tt.setup(f)

			_, err := f.svc.Buy(context.Background(), caller, accountID, assetID, dec(tt.quantity))
			if err != tt.wantErr {
				t.Fatalf("Buy() error = %v, want %v", err, tt.wantErr)
			}
			if !f.balance().Equal(dec("100")) {
				t.Errorf("balance changed to %s", f.balance())
			}
			if len(f.ledger.entries) != 0 {
				t.Error("ledger entry appended on failure")
			}
		})
	}
}

func TestSell_StockProfitWithholdsTax(t *testing.T) {
	stock := newAsset(asset.TypeStock, "20")
	pos := &Investment{ID: uuid.New(), AssetID: stock.ID, Quantity: dec("5"), AveragePrice: dec("10")}
	f := newFixture("0", stock, pos)

	entry, err := f.svc.Sell(context.Background(), f.owner, f.account.ID, stock.ID, dec("2"))
	if err != nil {
		t.Fatalf("Sell() failed: %v", err)
	}

	if !f.balance().Equal(dec("37")) {
		t.Errorf("balance = %s, want 37", f.balance())
	}
	if !entry.Amount.Equal(dec("37")) {
		t.Errorf("amount = %s, want 37", entry.Amount)
	}
	b := entry.Breakdown
	if !b.Gross.Equal(dec("40")) || !b.Tax.Equal(dec("3")) || !b.Net.Equal(dec("37")) {
		t.Errorf("breakdown = %+v", b)
	}
	if !entry.CostBasis.Equal(dec("10")) {
		t.Errorf("cost basis = %s, want 10", entry.CostBasis)
	}

	remaining := f.positions.rows[pos.ID]
	if !remaining.Quantity.Equal(dec("3")) || !remaining.AveragePrice.Equal(dec("10")) {
		t.Errorf("remaining position = %s @ %s", remaining.Quantity, remaining.AveragePrice)
	}
}

func TestSell_CDBProfitWithholdsTax(t *testing.T) {
	cdb := newAsset(asset.TypeCDB, "200")
	pos := &Investment{ID: uuid.New(), AssetID: cdb.ID, Quantity: dec("1"), AveragePrice: dec("100")}
	f := newFixture("0", cdb, pos)

	entry, err := f.svc.Sell(context.Background(), f.owner, f.account.ID, cdb.ID, dec("1"))
	if err != nil {
		t.Fatalf("Sell() failed: %v", err)
	}

	if !f.balance().Equal(dec("178")) || !entry.Breakdown.Tax.Equal(dec("22")) {
		t.Errorf("balance = %s, tax = %s; want 178, 22", f.balance(), entry.Breakdown.Tax)
	}
	if _, ok := f.positions.rows[pos.ID]; ok {
		t.Error("position sold to zero was not deleted")
	}
}

func TestSell_LossWithholdsNothing(t *testing.T) {
	stock := newAsset(asset.TypeStock, "8")
	pos := &Investment{ID: uuid.New(), AssetID: stock.ID, Quantity: dec("10"), AveragePrice: dec("10")}
	f := newFixture("0", stock, pos)

	entry, err := f.svc.Sell(context.Background(), f.owner, f.account.ID, stock.ID, dec("10"))
	if err != nil {
		t.Fatalf("Sell() failed: %v", err)
	}
	if !entry.Breakdown.Tax.IsZero() || !f.balance().Equal(dec("80")) {
		t.Errorf("tax = %s, balance = %s; want 0, 80", entry.Breakdown.Tax, f.balance())
	}
}

func TestSell_Rejections(t *testing.T) {
	stock := newAsset(asset.TypeStock, "10")

	t.Run("No position", func(t *testing.T) {
		f := newFixture("0", stock)
		_, err := f.svc.Sell(context.Background(), f.owner, f.account.ID, stock.ID, dec("1"))
		if err != ErrPositionNotFound {
			t.Errorf("Sell() error = %v, want ErrPositionNotFound", err)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("kind = %v, want validation", apperr.KindOf(err))
		}
	})

	t.Run("More than held", func(t *testing.T) {
		pos := &Investment{ID: uuid.New(), AssetID: stock.ID, Quantity: dec("1.5"), AveragePrice: dec("10")}
		f := newFixture("0", stock, pos)
		_, err := f.svc.Sell(context.Background(), f.owner, f.account.ID, stock.ID, dec("1.5001"))
		if err != ErrInsufficientQuantity {
			t.Errorf("Sell() error = %v, want ErrInsufficientQuantity", err)
		}
		if !f.positions.rows[pos.ID].Quantity.Equal(dec("1.5")) {
			t.Error("position changed on failure")
		}
	})

	t.Run("Not owner", func(t *testing.T) {
		pos := &Investment{ID: uuid.New(), AssetID: stock.ID, Quantity: dec("1"), AveragePrice: dec("10")}
		f := newFixture("0", stock, pos)
		_, err := f.svc.Sell(context.Background(), uuid.New(), f.account.ID, stock.ID, dec("1"))
		if err != account.ErrForbidden {
			t.Errorf("Sell() error = %v, want ErrForbidden", err)
		}
	})
}

func TestPortfolio_OnlyInvestmentAccounts(t *testing.T) {
	stock := newAsset(asset.TypeStock, "10")
	f := newFixture("0", stock)
	checking := &account.Account{ID: uuid.New(), UserID: f.owner, Type: account.TypeChecking}
	f.accounts.rows[checking.ID] = checking

	var asked []uuid.UUID
	f.positions.ListPositionsByAccountIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*Position, error) {
		asked = ids
		return []*Position{{AssetName: "PETR4"}}, nil
	}

	positions, err := f.svc.Portfolio(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("Portfolio() failed: %v", err)
	}
	if len(asked) != 1 || asked[0] != f.account.ID {
		t.Errorf("queried accounts %v, want only the investment account", asked)
	}
	if len(positions) != 1 {
		t.Errorf("got %d positions, want 1", len(positions))
	}
}

func TestPortfolio_NoInvestmentAccounts(t *testing.T) {
	svc := NewService(newFakeAccounts(), catalog(), newFakePositions(), &fakeLedger{}, uow.Direct{})

	positions, err := svc.Portfolio(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Portfolio() failed: %v", err)
	}
	if positions == nil || len(positions) != 0 {
		t.Errorf("Portfolio() = %v, want empty slice", positions)
	}
}
