package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, type, amount, gross, fee, tax, net, source_account_id,
	destination_account_id, asset_id, quantity, unit_price, cost_basis, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var destination, assetID uuid.NullUUID
	var quantity, unitPrice, costBasis decimal.NullDecimal

	err := row.Scan(
		&t.ID, &t.Type, &t.Amount,
		&t.Breakdown.Gross, &t.Breakdown.Fee, &t.Breakdown.Tax, &t.Breakdown.Net,
		&t.SourceAccountID, &destination, &assetID,
		&quantity, &unitPrice, &costBasis, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if destination.Valid {
		t.DestinationAccountID = &destination.UUID
	}
	if assetID.Valid {
		t.AssetID = &assetID.UUID
	}
	t.Quantity = nullDecimalPtr(quantity)
	t.UnitPrice = nullDecimalPtr(unitPrice)
	t.CostBasis = nullDecimalPtr(costBasis)
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry: %w", err)
	}

	query := `
		INSERT INTO transactions (id, type, amount, gross, fee, tax, net, source_account_id,
		                          destination_account_id, asset_id, quantity, unit_price, cost_basis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + transactionColumns

	b := params.Breakdown
	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.New(), params.Type, params.Amount, b.Gross, b.Fee, b.Tax, b.Net,
		params.SourceAccountID, nullUUID(params.DestinationAccountID), nullUUID(params.AssetID),
		nullDecimal(params.Quantity), nullDecimal(params.UnitPrice), nullDecimal(params.CostBasis),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

// ListByAccountID returns the entries touching the account, newest first
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, accountID)
}

func (r *TransactionRepository) ListBySourceAccountsAndType(ctx context.Context, accountIDs []uuid.UUID, typ transaction.Type, from, to time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE source_account_id = ANY($1::uuid[])
		  AND type = $2
		  AND created_at >= $3 AND created_at < $4
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, uuidArray(accountIDs), typ, from, to)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*transaction.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
