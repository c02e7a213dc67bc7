package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/investment"
)

type InvestmentRepository struct {
	db *DB
}

func NewInvestmentRepository(db *DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

const investmentColumns = `id, account_id, asset_id, quantity, average_price, created_at, updated_at`

func scanInvestment(row interface{ Scan(...any) error }) (*investment.Investment, error) {
	var inv investment.Investment
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.AssetID,
		&inv.Quantity, &inv.AveragePrice, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvestmentRepository) GetByAccountAndAssetForUpdate(ctx context.Context, accountID, assetID uuid.UUID) (*investment.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE account_id = $1 AND asset_id = $2
		FOR UPDATE
	`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, accountID, assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, investment.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

func (r *InvestmentRepository) Create(ctx context.Context, params investment.CreateParams) (*investment.Investment, error) {
	query := `
		INSERT INTO investments (id, account_id, asset_id, quantity, average_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + investmentColumns

	inv, err := scanInvestment(r.db.QueryRowContext(
		ctx, query,
		uuid.New(), params.AccountID, params.AssetID, params.Quantity, params.AveragePrice,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}
	return inv, nil
}

func (r *InvestmentRepository) Update(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error {
	query := `
		UPDATE investments
		SET quantity = $2, average_price = $3, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, quantity, averagePrice); err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return nil
}

func (r *InvestmentRepository) ListPositionsByAccountIDs(ctx context.Context, accountIDs []uuid.UUID) ([]*investment.Position, error) {
	query := `
		SELECT i.id, i.account_id, i.asset_id, i.quantity, i.average_price, i.created_at, i.updated_at,
		       a.name, a.type, a.current_price
		FROM investments i
		JOIN assets a ON a.id = i.asset_id
		WHERE i.account_id = ANY($1::uuid[])
		ORDER BY a.name ASC, i.account_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, uuidArray(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	positions := []*investment.Position{}
	for rows.Next() {
		var p investment.Position
		err := rows.Scan(
			&p.ID, &p.AccountID, &p.AssetID, &p.Quantity, &p.AveragePrice, &p.CreatedAt, &p.UpdatedAt,
			&p.AssetName, &p.AssetType, &p.CurrentPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}
