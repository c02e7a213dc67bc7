package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
)

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, name, type, current_price, updated_at`

func scanAsset(row interface{ Scan(...any) error }) (*asset.Asset, error) {
	var a asset.Asset
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.CurrentPrice, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Create(ctx context.Context, params asset.Params) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (id, name, type, current_price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + assetColumns

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, uuid.New(), params.Name, params.Type, params.CurrentPrice))
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return a, nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	return r.one(ctx, "get", `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
}

func (r *AssetRepository) List(ctx context.Context) ([]*asset.Asset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []*asset.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

func (r *AssetRepository) Update(ctx context.Context, id uuid.UUID, params asset.Params) (*asset.Asset, error) {
	query := `
		UPDATE assets
		SET name = $2, type = $3, current_price = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + assetColumns
	return r.one(ctx, "update", query, id, params.Name, params.Type, params.CurrentPrice)
}

func (r *AssetRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*asset.Asset, error) {
	query := `
		UPDATE assets
		SET current_price = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + assetColumns
	return r.one(ctx, "update", query, id, price)
}

func (r *AssetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return n, nil
}

func (r *AssetRepository) one(ctx context.Context, op, query string, args ...any) (*asset.Asset, error) {
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, asset.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s asset: %w", op, err)
	}
	return a, nil
}
