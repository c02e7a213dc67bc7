package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
)

type AssetService interface {
	List(ctx context.Context) ([]*asset.Asset, error)
	Update(ctx context.Context, id uuid.UUID, params asset.Params) (*asset.Asset, error)
}

type AssetHandler struct {
	assets AssetService
}

func NewAssetHandler(assets AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type UpdateAssetRequest struct {
	Name         string          `json:"name" validate:"required"`
	Type         asset.Type      `json:"type" validate:"required"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// HandleListAssets returns the catalog ordered by name
func (h *AssetHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// HandleUpdateAsset replaces an asset's name, type and price. Routed
// behind the admin middleware.
func (h *AssetHandler) HandleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.assets.Update(r.Context(), id, asset.Params{
		Name:         req.Name,
		Type:         req.Type,
		CurrentPrice: req.CurrentPrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
