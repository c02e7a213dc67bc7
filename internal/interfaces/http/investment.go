package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/investment"
	"orangejuice/internal/domain/transaction"
)

type InvestmentService interface {
	Buy(ctx context.Context, userID, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*transaction.Transaction, error)
	Sell(ctx context.Context, userID, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*transaction.Transaction, error)
	Portfolio(ctx context.Context, userID uuid.UUID) ([]*investment.Position, error)
}

type InvestmentHandler struct {
	investments InvestmentService
}

func NewInvestmentHandler(investments InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

type TradeRequest struct {
	AccountID uuid.UUID       `json:"accountId" validate:"required"`
	AssetID   uuid.UUID       `json:"assetId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (h *InvestmentHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	positions, err := h.investments.Portfolio(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

func (h *InvestmentHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.investments.Buy)
}

func (h *InvestmentHandler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.investments.Sell)
}

type tradeFunc func(ctx context.Context, userID, accountID, assetID uuid.UUID, quantity decimal.Decimal) (*transaction.Transaction, error)

func (h *InvestmentHandler) handleTrade(w http.ResponseWriter, r *http.Request, trade tradeFunc) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req TradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := trade(r.Context(), userID, req.AccountID, req.AssetID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(entry))
}
