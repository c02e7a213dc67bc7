package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/account"
	"orangejuice/internal/domain/transaction"
	"orangejuice/internal/shared/apperr"
)

// AccountService is the part of account.Service exposed over HTTP.
type AccountService interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, typ account.Type) (*account.Account, error)
	GetAccountByID(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
	GetAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	Statement(ctx context.Context, userID, accountID uuid.UUID) ([]*transaction.Transaction, error)
	Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*transaction.Transaction, error)
	Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*transaction.Transaction, error)
	Transfer(ctx context.Context, userID, sourceID, destinationID uuid.UUID, amount decimal.Decimal) (*transaction.Transaction, error)
	TransferByEmail(ctx context.Context, userID, sourceID uuid.UUID, recipientEmail string, amount decimal.Decimal) (*transaction.Transaction, error)
}

var errInvalidType = apperr.Validation("unknown transaction type")

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type CreateAccountRequest struct {
	Type account.Type `json:"type" validate:"required"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	SourceAccountID      uuid.UUID       `json:"sourceAccountId" validate:"required"`
	DestinationAccountID uuid.UUID       `json:"destinationAccountId" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
}

type EmailTransferRequest struct {
	SourceAccountID  uuid.UUID       `json:"sourceAccountId" validate:"required"`
	DestinationEmail string          `json:"destinationEmail"`
	Amount           decimal.Decimal `json:"amount"`
}

type BalanceResponse struct {
	ID      uuid.UUID       `json:"id"`
	Type    account.Type    `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// TransactionResponse is a ledger entry with its display label
type TransactionResponse struct {
	*transaction.Transaction
	Label string `json:"label"`
}

func toTransactionResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{Transaction: t, Label: t.Label()}
}

// HandleListAccounts returns all accounts of the authenticated user
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	accounts, err := h.accounts.GetAccountsByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// HandleCreateAccount opens an additional account for the caller
func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acc, err := h.accounts.CreateAccount(r.Context(), userID, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *AccountHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{ID: acc.ID, Type: acc.Type, Balance: acc.Balance})
}

// HandleStatement lists the account's transactions, newest first.
// An optional ?type= narrows the list to one entry type, given either as
// the code or as the statement label.
func (h *AccountHandler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.callerAndAccount(w, r)
	if !ok {
		return
	}

	var filter transaction.Type
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ, valid := transaction.ParseType(raw)
		if !valid {
			writeError(w, r, errInvalidType)
			return
		}
		filter = typ
	}

	entries, err := h.accounts.Statement(r.Context(), userID, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]TransactionResponse, 0, len(entries))
	for _, t := range entries {
		if filter != "" && t.Type != filter {
			continue
		}
		response = append(response, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, h.accounts.Deposit)
}

func (h *AccountHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, h.accounts.Withdraw)
}

type movementFunc func(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*transaction.Transaction, error)

func (h *AccountHandler) handleMovement(w http.ResponseWriter, r *http.Request, move movementFunc) {
	userID, accountID, ok := h.callerAndAccount(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := move(r.Context(), userID, accountID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(entry))
}

// HandleTransfer moves money between two accounts by id
func (h *AccountHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.accounts.Transfer(r.Context(), userID, req.SourceAccountID, req.DestinationAccountID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(entry))
}

// HandleTransferByEmail sends money to the checking account of another user
func (h *AccountHandler) HandleTransferByEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req EmailTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.accounts.TransferByEmail(r.Context(), userID, req.SourceAccountID, req.DestinationEmail, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(entry))
}

func (h *AccountHandler) ownedAccount(w http.ResponseWriter, r *http.Request) (*account.Account, bool) {
	userID, accountID, ok := h.callerAndAccount(w, r)
	if !ok {
		return nil, false
	}

	acc, err := h.accounts.GetAccountByID(r.Context(), userID, accountID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return acc, true
}

func (h *AccountHandler) callerAndAccount(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	accountID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, accountID, true
}
