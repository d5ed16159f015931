package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/api/middleware"
	"github.com/luandafin/finance-dashboard/internal/domain"
	"github.com/luandafin/finance-dashboard/internal/store/mongodb"
)

// TransactionStore is the slice of the store the transaction endpoints use.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx *domain.Transaction) (string, error)
	FindTransactions(ctx context.Context, f mongodb.TransactionFilter) ([]domain.Transaction, error)
	FindTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
}

// TransactionsHandler handles transaction CRUD endpoints.
type TransactionsHandler struct {
	store TransactionStore
	log   zerolog.Logger
}

func NewTransactionsHandler(store TransactionStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, log: log}
}

// createTransactionRequest accepts amount as either a JSON number or a
// numeric string.
type createTransactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      any    `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Status      string `json:"status"`
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No input data provided")
		return
	}

	if field, ok := missingRequestField(req); ok {
		middleware.WriteError(w, http.StatusBadRequest, "Missing field: "+field)
		return
	}

	amount, err := coerceAmount(req.Amount)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid 'amount', must be a number")
		return
	}

	paymentDate, err := domain.ParsePaymentDate(req.PaymentDate)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid 'payment_date' format, expected YYYY-MM-DD")
		return
	}

	tx, err := domain.NewTransaction(req.Type, req.Description, amount, paymentDate, req.Status)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			middleware.WriteError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.InsertTransaction(ctx, tx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to add transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	// Re-fetch so the response carries the store-assigned fields.
	stored, err := h.store.FindTransactionByID(ctx, id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to read back transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "Transaction added successfully",
		"transaction": stored,
	})
}

// List handles GET /api/transactions with optional equality filters.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := mongodb.TransactionFilter{
		ID:          q.Get("id"),
		Type:        q.Get("type"),
		Status:      q.Get("status"),
		Description: q.Get("description"),
	}

	txs, err := h.store.FindTransactions(ctx, filter)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			middleware.WriteError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, txs)
}

func missingRequestField(req createTransactionRequest) (string, bool) {
	switch {
	case req.Type == "":
		return "type", true
	case req.Description == "":
		return "description", true
	case req.Amount == nil:
		return "amount", true
	case req.PaymentDate == "":
		return "payment_date", true
	case req.Status == "":
		return "status", true
	}
	return "", false
}

func coerceAmount(v any) (float64, error) {
	switch a := v.(type) {
	case float64:
		return a, nil
	case string:
		return strconv.ParseFloat(a, 64)
	default:
		return 0, fmt.Errorf("amount has type %T, want number", v)
	}
}
