package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/api/middleware"
	"github.com/luandafin/finance-dashboard/internal/domain"
	"github.com/luandafin/finance-dashboard/internal/store/mongodb"
)

// ReportStore is the slice of the store the report read endpoints use.
type ReportStore interface {
	LatestForecast(ctx context.Context) (*domain.ForecastReport, error)
	LatestCreditReport(ctx context.Context) (*domain.CreditReport, error)
	LatestRiskReport(ctx context.Context) (*domain.RiskReport, error)
}

// ReportsHandler serves the most recent stored report of each kind.
type ReportsHandler struct {
	store ReportStore
	log   zerolog.Logger
}

func NewReportsHandler(store ReportStore, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{store: store, log: log}
}

// LatestForecast handles GET /api/reports/forecast.
func (h *ReportsHandler) LatestForecast(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.LatestForecast(r.Context())
	h.write(w, report, err, "No forecast report available")
}

// LatestCredit handles GET /api/reports/credit.
func (h *ReportsHandler) LatestCredit(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.LatestCreditReport(r.Context())
	h.write(w, report, err, "No credit report available")
}

// LatestRisk handles GET /api/reports/risk.
func (h *ReportsHandler) LatestRisk(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.LatestRiskReport(r.Context())
	h.write(w, report, err, "No risk report available")
}

func (h *ReportsHandler) write(w http.ResponseWriter, report any, err error, notFound string) {
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, notFound)
			return
		}
		h.log.Error().Err(err).Msg("Failed to fetch report")
		middleware.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}
