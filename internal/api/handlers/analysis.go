package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/analysis"
	"github.com/luandafin/finance-dashboard/internal/api/middleware"
	"github.com/luandafin/finance-dashboard/internal/domain"
)

// AnalysisHandler exposes the three AI analysis flows.
type AnalysisHandler struct {
	svc *analysis.Service
	log zerolog.Logger
}

func NewAnalysisHandler(svc *analysis.Service, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, log: log}
}

// forecastResponse inlines the report fields and optionally flags a
// persistence failure without hiding the result.
type forecastResponse struct {
	*domain.ForecastReport
	PersistWarning string `json:"persistence_warning,omitempty"`
}

type creditResponse struct {
	*domain.CreditReport
	PersistWarning string `json:"persistence_warning,omitempty"`
}

// AnalyzeCashflow handles POST /api/analyze_cashflow.
func (h *AnalysisHandler) AnalyzeCashflow(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Forecast(r.Context())
	if err != nil {
		if errors.Is(err, analysis.ErrNoTransactions) {
			middleware.WriteError(w, http.StatusBadRequest, "No transactions available for analysis")
			return
		}
		h.writeProviderFailure(w, err, "Failed to get analysis from AI. Using sample data.")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, forecastResponse{
		ForecastReport: res.Report,
		PersistWarning: res.PersistWarning,
	})
}

// DetectFraud handles POST /api/detect_fraud.
func (h *AnalysisHandler) DetectFraud(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DetectFraud(r.Context())
	if err != nil {
		if errors.Is(err, analysis.ErrNoTransactions) {
			middleware.WriteJSON(w, http.StatusOK, map[string]string{
				"message": "No transactions found to analyze.",
			})
			return
		}
		h.writeProviderFailure(w, err, "Failed to get fraud analysis from AI. Using sample data.")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, res.Report)
}

// AnalyzeCredit handles POST /api/analyze_credit.
func (h *AnalysisHandler) AnalyzeCredit(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.AnalyzeCredit(r.Context())
	if err != nil {
		if errors.Is(err, analysis.ErrNoTransactions) {
			middleware.WriteError(w, http.StatusBadRequest, "No transactions available for credit analysis")
			return
		}
		if errors.Is(err, analysis.ErrMissingReportField) {
			middleware.WriteError(w, http.StatusInternalServerError, "AI response missing 'credit_analysis_report' field.")
			return
		}
		h.writeProviderFailure(w, err, "Failed to get credit analysis from AI. Using sample data.")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, creditResponse{
		CreditReport:   res.Report,
		PersistWarning: res.PersistWarning,
	})
}

// writeProviderFailure translates a provider error into a 500 envelope that
// still carries a usable fallback body.
func (h *AnalysisHandler) writeProviderFailure(w http.ResponseWriter, err error, message string) {
	h.log.Error().Err(err).Msg("Analysis request failed")

	var pErr *analysis.ProviderError
	if errors.As(err, &pErr) {
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":       message,
			"details":     pErr.Err.Error(),
			"sample_data": pErr.Fallback,
		})
		return
	}

	middleware.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
}
