package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/domain"
	"github.com/luandafin/finance-dashboard/internal/store/mongodb"
)

type fakeReportStore struct {
	forecast *domain.ForecastReport
	credit   *domain.CreditReport
	risk     *domain.RiskReport
}

func (f *fakeReportStore) LatestForecast(ctx context.Context) (*domain.ForecastReport, error) {
	if f.forecast == nil {
		return nil, mongodb.ErrNotFound
	}
	return f.forecast, nil
}

func (f *fakeReportStore) LatestCreditReport(ctx context.Context) (*domain.CreditReport, error) {
	if f.credit == nil {
		return nil, mongodb.ErrNotFound
	}
	return f.credit, nil
}

func (f *fakeReportStore) LatestRiskReport(ctx context.Context) (*domain.RiskReport, error) {
	if f.risk == nil {
		return nil, mongodb.ErrNotFound
	}
	return f.risk, nil
}

func TestLatestForecast_Found(t *testing.T) {
	store := &fakeReportStore{forecast: &domain.ForecastReport{
		CashFlowForecast: domain.CashFlowForecast{NextMonthPredictionAOA: 42},
		Currency:         domain.Currency,
	}}
	h := NewReportsHandler(store, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.LatestForecast(rec, httptest.NewRequest(http.MethodGet, "/api/reports/forecast", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp domain.ForecastReport
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.CashFlowForecast.NextMonthPredictionAOA != 42 {
		t.Errorf("prediction = %v", resp.CashFlowForecast.NextMonthPredictionAOA)
	}
}

func TestLatestReports_NotFound(t *testing.T) {
	h := NewReportsHandler(&fakeReportStore{}, zerolog.Nop())

	endpoints := []struct {
		name string
		call http.HandlerFunc
	}{
		{"forecast", h.LatestForecast},
		{"credit", h.LatestCredit},
		{"risk", h.LatestRisk},
	}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ep.call(rec, httptest.NewRequest(http.MethodGet, "/api/reports/"+ep.name, nil))
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestLatestCredit_Found(t *testing.T) {
	store := &fakeReportStore{credit: &domain.CreditReport{
		CreditAnalysisReport: domain.CreditAnalysisReport{CreditScore: "Good (7/10)"},
		Currency:             domain.Currency,
	}}
	h := NewReportsHandler(store, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.LatestCredit(rec, httptest.NewRequest(http.MethodGet, "/api/reports/credit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
