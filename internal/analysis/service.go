package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

// ErrNoTransactions signals there is nothing to analyze; handlers decide the
// per-endpoint response.
var ErrNoTransactions = errors.New("no transactions available for analysis")

// ErrMissingReportField signals the model answered with valid JSON that lacks
// the required top-level field. Distinct from a parse failure.
var ErrMissingReportField = errors.New("model response missing 'credit_analysis_report' field")

// ProviderError wraps a provider/parse failure together with the degraded
// fallback payload the caller should still receive.
type ProviderError struct {
	Err      error
	Fallback any
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// Store is the slice of the persistence layer the analysis flows use.
type Store interface {
	AllTransactions(ctx context.Context) ([]domain.Transaction, error)
	MergeAnalysisResult(ctx context.Context, id, key string, value any) error
	InsertForecast(ctx context.Context, r *domain.ForecastReport) error
	InsertCreditReport(ctx context.Context, r *domain.CreditReport) error
}

// Service runs the three analysis flows. A nil Generator means no provider
// credential is configured; the flows then return fixed sample payloads, and
// forecast/credit still exercise the persistence path with the sample.
type Service struct {
	store Store
	gen   Generator
	now   func() time.Time
	log   zerolog.Logger
}

func NewService(store Store, gen Generator, log zerolog.Logger) *Service {
	return &Service{store: store, gen: gen, now: time.Now, log: log}
}

// ForecastResult carries the report plus a non-fatal persistence warning.
type ForecastResult struct {
	Report         *domain.ForecastReport
	PersistWarning string
}

// FraudResult carries the fraud report and how many assessments were merged.
type FraudResult struct {
	Report *domain.FraudReport
	Merged int
}

// CreditResult carries the report plus a non-fatal persistence warning.
type CreditResult struct {
	Report         *domain.CreditReport
	PersistWarning string
}

// Forecast produces a cash-flow forecast from all stored transactions and
// persists it. The report is returned even when persistence fails; the
// failure is reported as a warning, never an error.
func (s *Service) Forecast(ctx context.Context) (*ForecastResult, error) {
	if s.gen == nil {
		s.log.Warn().Msg("AI provider key not configured, returning sample forecast")
		sample := SampleForecast()
		return &ForecastResult{
			Report:         sample,
			PersistWarning: s.persistForecast(ctx, sample),
		}, nil
	}

	txs, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	raw, err := s.gen.Generate(ctx, PromptForForecast(s.now(), txs))
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackForecast()}
	}

	clean, err := ExtractJSONPayload(raw)
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackForecast()}
	}

	var report domain.ForecastReport
	if err := json.Unmarshal([]byte(clean), &report); err != nil {
		return nil, &ProviderError{
			Err:      fmt.Errorf("parsing forecast response: %w", err),
			Fallback: FallbackForecast(),
		}
	}

	return &ForecastResult{
		Report:         &report,
		PersistWarning: s.persistForecast(ctx, &report),
	}, nil
}

// DetectFraud scans all stored transactions and merges each returned
// assessment into its transaction's ai_analysis_results map under the
// fraud_guard key. No separate report document is written.
func (s *Service) DetectFraud(ctx context.Context) (*FraudResult, error) {
	if s.gen == nil {
		s.log.Warn().Msg("AI provider key not configured, returning sample fraud report")
		return &FraudResult{Report: SampleFraudReport()}, nil
	}

	txs, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	raw, err := s.gen.Generate(ctx, PromptForFraud(txs))
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackFraudReport()}
	}

	clean, err := ExtractJSONPayload(raw)
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackFraudReport()}
	}

	var report domain.FraudReport
	if err := json.Unmarshal([]byte(clean), &report); err != nil {
		return nil, &ProviderError{
			Err:      fmt.Errorf("parsing fraud response: %w", err),
			Fallback: FallbackFraudReport(),
		}
	}

	scannedAt := s.now()
	merged := 0
	for _, entry := range report.FraudReport {
		if entry.TransactionID == "" {
			continue
		}
		err := s.store.MergeAnalysisResult(ctx, entry.TransactionID,
			domain.AnalysisKeyFraudGuard, entry.Assessment(scannedAt))
		if err != nil {
			// One bad identifier must not sink the scan.
			s.log.Warn().Err(err).
				Str("transaction_id", entry.TransactionID).
				Msg("Failed to merge fraud assessment")
			continue
		}
		merged++
	}

	return &FraudResult{Report: &report, Merged: merged}, nil
}

// AnalyzeCredit derives a trailing-window financial summary, asks the model
// for a credit assessment and persists the validated report.
func (s *Service) AnalyzeCredit(ctx context.Context) (*CreditResult, error) {
	if s.gen == nil {
		s.log.Warn().Msg("AI provider key not configured, returning sample credit report")
		sample := SampleCreditReport()
		return &CreditResult{
			Report:         sample,
			PersistWarning: s.persistCredit(ctx, sample),
		}, nil
	}

	txs, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	summary, highlights := domain.BuildFinancialSummary(s.now(), txs)

	raw, err := s.gen.Generate(ctx, PromptForCredit(summary, highlights))
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackCreditReport()}
	}

	clean, err := ExtractJSONPayload(raw)
	if err != nil {
		return nil, &ProviderError{Err: err, Fallback: FallbackCreditReport()}
	}

	// Probe with a pointer so a present-but-required field can be told apart
	// from a parse failure.
	var probe struct {
		CreditAnalysisReport *domain.CreditAnalysisReport `json:"credit_analysis_report"`
		Currency             string                       `json:"currency"`
	}
	if err := json.Unmarshal([]byte(clean), &probe); err != nil {
		return nil, &ProviderError{
			Err:      fmt.Errorf("parsing credit response: %w", err),
			Fallback: FallbackCreditReport(),
		}
	}
	if probe.CreditAnalysisReport == nil {
		return nil, ErrMissingReportField
	}

	report := &domain.CreditReport{
		CreditAnalysisReport: *probe.CreditAnalysisReport,
		Currency:             probe.Currency,
	}
	if report.Currency == "" {
		report.Currency = domain.Currency
	}

	return &CreditResult{
		Report:         report,
		PersistWarning: s.persistCredit(ctx, report),
	}, nil
}

func (s *Service) persistForecast(ctx context.Context, r *domain.ForecastReport) string {
	if err := s.store.InsertForecast(ctx, r); err != nil {
		s.log.Error().Err(err).Msg("Failed to store forecast report")
		return "forecast generated but could not be stored"
	}
	return ""
}

func (s *Service) persistCredit(ctx context.Context, r *domain.CreditReport) string {
	if err := s.store.InsertCreditReport(ctx, r); err != nil {
		s.log.Error().Err(err).Msg("Failed to store credit report")
		return "credit report generated but could not be stored"
	}
	return ""
}
