package domain

import (
	"fmt"
	"sort"
	"time"
)

// ForecastReport is the cash-flow projection returned by the model and stored
// in the ai_forecasts collection. The evaluation percentages stay loosely
// typed because the model chooses its own expense-category keys.
type ForecastReport struct {
	CashFlowForecast      CashFlowForecast `bson:"cash_flow_forecast" json:"cash_flow_forecast"`
	ImprovementTips       []string         `bson:"improvement_tips" json:"improvement_tips"`
	EvaluationPercentages map[string]any   `bson:"evaluation_percentages" json:"evaluation_percentages"`
	Currency              string           `bson:"currency" json:"currency"`
	ChartData             *ChartData       `bson:"chart_data,omitempty" json:"chart_data,omitempty"`
	CreatedAt             time.Time        `bson:"created_at" json:"created_at,omitempty"`
}

// CashFlowForecast holds the headline projection figures.
type CashFlowForecast struct {
	NextMonthPredictionAOA float64 `bson:"next_month_prediction_AOA" json:"next_month_prediction_AOA"`
	ThreeMonthTotalAOA     float64 `bson:"three_month_total_AOA" json:"three_month_total_AOA"`
	TrendDescription       string  `bson:"trend_description" json:"trend_description"`
	ConfidenceScore        float64 `bson:"confidence_score" json:"confidence_score"`
}

// ChartData is the chart-ready series the forecast tab renders directly.
type ChartData struct {
	Labels   []string       `bson:"labels" json:"labels"`
	Datasets []ChartDataset `bson:"datasets" json:"datasets"`
}

type ChartDataset struct {
	Label           string    `bson:"label" json:"label"`
	Data            []float64 `bson:"data" json:"data"`
	BorderColor     string    `bson:"borderColor" json:"borderColor"`
	BackgroundColor string    `bson:"backgroundColor" json:"backgroundColor"`
}

// FraudReport is the full fraud scan output. It is returned to the caller but
// never stored as its own document; the per-transaction assessments are merged
// into each transaction's ai_analysis_results map instead.
type FraudReport struct {
	FraudReport []FraudReportEntry `json:"fraud_report"`
	Summary     FraudSummary       `json:"summary"`
	Currency    string             `json:"currency"`
}

// FraudReportEntry is the model's verdict on a single transaction.
type FraudReportEntry struct {
	TransactionID     string  `json:"transaction_id"`
	IsSuspicious      bool    `json:"is_suspicious"`
	Reason            string  `json:"reason"`
	RiskScore         float64 `json:"risk_score"`
	RecommendedAction string  `json:"recommended_action"`
}

type FraudSummary struct {
	TotalTransactionsScanned    int    `json:"total_transactions_scanned"`
	SuspiciousTransactionsFound int    `json:"suspicious_transactions_found"`
	OverallRiskLevel            string `json:"overall_risk_level"`
}

// Assessment converts a report entry into the sub-record merged into the
// transaction's ai_analysis_results map.
func (e FraudReportEntry) Assessment(scannedAt time.Time) FraudAssessment {
	return FraudAssessment{
		IsSuspicious:      e.IsSuspicious,
		Reason:            e.Reason,
		RiskScore:         e.RiskScore,
		RecommendedAction: e.RecommendedAction,
		LastScannedAt:     scannedAt.UTC(),
	}
}

// CreditReport is the creditworthiness assessment stored in ai_credit_reports.
type CreditReport struct {
	CreditAnalysisReport CreditAnalysisReport `bson:"credit_analysis_report" json:"credit_analysis_report"`
	Currency             string               `bson:"currency" json:"currency"`
	CreatedAt            time.Time            `bson:"created_at" json:"created_at,omitempty"`
}

type CreditAnalysisReport struct {
	CreditScore               string   `bson:"credit_score" json:"credit_score"`
	RecommendedCreditLimitAOA float64  `bson:"recommended_credit_limit_AOA" json:"recommended_credit_limit_AOA"`
	KeyPositiveFactors        []string `bson:"key_positive_factors" json:"key_positive_factors"`
	KeyNegativeFactors        []string `bson:"key_negative_factors" json:"key_negative_factors"`
	AssessmentSummary         string   `bson:"assessment_summary" json:"assessment_summary"`
	ConfidenceLevel           string   `bson:"confidence_level" json:"confidence_level"`
}

// RiskReport is a free-form risk document in ai_risk_reports. The collection
// exists for externally produced risk assessments; nothing in the request
// flows writes to it.
type RiskReport struct {
	Report    map[string]any `bson:"report" json:"report"`
	Currency  string         `bson:"currency" json:"currency"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at,omitempty"`
}

// FinancialSummary is the derived trailing-window summary fed to the credit
// analysis prompt. The JSON keys are part of the prompt contract.
type FinancialSummary struct {
	TotalIncomeAOA           float64 `json:"total_income_last_6m_AOA"`
	TotalExpensesAOA         float64 `json:"total_expenses_last_6m_AOA"`
	NetCashFlowAOA           float64 `json:"net_cash_flow_last_6m_AOA"`
	ExpenseToIncomeRatio     string  `json:"calculated_expense_to_income_ratio"`
	AverageMonthlyNetFlowAOA float64 `json:"average_monthly_net_flow_AOA"`
	TransactionCount         int     `json:"number_of_transactions_last_6m"`
}

// TransactionHighlight is a human-readable line item included in the credit
// prompt.
type TransactionHighlight struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// SummaryWindowDays is the trailing window used for the credit summary.
const SummaryWindowDays = 180

// BuildFinancialSummary filters transactions to the trailing window ending at
// now, totals income and expenses, and selects up to five of the most recent
// qualifying transactions as highlights.
func BuildFinancialSummary(now time.Time, txs []Transaction) (FinancialSummary, []TransactionHighlight) {
	cutoff := now.AddDate(0, 0, -SummaryWindowDays)

	var recent []Transaction
	var income, expenses float64
	for _, tx := range txs {
		if !tx.PaymentDate.After(cutoff) {
			continue
		}
		recent = append(recent, tx)
		switch tx.Type {
		case TypeIncome:
			income += tx.Amount
		case TypeExpense:
			expenses += tx.Amount
		}
	}

	summary := FinancialSummary{
		TotalIncomeAOA:       income,
		TotalExpensesAOA:     expenses,
		NetCashFlowAOA:       income - expenses,
		ExpenseToIncomeRatio: "N/A",
		TransactionCount:     len(recent),
	}
	if income > 0 {
		summary.ExpenseToIncomeRatio = fmt.Sprintf("%.2f%% (Expense Ratio)", expenses/income*100)
		summary.AverageMonthlyNetFlowAOA = (income - expenses) / 6
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].PaymentDate.After(recent[j].PaymentDate)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	highlights := make([]TransactionHighlight, 0, len(recent))
	for _, tx := range recent {
		highlights = append(highlights, TransactionHighlight{
			Date:        tx.PaymentDate.Format("2006-01-02"),
			Type:        string(tx.Type),
			Description: tx.Description,
			Amount:      fmt.Sprintf("%.2f %s", tx.Amount, Currency),
		})
	}

	return summary, highlights
}
