package analysis

import "github.com/luandafin/finance-dashboard/internal/domain"

// Fixed payloads used when no provider credential is configured, and degraded
// fallbacks attached to error responses when a real call fails. All values
// are deterministic so repeated calls return identical bodies.

// SampleForecast mimics a real forecast response for development and demos.
func SampleForecast() *domain.ForecastReport {
	return &domain.ForecastReport{
		CashFlowForecast: domain.CashFlowForecast{
			NextMonthPredictionAOA: 1200000.75,
			ThreeMonthTotalAOA:     3500000.00,
			TrendDescription:       "Slightly positive cash flow trend expected if current income and expense patterns continue.",
			ConfidenceScore:        0.70,
		},
		ImprovementTips: []string{
			"Consider reducing discretionary spending on entertainment by 15%.",
			"Look for opportunities to increase freelance income by seeking 1-2 new small projects.",
			"Review monthly subscriptions and cancel any that are unused.",
		},
		EvaluationPercentages: map[string]any{
			"income_vs_expense_ratio": "120%",
			"savings_rate_forecast":   "15%",
			"key_expense_categories": map[string]any{
				"Aluguel":     "40%",
				"Alimentação": "25%",
				"Transporte":  "15%",
			},
		},
		Currency: domain.Currency,
		ChartData: &domain.ChartData{
			Labels: []string{"Mês Anterior", "Mês Atual", "Próximo Mês (Previsto)"},
			Datasets: []domain.ChartDataset{
				{
					Label:           "Receitas (AOA)",
					Data:            []float64{1000000, 1100000, 1200000.75},
					BorderColor:     "rgba(75, 192, 192, 1)",
					BackgroundColor: "rgba(75, 192, 192, 0.2)",
				},
				{
					Label:           "Despesas (AOA)",
					Data:            []float64{800000, 850000, 900000},
					BorderColor:     "rgba(255, 99, 132, 1)",
					BackgroundColor: "rgba(255, 99, 132, 0.2)",
				},
			},
		},
	}
}

// FallbackForecast is the degraded payload attached to a forecast error
// response.
func FallbackForecast() *domain.ForecastReport {
	return &domain.ForecastReport{
		CashFlowForecast: domain.CashFlowForecast{
			NextMonthPredictionAOA: 50000.0,
			ThreeMonthTotalAOA:     150000.0,
			TrendDescription:       "Error fetching real data.",
			ConfidenceScore:        0.1,
		},
		ImprovementTips: []string{"Check API key and network."},
		EvaluationPercentages: map[string]any{
			"income_vs_expense_ratio": "N/A",
		},
		Currency: domain.Currency,
		ChartData: &domain.ChartData{
			Labels:   []string{"M1", "M2", "M3"},
			Datasets: []domain.ChartDataset{},
		},
	}
}

// SampleFraudReport mimics a real fraud scan response.
func SampleFraudReport() *domain.FraudReport {
	return &domain.FraudReport{
		FraudReport: []domain.FraudReportEntry{
			{
				TransactionID:     "sample_txn_1",
				IsSuspicious:      true,
				Reason:            "Unusually large transaction amount compared to typical spending patterns.",
				RiskScore:         0.85,
				RecommendedAction: "Review manually",
			},
			{
				TransactionID:     "sample_txn_2",
				IsSuspicious:      true,
				Reason:            "Transaction with a new payee in a high-risk category.",
				RiskScore:         0.65,
				RecommendedAction: "Monitor payee activity",
			},
		},
		Summary: domain.FraudSummary{
			TotalTransactionsScanned:    20,
			SuspiciousTransactionsFound: 2,
			OverallRiskLevel:            "Medium",
		},
		Currency: domain.Currency,
	}
}

// FallbackFraudReport is the degraded payload attached to a fraud error
// response.
func FallbackFraudReport() *domain.FraudReport {
	return &domain.FraudReport{
		FraudReport: []domain.FraudReportEntry{},
		Summary: domain.FraudSummary{
			OverallRiskLevel: "Error",
		},
		Currency: domain.Currency,
	}
}

// SampleCreditReport mimics a real credit analysis response.
func SampleCreditReport() *domain.CreditReport {
	return &domain.CreditReport{
		CreditAnalysisReport: domain.CreditAnalysisReport{
			CreditScore:               "Good (7/10)",
			RecommendedCreditLimitAOA: 750000.00,
			KeyPositiveFactors: []string{
				"Consistent income stream noted over the past 6 months.",
				"Positive net cash flow on average.",
			},
			KeyNegativeFactors: []string{
				"Occasional high-value expense spikes.",
				"Limited history of managing large debts (if applicable based on data).",
			},
			AssessmentSummary: "The entity shows a generally positive financial health with good repayment capacity. Credit limit recommended with standard caution.",
			ConfidenceLevel:   "Medium",
		},
		Currency: domain.Currency,
	}
}

// FallbackCreditReport is the degraded payload attached to a credit error
// response.
func FallbackCreditReport() *domain.CreditReport {
	return &domain.CreditReport{
		CreditAnalysisReport: domain.CreditAnalysisReport{
			CreditScore:               "Error Processing (0/10)",
			RecommendedCreditLimitAOA: 0,
			KeyPositiveFactors:        []string{},
			KeyNegativeFactors:        []string{"Error in processing"},
			AssessmentSummary:         "Could not complete credit assessment due to an internal error.",
			ConfidenceLevel:           "Low",
		},
		Currency: domain.Currency,
	}
}
