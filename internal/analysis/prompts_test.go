package analysis

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

func TestPromptForForecast_IncludesDataAndContract(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{{
		Type:        domain.TypeIncome,
		Description: "Consulting fee",
		Amount:      250000,
		PaymentDate: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}}

	prompt := PromptForForecast(now, txs)

	for _, want := range []string{
		"2025-07-01",
		"Consulting fee",
		"next_month_prediction_AOA",
		"chart_data",
		"Receitas (AOA)",
		"Do NOT wrap the response in code fences.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPromptForFraud_IncludesTransactionIDs(t *testing.T) {
	id := primitive.NewObjectID()
	txs := []domain.Transaction{{
		ID:          id,
		Type:        domain.TypeExpense,
		Description: "Equipment purchase",
		Amount:      500000,
		PaymentDate: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}}

	prompt := PromptForFraud(txs)

	if !strings.Contains(prompt, id.Hex()) {
		t.Error("prompt missing transaction id")
	}
	if !strings.Contains(prompt, "fraud_report") {
		t.Error("prompt missing response contract")
	}
}

func TestPromptForForecast_OmitsTransactionIDs(t *testing.T) {
	id := primitive.NewObjectID()
	txs := []domain.Transaction{{
		ID:          id,
		Type:        domain.TypeExpense,
		Description: "Rent",
		Amount:      100,
		PaymentDate: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}}

	prompt := PromptForForecast(time.Now(), txs)

	if strings.Contains(prompt, id.Hex()) {
		t.Error("forecast prompt should not carry transaction ids")
	}
}

func TestPromptForCredit_IncludesSummaryAndHighlights(t *testing.T) {
	summary := domain.FinancialSummary{
		TotalIncomeAOA:       2000,
		TotalExpensesAOA:     500,
		NetCashFlowAOA:       1500,
		ExpenseToIncomeRatio: "25.00% (Expense Ratio)",
		TransactionCount:     3,
	}
	highlights := []domain.TransactionHighlight{{
		Date:        "2025-06-05",
		Type:        "expense",
		Description: "Office rent",
		Amount:      "500.00 AOA",
	}}

	prompt := PromptForCredit(summary, highlights)

	for _, want := range []string{
		"total_income_last_6m_AOA",
		"Office rent",
		"credit_analysis_report",
		"recommended_credit_limit_AOA",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
