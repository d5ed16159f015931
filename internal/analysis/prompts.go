package analysis

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

// promptTransaction is the compact shape transactions take inside a prompt.
type promptTransaction struct {
	ID          string  `json:"id,omitempty"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func toPromptTransactions(txs []domain.Transaction, withID bool) []promptTransaction {
	out := make([]promptTransaction, 0, len(txs))
	for _, tx := range txs {
		pt := promptTransaction{
			Date:        tx.PaymentDate.Format("2006-01-02"),
			Type:        string(tx.Type),
			Description: tx.Description,
			Amount:      tx.Amount,
		}
		if withID {
			pt.ID = tx.ID.Hex()
		}
		out = append(out, pt)
	}
	return out
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// PromptForForecast builds the cash-flow forecast instruction. The literal
// JSON skeleton is the response contract the validator relies on.
func PromptForForecast(now time.Time, txs []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("Analyze the following financial transactions from Angola and provide a cash flow forecast for the next 3 months.\n")
	b.WriteString("The current date is " + now.Format("2006-01-02") + ".\n")
	b.WriteString("Data:\n")
	b.WriteString(marshalIndent(toPromptTransactions(txs, false)))
	b.WriteString("\n\nPlease return the analysis in JSON format with the following structure:\n")
	b.WriteString(`{
    "cash_flow_forecast": {
        "next_month_prediction_AOA": <value>,
        "three_month_total_AOA": <value>,
        "trend_description": "<textual description of the trend>",
        "confidence_score": <0.0 to 1.0>
    },
    "improvement_tips": [
        "<actionable tip 1>",
        "<actionable tip 2>"
    ],
    "evaluation_percentages": {
        "income_vs_expense_ratio": "<percentage>%",
        "savings_rate_forecast": "<percentage>%",
        "key_expense_categories": {
            "<category1>": "<percentage>%",
            "<category2>": "<percentage>%"
        }
    },
    "currency": "AOA",
    "chart_data": {
        "labels": ["<Previous Month Name>", "<Current Month Name>", "<Next Month Name (Forecast)>"],
        "datasets": [
            {
                "label": "Receitas (AOA)",
                "data": [<previous_month_income_value>, <current_month_income_value>, <next_month_forecasted_income_value>],
                "borderColor": "rgba(75, 192, 192, 1)",
                "backgroundColor": "rgba(75, 192, 192, 0.2)"
            },
            {
                "label": "Despesas (AOA)",
                "data": [<previous_month_expense_value>, <current_month_expense_value>, <next_month_forecasted_expense_value>],
                "borderColor": "rgba(255, 99, 132, 1)",
                "backgroundColor": "rgba(255, 99, 132, 0.2)"
            }
        ]
    }
}`)
	b.WriteString("\nEnsure all monetary values are in AOA. Provide realistic example values for the chart_data section based on the overall forecast.\n")
	b.WriteString("The chart_data labels should reflect past, current, and future months relative to the analysis date.\n")
	b.WriteString("Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n")
	return b.String()
}

// PromptForFraud builds the fraud scan instruction. Transaction identifiers
// are embedded so the report entries can be merged back onto their records.
func PromptForFraud(txs []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("Analyze the following financial transactions from Angola for potential fraudulent activity.\n")
	b.WriteString("For each transaction identified as suspicious, provide a reason, a risk score (0-1), and a recommended action.\n")
	b.WriteString("Data:\n")
	b.WriteString(marshalIndent(toPromptTransactions(txs, true)))
	b.WriteString("\n\nPlease return the analysis in JSON format:\n")
	b.WriteString(`{
    "fraud_report": [
        {
            "transaction_id": "<original_transaction_id>",
            "is_suspicious": <true_or_false>,
            "reason": "<explanation_if_suspicious>",
            "risk_score": <0.0_to_1.0_if_suspicious_else_0.0>,
            "recommended_action": "<e.g., Review manually, Block account, No action needed>"
        }
    ],
    "summary": {
        "total_transactions_scanned": <count>,
        "suspicious_transactions_found": <count>,
        "overall_risk_level": "<Low/Medium/High based on findings>"
    },
    "currency": "AOA"
}`)
	b.WriteString("\nInclude entries for ALL transactions scanned, marking non-suspicious ones appropriately.\n")
	b.WriteString("Ensure all monetary values are in AOA.\n")
	b.WriteString("The transaction_id in the report must match the original id from the input.\n")
	b.WriteString("Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n")
	return b.String()
}

// PromptForCredit builds the credit analysis instruction from the derived
// financial summary and highlights rather than the raw transaction set.
func PromptForCredit(summary domain.FinancialSummary, highlights []domain.TransactionHighlight) string {
	var b strings.Builder
	b.WriteString("Perform an automatic credit analysis based on the following financial data for an entity in Angola.\n")
	b.WriteString("Provide a credit score (e.g., a category like Poor, Fair, Good, Excellent, and a 1-10 rating), a recommended credit limit in AOA, and key factors influencing the decision.\n\n")
	b.WriteString("Financial Summary (last 6 months):\n")
	b.WriteString(marshalIndent(summary))
	b.WriteString("\n\nTransaction History Highlights (last 6 months, up to 5 transactions):\n")
	b.WriteString(marshalIndent(highlights))
	b.WriteString("\n\nPlease return the analysis in JSON format:\n")
	b.WriteString(`{
    "credit_analysis_report": {
        "credit_score": "<e.g., Good (7/10)>",
        "recommended_credit_limit_AOA": <value_float_or_int>,
        "key_positive_factors": ["<factor 1>", "<factor 2>"],
        "key_negative_factors": ["<factor 1>"],
        "assessment_summary": "<textual summary of the creditworthiness and financial stability>",
        "confidence_level": "<High/Medium/Low>"
    },
    "currency": "AOA"
}`)
	b.WriteString("\nEnsure all monetary values are in AOA. Base your assessment on typical Angolan business context if possible.\n")
	b.WriteString("Focus on financial stability, income consistency, expense management, and cash flow patterns.\n")
	b.WriteString("The recommended_credit_limit_AOA should be a numerical value.\n")
	b.WriteString("Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n")
	return b.String()
}
