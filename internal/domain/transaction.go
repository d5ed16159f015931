package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// TransactionStatus tracks the payment state of a transaction.
type TransactionStatus string

const (
	StatusPaid      TransactionStatus = "paid"
	StatusPending   TransactionStatus = "pending"
	StatusScheduled TransactionStatus = "scheduled"
)

// AnalysisKeyFraudGuard is the key under which fraud assessments are merged
// into a transaction's ai_analysis_results map.
const AnalysisKeyFraudGuard = "fraud_guard"

// Currency is the single currency code used for all monetary fields.
const Currency = "AOA"

// Transaction is one financial record. ID and CreatedAt are assigned by the
// store on insertion; AIAnalysisResults starts empty and is only ever updated
// one key at a time by the analysis flows.
type Transaction struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type              TransactionType    `bson:"type" json:"type"`
	Description       string             `bson:"description" json:"description"`
	Amount            float64            `bson:"amount" json:"amount"`
	PaymentDate       time.Time          `bson:"payment_date" json:"payment_date"`
	Status            TransactionStatus  `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	AIAnalysisResults map[string]any     `bson:"ai_analysis_results" json:"ai_analysis_results"`
}

// FraudAssessment is the normalized per-transaction fraud sub-record stored
// under ai_analysis_results.fraud_guard.
type FraudAssessment struct {
	IsSuspicious      bool      `bson:"is_suspicious" json:"is_suspicious"`
	Reason            string    `bson:"reason" json:"reason"`
	RiskScore         float64   `bson:"risk_score" json:"risk_score"`
	RecommendedAction string    `bson:"recommended_action" json:"recommended_action"`
	LastScannedAt     time.Time `bson:"last_scanned_at" json:"last_scanned_at"`
}

// ValidationError names the field that failed validation so handlers and the
// ingestion pipeline can report it back to the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// typeAliases and statusAliases accept both the canonical English values and
// the Portuguese values used by legacy spreadsheets.
var typeAliases = map[string]TransactionType{
	"income":  TypeIncome,
	"receita": TypeIncome,
	"expense": TypeExpense,
	"despesa": TypeExpense,
}

var statusAliases = map[string]TransactionStatus{
	"paid":      StatusPaid,
	"pago":      StatusPaid,
	"pending":   StatusPending,
	"pendente":  StatusPending,
	"scheduled": StatusScheduled,
	"agendado":  StatusScheduled,
}

// ParseTransactionType normalizes and validates a transaction type value.
func ParseTransactionType(s string) (TransactionType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[norm]; ok {
		return t, nil
	}
	return "", &ValidationError{
		Field:   "type",
		Message: fmt.Sprintf("invalid value %q, must be 'income' or 'expense'", s),
	}
}

// ParseTransactionStatus normalizes and validates a transaction status value.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if st, ok := statusAliases[norm]; ok {
		return st, nil
	}
	return "", &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("invalid value %q, must be 'paid', 'pending' or 'scheduled'", s),
	}
}

// paymentDateLayouts are the textual date formats accepted on input, tried in
// order. Excel serial numbers are handled separately by the ingestion layer.
var paymentDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// ParsePaymentDate parses a date in any accepted layout and truncates it to
// midnight UTC.
func ParsePaymentDate(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	for _, layout := range paymentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, &ValidationError{
		Field:   "payment_date",
		Message: fmt.Sprintf("invalid date %q", s),
	}
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewTransaction validates the raw field values and builds a Transaction.
// The store fills in ID, CreatedAt and AIAnalysisResults at insertion.
func NewTransaction(typ, description string, amount float64, paymentDate time.Time, status string) (*Transaction, error) {
	t, err := ParseTransactionType(typ)
	if err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, &ValidationError{Field: "description", Message: "must not be empty"}
	}

	st, err := ParseTransactionStatus(status)
	if err != nil {
		return nil, err
	}

	if paymentDate.IsZero() {
		return nil, &ValidationError{Field: "payment_date", Message: "must not be empty"}
	}

	return &Transaction{
		Type:        t,
		Description: desc,
		Amount:      amount,
		PaymentDate: DateOnly(paymentDate),
		Status:      st,
	}, nil
}
