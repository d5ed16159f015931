package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

type mockInserter struct {
	inserted []*domain.Transaction
	failWith error
}

func (m *mockInserter) InsertTransaction(ctx context.Context, tx *domain.Transaction) (string, error) {
	if m.failWith != nil {
		return "", m.failWith
	}
	m.inserted = append(m.inserted, tx)
	return "id", nil
}

func newTestPipeline(store TransactionInserter) *Pipeline {
	return New(store, zerolog.Nop())
}

func TestIngest_PortugueseHeadersPartialImport(t *testing.T) {
	csv := "tipo,descricao,valor,data_de_pagamento,status\n" +
		"receita,Venda de servico,50000,2024-05-10,pago\n" +
		"despesa,,1000,2024-05-11,pago\n"

	store := &mockInserter{}
	result, err := newTestPipeline(store).Ingest(context.Background(), "extrato.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if result.Status() != StatusPartial {
		t.Errorf("Status = %v, want StatusPartial", result.Status())
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", result.Errors)
	}
	if got := result.Errors[0].String(); got != "Row 3: 'descricao' is missing." {
		t.Errorf("error message = %q", got)
	}

	tx := store.inserted[0]
	if tx.Type != domain.TypeIncome || tx.Status != domain.StatusPaid {
		t.Errorf("aliases not normalized: type=%q status=%q", tx.Type, tx.Status)
	}
	if tx.Amount != 50000 {
		t.Errorf("Amount = %v, want 50000", tx.Amount)
	}
}

func TestIngest_AllRowsValid(t *testing.T) {
	csv := "type,description,amount,payment_date,status\n" +
		"income,Salary,1000,2024-05-01,paid\n" +
		"expense,Rent,500,2024-05-02,pending\n"

	store := &mockInserter{}
	result, err := newTestPipeline(store).Ingest(context.Background(), "data.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if result.Status() != StatusImported {
		t.Errorf("Status = %v, want StatusImported", result.Status())
	}
	if result.Imported != 2 || len(result.Errors) != 0 {
		t.Errorf("Imported = %d, Errors = %v", result.Imported, result.Errors)
	}
}

func TestIngest_HeaderOnly(t *testing.T) {
	csv := "type,description,amount,payment_date,status\n"

	result, err := newTestPipeline(&mockInserter{}).Ingest(context.Background(), "data.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Status() != StatusEmpty {
		t.Errorf("Status = %v, want StatusEmpty", result.Status())
	}
}

func TestIngest_MissingColumns(t *testing.T) {
	csv := "type,description\nincome,Salary\n"

	_, err := newTestPipeline(&mockInserter{}).Ingest(context.Background(), "data.csv", []byte(csv))

	var colErr *MissingColumnsError
	if !errors.As(err, &colErr) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	want := []string{"amount", "payment_date", "status"}
	if len(colErr.Missing) != len(want) {
		t.Fatalf("Missing = %v, want %v", colErr.Missing, want)
	}
	for i, f := range want {
		if colErr.Missing[i] != f {
			t.Errorf("Missing[%d] = %q, want %q", i, colErr.Missing[i], f)
		}
	}
}

func TestIngest_InvalidRowsCollected(t *testing.T) {
	csv := "type,description,amount,payment_date,status\n" +
		"transfer,Move,100,2024-05-01,paid\n" +
		"income,Salary,abc,2024-05-01,paid\n" +
		"income,Salary,100,someday,paid\n" +
		"income,Salary,100,2024-05-01,done\n"

	result, err := newTestPipeline(&mockInserter{}).Ingest(context.Background(), "data.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if result.Status() != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", result.Status())
	}
	wantMsgs := []string{
		"Row 2: Invalid 'type': transfer. Must be 'income' or 'expense'.",
		"Row 3: 'amount' (abc) is not a valid number.",
		"Row 4: 'payment_date' (someday) is not a valid date.",
		"Row 5: Invalid 'status': done. Must be 'paid', 'pending' or 'scheduled'.",
	}
	got := result.ErrorMessages()
	if len(got) != len(wantMsgs) {
		t.Fatalf("ErrorMessages = %v", got)
	}
	for i := range wantMsgs {
		if got[i] != wantMsgs[i] {
			t.Errorf("ErrorMessages[%d] = %q, want %q", i, got[i], wantMsgs[i])
		}
	}
}

func TestIngest_StoreFailureIsRowError(t *testing.T) {
	csv := "type,description,amount,payment_date,status\n" +
		"income,Salary,1000,2024-05-01,paid\n"

	store := &mockInserter{failWith: errors.New("connection reset")}
	result, err := newTestPipeline(store).Ingest(context.Background(), "data.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if result.Imported != 0 || len(result.Errors) != 1 {
		t.Fatalf("Imported = %d, Errors = %v", result.Imported, result.Errors)
	}
	if result.Status() != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", result.Status())
	}
}

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"iso", "2024-05-10", time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), false},
		{"day first", "10/05/2024", time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), false},
		// Excel serial for 2024-05-10 in the 1900 date system.
		{"excel serial", "45422", time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "soon", time.Time{}, true},
		{"negative serial", "-5", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCellDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCellDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseCellDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
