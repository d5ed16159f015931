package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/domain"
	"github.com/luandafin/finance-dashboard/internal/ingest"
)

type countingInserter struct {
	inserted int
}

func (c *countingInserter) InsertTransaction(ctx context.Context, tx *domain.Transaction) (string, error) {
	c.inserted++
	return "id", nil
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload_transactions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newUploadHandler(store ingest.TransactionInserter) *UploadHandler {
	return NewUploadHandler(ingest.New(store, zerolog.Nop()), zerolog.Nop())
}

func TestUpload_AllRowsImported(t *testing.T) {
	store := &countingInserter{}
	h := newUploadHandler(store)

	csv := "type,description,amount,payment_date,status\n" +
		"income,Salary,1000,2024-05-01,paid\n" +
		"expense,Rent,500,2024-05-02,pending\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "data.csv", csv))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["message"] != "2 transactions imported successfully." {
		t.Errorf("message = %v", resp["message"])
	}
	if store.inserted != 2 {
		t.Errorf("inserted = %d, want 2", store.inserted)
	}
}

func TestUpload_PartialImportReturns207(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	csv := "tipo,descricao,valor,data_de_pagamento,status\n" +
		"receita,Venda,50000,2024-05-10,pago\n" +
		"despesa,,1000,2024-05-11,pago\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "extrato.csv", csv))

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "1 transactions imported successfully." {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Errors) != 1 || resp.Errors[0] != "Row 3: 'descricao' is missing." {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestUpload_AllRowsFailReturns400(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	csv := "type,description,amount,payment_date,status\n" +
		"transfer,Move,abc,someday,done\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "data.csv", csv))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "Failed to import any transactions. See errors." {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestUpload_HeaderOnlyReturns200(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	csv := "type,description,amount,payment_date,status\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "data.csv", csv))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No transactions found or processed in the file.") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "data.pdf", "whatever"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "File type not allowed. Please upload CSV or XLSX.") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpload_MissingColumns(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	csv := "type,description\nincome,Salary\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "transaction_file", "data.csv", csv))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing required columns") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpload_MissingFilePart(t *testing.T) {
	h := newUploadHandler(&countingInserter{})

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "wrong_field", "data.csv", "a,b\n"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No file part in the request") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
