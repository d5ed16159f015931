package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

// requiredFields are the canonical transaction fields every upload must carry.
var requiredFields = []string{"type", "description", "amount", "payment_date", "status"}

// columnAliases maps normalized header names to canonical fields. Legacy
// Portuguese exports are accepted alongside the canonical English headers.
var columnAliases = map[string]string{
	"type":              "type",
	"tipo":              "type",
	"description":       "description",
	"descricao":         "description",
	"amount":            "amount",
	"valor":             "amount",
	"payment_date":      "payment_date",
	"data_de_pagamento": "payment_date",
	"data_pagamento":    "payment_date",
	"status":            "status",
}

// TransactionInserter is the slice of the store the pipeline needs.
type TransactionInserter interface {
	InsertTransaction(ctx context.Context, tx *domain.Transaction) (string, error)
}

// RowError is a validation failure scoped to one input row. Row is the
// 1-indexed row number in the source file, counting the header.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// Result aggregates a batch import.
type Result struct {
	Imported int
	Errors   []RowError
}

// Status classifies the outcome of a batch.
type Status int

const (
	// StatusImported: every data row imported.
	StatusImported Status = iota
	// StatusPartial: some rows imported, some failed.
	StatusPartial
	// StatusFailed: rows were present but none imported.
	StatusFailed
	// StatusEmpty: the file parsed but contained no data rows.
	StatusEmpty
)

func (r *Result) Status() Status {
	switch {
	case r.Imported > 0 && len(r.Errors) > 0:
		return StatusPartial
	case r.Imported == 0 && len(r.Errors) > 0:
		return StatusFailed
	case r.Imported == 0:
		return StatusEmpty
	default:
		return StatusImported
	}
}

// ErrorMessages renders the row errors for a response body.
func (r *Result) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return msgs
}

// Pipeline validates uploaded tabular files row by row and inserts the valid
// rows. Row-level failures never abort the batch.
type Pipeline struct {
	store TransactionInserter
	log   zerolog.Logger
}

func New(store TransactionInserter, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: store, log: log}
}

// Ingest parses the file, checks the header carries all required fields and
// processes every data row independently. File-level problems (unsupported
// extension, undecodable file, missing columns) return an error; row-level
// problems are accumulated in the Result.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte) (*Result, error) {
	table, err := ParseFile(filename, data)
	if err != nil {
		return nil, err
	}

	cols, missing := resolveColumns(table.Header)
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, OriginalHeader: table.Header}
	}

	result := &Result{}
	for i, row := range table.Rows {
		// Row numbers are 1-indexed and offset past the header so they
		// match the source file.
		rowNum := i + 2

		tx, rowErr := p.buildTransaction(table, row, rowNum, cols)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		if _, err := p.store.InsertTransaction(ctx, tx); err != nil {
			p.log.Error().Err(err).Int("row", rowNum).Msg("Failed to insert imported transaction")
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: "error storing row, try again",
			})
			continue
		}
		result.Imported++
	}

	p.log.Info().
		Str("filename", filename).
		Int("imported", result.Imported).
		Int("errors", len(result.Errors)).
		Msg("Finished transaction import")

	return result, nil
}

// resolvedColumns maps each canonical field to its column index and the
// normalized header name it appeared under, so error messages cite the file's
// own column names.
type resolvedColumns struct {
	index map[string]int
	name  map[string]string
}

func resolveColumns(header []string) (*resolvedColumns, []string) {
	cols := &resolvedColumns{
		index: make(map[string]int),
		name:  make(map[string]string),
	}
	for i, h := range header {
		norm := normalizeColumn(h)
		field, ok := columnAliases[norm]
		if !ok {
			continue
		}
		if _, seen := cols.index[field]; seen {
			continue
		}
		cols.index[field] = i
		cols.name[field] = norm
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := cols.index[f]; !ok {
			missing = append(missing, f)
		}
	}
	return cols, missing
}

func (p *Pipeline) buildTransaction(table *Table, row []string, rowNum int, cols *resolvedColumns) (*domain.Transaction, *RowError) {
	get := func(field string) string {
		return table.cell(row, cols.index[field])
	}

	typ := strings.ToLower(strings.TrimSpace(get("type")))
	desc := strings.TrimSpace(get("description"))
	amountRaw := strings.TrimSpace(get("amount"))
	dateRaw := strings.TrimSpace(get("payment_date"))
	status := strings.ToLower(strings.TrimSpace(get("status")))

	if amountRaw == "" {
		return nil, missingField(rowNum, cols.name["amount"])
	}
	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil {
		return nil, &RowError{
			Row:     rowNum,
			Message: fmt.Sprintf("'%s' (%s) is not a valid number.", cols.name["amount"], amountRaw),
		}
	}

	if dateRaw == "" {
		return nil, missingField(rowNum, cols.name["payment_date"])
	}
	date, err := parseCellDate(dateRaw)
	if err != nil {
		return nil, &RowError{
			Row:     rowNum,
			Message: fmt.Sprintf("'%s' (%s) is not a valid date.", cols.name["payment_date"], dateRaw),
		}
	}

	if typ == "" {
		return nil, missingField(rowNum, cols.name["type"])
	}
	if desc == "" {
		return nil, missingField(rowNum, cols.name["description"])
	}
	if status == "" {
		return nil, missingField(rowNum, cols.name["status"])
	}

	if _, err := domain.ParseTransactionType(typ); err != nil {
		return nil, &RowError{
			Row:     rowNum,
			Message: fmt.Sprintf("Invalid '%s': %s. Must be 'income' or 'expense'.", cols.name["type"], typ),
		}
	}
	if _, err := domain.ParseTransactionStatus(status); err != nil {
		return nil, &RowError{
			Row:     rowNum,
			Message: fmt.Sprintf("Invalid '%s': %s. Must be 'paid', 'pending' or 'scheduled'.", cols.name["status"], status),
		}
	}

	tx, err := domain.NewTransaction(typ, desc, amount, date, status)
	if err != nil {
		return nil, &RowError{Row: rowNum, Message: err.Error()}
	}
	return tx, nil
}

func missingField(rowNum int, column string) *RowError {
	return &RowError{Row: rowNum, Message: fmt.Sprintf("'%s' is missing.", column)}
}

// excelEpoch is day zero of the 1900 date system used by XLSX serials.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseCellDate accepts the textual layouts plus raw Excel serial numbers,
// which excelize yields for date cells without an explicit number format.
func parseCellDate(s string) (time.Time, error) {
	if t, err := domain.ParsePaymentDate(s); err == nil {
		return t, nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return domain.DateOnly(excelEpoch.AddDate(0, 0, int(serial))), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
