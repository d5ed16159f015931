package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// File-level failures abort the whole upload.
var (
	ErrUnsupportedFileType = errors.New("file type not allowed, upload CSV or XLSX")
	ErrEmptyFile           = errors.New("the uploaded file is empty")
)

// MissingColumnsError reports required columns absent from the file header.
// OriginalHeader keeps the pre-normalization names for diagnosis.
type MissingColumnsError struct {
	Missing        []string
	OriginalHeader []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns after normalization: %s (original columns: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.OriginalHeader, ", "))
}

// Table is a parsed upload: the raw header plus data rows. Rows may be ragged;
// use cell for bounds-checked access.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t *Table) cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ParseFile parses an uploaded tabular file based on its extension.
func ParseFile(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	default:
		return nil, ErrUnsupportedFileType
	}
}

// parseCSV reads the file as UTF-8 and falls back to Windows-1252 when the
// bytes are not valid UTF-8, which covers the common legacy-export case.
func parseCSV(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding csv: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// parseXLSX reads the first sheet of a workbook.
func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// normalizeColumn lower-cases a header cell and collapses spaces and hyphens
// to underscores, so "Data de Pagamento" and "data-de-pagamento" both become
// "data_de_pagamento".
func normalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
