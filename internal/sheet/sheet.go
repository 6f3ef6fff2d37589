// Package sheet provides the tabular data sources a question bank can live in.
package sheet

import (
	"context"
	"errors"
	"strings"
)

// ErrReadOnly is returned by sources that cannot accept new rows.
var ErrReadOnly = errors.New("source is read-only")

// Table is the raw content of a source: one header row and the data rows below it.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source is a spreadsheet-like store that can be read whole and appended to.
type Source interface {
	// Read returns the full current content of the source.
	Read(ctx context.Context) (*Table, error)
	// Append writes one row whose cells are aligned to header. Sources with no header
	// row yet write header first.
	Append(ctx context.Context, header, row []string) error
}

// NewTable splits records into header and rows, dropping blank rows and padding short
// rows to the header width.
func NewTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	t := &Table{Header: records[0]}
	width := len(t.Header)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
