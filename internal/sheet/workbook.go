package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook is a Source backed by one sheet of an .xlsx file.
type Workbook struct {
	path  string
	sheet string
	mu    sync.Mutex
}

// NewWorkbook returns a Workbook for path. An empty sheet selects the first sheet.
func NewWorkbook(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

// Read loads the sheet. A workbook that does not exist yet reads as an empty table.
func (w *Workbook) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name, err := w.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	records, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return NewTable(records), nil
}

// Append writes row below the last used row, creating the file and header as needed.
func (w *Workbook) Append(ctx context.Context, header, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f = excelize.NewFile()
		if w.sheet != "" {
			if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
				return fmt.Errorf("name sheet: %w", err)
			}
		}
	case err != nil:
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := w.sheet
	if name == "" {
		name = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	existing, err := f.GetRows(name)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", name, err)
	}

	next := len(existing) + 1
	if len(existing) == 0 {
		if err := writeRow(f, name, 1, header); err != nil {
			return err
		}
		next = 2
	}
	if err := writeRow(f, name, next, row); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) resolveSheet(f *excelize.File) (string, error) {
	if w.sheet == "" {
		return f.GetSheetName(0), nil
	}
	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("sheet %q not found", w.sheet)
	}
	return w.sheet, nil
}

func writeRow(f *excelize.File, sheetName string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
