// Package sheet loads uploaded spreadsheet exports as rows of untyped cells.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for extensions the reader cannot parse
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnreadable is returned when the content does not parse as its extension says
	ErrUnreadable = errors.New("unreadable spreadsheet")
)

// Supported reports whether the filename has a readable extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".csv":
		return true
	}
	return false
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read parses r according to the extension of filename. For workbooks only the
// first sheet is read. Blank cells come back as nil.
func Read(r io.Reader, filename string) ([][]any, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx":
		return readXLSX(r, filename)
	case ".csv":
		return readCSV(r, filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func readXLSX(r io.Reader, name string) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open xlsx file %s: %v", ErrUnreadable, name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", name)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var table [][]any
	for rows.Next() {
		record, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", name, err)
		}
		table = append(table, toCells(record))
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", name, err)
	}

	return table, nil
}

func readCSV(r io.Reader, name string) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var table [][]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read csv %s: %v", ErrUnreadable, name, err)
		}
		if len(table) == 0 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}
		table = append(table, toCells(record))
	}
	return table, nil
}

func toCells(record []string) []any {
	cells := make([]any, len(record))
	for i, v := range record {
		if strings.TrimSpace(v) == "" {
			continue
		}
		cells[i] = v
	}
	return cells
}
