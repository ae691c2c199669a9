package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteTables writes each table to <dir>/<prefix>_<name>.csv and returns the paths written.
func WriteTables(dir, prefix string, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		name := t.Name + ".csv"
		if prefix != "" {
			name = prefix + "_" + name
		}
		path := filepath.Join(dir, name)
		if err := writeCSVFile(path, t); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, t)
}

// WriteCSV writes the table header followed by one record per row.
// Missing keys are written as empty cells.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return err
	}

	for i := range t.Rows {
		if err := writer.Write(t.Record(i, formatCell)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
