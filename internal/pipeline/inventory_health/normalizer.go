package inventory_health

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ledgerColumns is the positional schema of the data region (SKU + 12 numbers)
var ledgerColumns = []string{
	"sku",
	"open_quantity", "open_rate", "open_value",
	"in_quantity", "in_rate", "in_value",
	"out_quantity", "out_rate", "out_value",
	"close_quantity", "close_rate", "close_value",
}

var numberSanitizer = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

// Normalize turns the rows after headerIdx into InventoryRecords. Columns are
// bound by position; the header text itself is ignored.
func Normalize(table RawTable, headerIdx int, opts Options) ([]InventoryRecord, NormalizeStats, error) {
	stats := NormalizeStats{}
	if headerIdx < 0 || headerIdx >= len(table) {
		return nil, stats, fmt.Errorf("%w: header row %d outside table of %d rows", ErrMalformedInput, headerIdx, len(table))
	}

	data := table[headerIdx+1:]
	stats.DataRows = len(data)

	// the header row spans the full ledger even when trailing data cells are blank
	width := trimmedWidth(table[headerIdx])
	for _, row := range data {
		if n := trimmedWidth(row); n > width {
			width = n
		}
	}

	layout, extra, err := bindLayout(width, opts)
	if err != nil {
		return nil, stats, err
	}
	stats.Layout = layout

	records := make([]InventoryRecord, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	cells := make([]any, width)

	for _, row := range data {
		for i := range cells {
			cells[i] = nil
			if i < len(row) {
				cells[i] = row[i]
			}
		}

		if isEmptyRow(cells) {
			stats.EmptyRows++
			continue
		}

		fields := cells
		if extra >= 0 {
			fields = make([]any, 0, len(ledgerColumns))
			fields = append(fields, cells[:extra]...)
			fields = append(fields, cells[extra+1:]...)
		}

		rec := toRecord(fields)
		if rec.SKU == GrandTotalLabel {
			stats.GrandTotalRows++
			continue
		}
		if rec.SKU == "" {
			stats.BlankSKURows++
			continue
		}
		if opts.StrictZeroFilter && isValueOnly(rec) {
			stats.ValueOnlyRows++
			continue
		}
		if _, dup := seen[rec.SKU]; dup {
			stats.DuplicateSKUs++
			continue
		}
		seen[rec.SKU] = struct{}{}

		if opts.Vouchers != nil {
			rec.VoucherType = opts.Vouchers.VoucherType(rec.SKU)
			if rec.VoucherType == "" {
				rec.VoucherType = UnknownVoucherType
			}
		}

		records = append(records, rec)
	}

	return records, stats, nil
}

// bindLayout validates the data region width against the known layouts and
// returns the position of the column to discard (-1 for none).
func bindLayout(width int, opts Options) (Layout, int, error) {
	standard := len(ledgerColumns)
	layout := opts.Layout
	if layout == "" || layout == LayoutAuto {
		switch width {
		case 0, standard:
			layout = LayoutStandard
		case standard + 1:
			layout = LayoutIndexed
		default:
			return "", -1, fmt.Errorf("%w: data region has %d columns, expected %d or %d", ErrMalformedInput, width, standard, standard+1)
		}
	}

	switch layout {
	case LayoutStandard:
		if width != 0 && width != standard {
			return "", -1, fmt.Errorf("%w: data region has %d columns, standard layout needs %d", ErrMalformedInput, width, standard)
		}
		return layout, -1, nil
	case LayoutIndexed:
		if opts.ExtraColumn < 0 || opts.ExtraColumn > standard {
			return "", -1, fmt.Errorf("%w: extra column %d outside 0..%d", ErrInvalidParameter, opts.ExtraColumn, standard)
		}
		if width != 0 && width != standard+1 {
			return "", -1, fmt.Errorf("%w: data region has %d columns, indexed layout needs %d", ErrMalformedInput, width, standard+1)
		}
		if width == 0 {
			return layout, -1, nil
		}
		return layout, opts.ExtraColumn, nil
	default:
		return "", -1, fmt.Errorf("%w: unknown layout %q", ErrInvalidParameter, layout)
	}
}

func toRecord(f []any) InventoryRecord {
	return InventoryRecord{
		SKU:           strings.TrimSpace(cast.ToString(f[0])),
		OpenQuantity:  toFloat(f[1]),
		OpenRate:      toFloat(f[2]),
		OpenValue:     toFloat(f[3]),
		InQuantity:    toFloat(f[4]),
		InRate:        toFloat(f[5]),
		InValue:       toFloat(f[6]),
		OutQuantity:   toFloat(f[7]),
		OutRate:       toFloat(f[8]),
		OutValue:      toFloat(f[9]),
		CloseQuantity: toFloat(f[10]),
		CloseRate:     toFloat(f[11]),
		CloseValue:    toFloat(f[12]),
	}
}

// toFloat coerces a cell to a number. Missing or unparseable cells are 0.
// A trailing unit ("120 Nos") is tolerated.
func toFloat(cell any) float64 {
	var (
		f   float64
		err error
	)
	switch v := cell.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(v)
		if parts := strings.Fields(s); len(parts) == 2 && !strings.ContainsAny(parts[1], "0123456789") {
			s = parts[0]
		}
		s = numberSanitizer.Replace(s)
		if s == "" {
			return 0
		}
		f, err = cast.ToFloat64E(s)
	default:
		f, err = cast.ToFloat64E(v)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// isValueOnly reports rows with no quantity or rate but some value: ledger noise.
func isValueOnly(r InventoryRecord) bool {
	qtyAndRates := []float64{
		r.OpenQuantity, r.OpenRate, r.InQuantity, r.InRate,
		r.OutQuantity, r.OutRate, r.CloseQuantity, r.CloseRate,
	}
	for _, v := range qtyAndRates {
		if v != 0 {
			return false
		}
	}
	return r.OpenValue != 0 || r.InValue != 0 || r.OutValue != 0 || r.CloseValue != 0
}

func isBlank(cell any) bool {
	if cell == nil {
		return true
	}
	if s, ok := cell.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func isEmptyRow(cells []any) bool {
	for _, c := range cells {
		if !isBlank(c) {
			return false
		}
	}
	return true
}

// trimmedWidth ignores trailing blank cells, which spreadsheet readers pad inconsistently.
func trimmedWidth(row []any) int {
	n := len(row)
	for n > 0 && isBlank(row[n-1]) {
		n--
	}
	return n
}
