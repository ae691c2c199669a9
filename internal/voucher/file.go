package voucher

import (
	"fmt"
	"io"
	"strings"

	"github.com/andresuchdata/inventory-health/internal/sheet"
	"github.com/spf13/cast"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

var (
	itemHeaders    = []string{"sku", "item", "itemname", "name", "particulars", "stockitem"}
	voucherHeaders = []string{"vouchertype", "voucher", "category", "type"}
)

// LoadFile reads a two-column side file (item, voucher type) in csv or xlsx format.
func LoadFile(path string) (Lookup, error) {
	rows, err := sheet.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher mapping: %w", err)
	}
	return fromRows(rows), nil
}

// Load reads a side file from r; filename selects the format.
func Load(r io.Reader, filename string) (Lookup, error) {
	rows, err := sheet.Read(r, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher mapping: %w", err)
	}
	return fromRows(rows), nil
}

// fromRows uses a header row when one names the columns, otherwise the
// first two columns.
func fromRows(rows [][]any) Lookup {
	l := make(Lookup)
	if len(rows) == 0 {
		return l
	}

	itemIdx, typeIdx, start := 0, 1, 0
	header := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = normalizeColumnName(cellText(c))
	}
	if i := indexOf(header, itemHeaders); i >= 0 {
		itemIdx, typeIdx, start = i, i+1, 1
		if j := indexOf(header, voucherHeaders); j >= 0 {
			typeIdx = j
		}
	}

	for _, row := range rows[start:] {
		if itemIdx >= len(row) || typeIdx >= len(row) {
			continue
		}
		l.Set(cellText(row[itemIdx]), cellText(row[typeIdx]))
	}
	return l
}

func indexOf(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func cellText(c any) string {
	return strings.TrimSpace(cast.ToString(c))
}
