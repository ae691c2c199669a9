package inventory_health

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// headerKeywords mark the sub-header row of a stock ledger (case-sensitive)
var headerKeywords = []string{"Quantity", "Rate", "Value"}

// LocateHeader returns the index of the first row where any cell, rendered as
// text, contains one of the header keywords. Data starts on the next row.
func LocateHeader(table RawTable) (int, error) {
	for i, row := range table {
		for _, cell := range row {
			text := cast.ToString(cell)
			for _, kw := range headerKeywords {
				if strings.Contains(text, kw) {
					return i, nil
				}
			}
		}
	}
	return -1, fmt.Errorf("%w: no row contains any of %v", ErrMalformedInput, headerKeywords)
}
