package inventory_health

import (
	"math"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     string
	}{
		{0, 2, "0"},
		{1000, 2, "1,000"},
		{1234.5, 2, "1,234.50"},
		{1234567.891, 2, "1,234,567.89"},
		{-9876.4, 1, "-9,876.4"},
		{-0.001, 2, "0"},
		{999.999, 2, "1,000"},
		{12.05, 2, "12.05"},
		{42.7, 0, "43"},
		{math.NaN(), 2, "-"},
		{math.Inf(1), 2, "-"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in, tt.decimals); got != tt.want {
			t.Errorf("FormatAmount(%v, %d) = %q, want %q", tt.in, tt.decimals, got, tt.want)
		}
	}
}
