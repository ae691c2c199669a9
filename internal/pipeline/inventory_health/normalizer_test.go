package inventory_health

import (
	"errors"
	"testing"
)

func TestNormalizeStandardLayout(t *testing.T) {
	table := ledgerTable(
		ledgerRow("Item A", 10, 5, 4, 6, 3, 9, 11, 5),
		ledgerRow("  Item B ", 0, 0, 2, 8, 0, 0, 2, 8),
		ledgerRow("Grand Total", 10, 0, 6, 0, 3, 0, 13, 0),
	)

	records, stats, err := Normalize(table, 2, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if stats.Layout != LayoutStandard {
		t.Errorf("layout = %q, want %q", stats.Layout, LayoutStandard)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if stats.GrandTotalRows != 1 {
		t.Errorf("GrandTotalRows = %d, want 1", stats.GrandTotalRows)
	}

	a := records[0]
	if a.SKU != "Item A" || a.OpenQuantity != 10 || a.OpenValue != 50 || a.InRate != 6 || a.OutQuantity != 3 || a.CloseValue != 55 {
		t.Errorf("unexpected record %+v", a)
	}
	if records[1].SKU != "Item B" {
		t.Errorf("SKU not trimmed: %q", records[1].SKU)
	}
	if a.VoucherType != "" {
		t.Errorf("voucher type set without a lookup: %q", a.VoucherType)
	}
}

func TestNormalizeIndexedLayout(t *testing.T) {
	table := RawTable{
		{"Sl", "Particulars", "Opening", nil, nil, "Inwards", nil, nil, "Outwards", nil, nil, "Closing", nil, nil},
		{nil, nil, "Quantity", "Rate", "Value", "Quantity", "Rate", "Value", "Quantity", "Rate", "Value", "Quantity", "Rate", "Value"},
		append([]any{1.0}, ledgerRow("Item A", 1, 2, 3, 4, 5, 6, 7, 8)...),
		append([]any{2.0}, ledgerRow("Item B", 1, 1, 1, 1, 1, 1, 1, 1)...),
	}

	records, stats, err := Normalize(table, 1, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if stats.Layout != LayoutIndexed {
		t.Errorf("layout = %q, want %q", stats.Layout, LayoutIndexed)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].SKU != "Item A" || records[0].OpenQuantity != 1 || records[0].CloseRate != 8 {
		t.Errorf("extra column not discarded: %+v", records[0])
	}
}

func TestNormalizeIndexedExtraColumnPosition(t *testing.T) {
	// discarded column at the end of the row
	row := append(ledgerRow("Item A", 1, 2, 3, 4, 5, 6, 7, 8), "note")
	table := RawTable{{"Quantity"}, row}

	records, _, err := Normalize(table, 0, Options{Layout: LayoutIndexed, ExtraColumn: 13})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 1 || records[0].SKU != "Item A" || records[0].CloseValue != 56 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestNormalizeSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		opts Options
		want error
	}{
		{
			name: "too many columns",
			row:  append(append([]any{1.0}, ledgerRow("A", 1, 1, 1, 1, 1, 1, 1, 1)...), "x"),
			want: ErrMalformedInput,
		},
		{
			name: "too few columns",
			row:  []any{"A", 1.0, 2.0},
			want: ErrMalformedInput,
		},
		{
			name: "standard forced on indexed data",
			row:  append([]any{1.0}, ledgerRow("A", 1, 1, 1, 1, 1, 1, 1, 1)...),
			opts: Options{Layout: LayoutStandard},
			want: ErrMalformedInput,
		},
		{
			name: "extra column out of range",
			row:  append([]any{1.0}, ledgerRow("A", 1, 1, 1, 1, 1, 1, 1, 1)...),
			opts: Options{Layout: LayoutIndexed, ExtraColumn: 14},
			want: ErrInvalidParameter,
		},
		{
			name: "unknown layout",
			row:  ledgerRow("A", 1, 1, 1, 1, 1, 1, 1, 1),
			opts: Options{Layout: "wide"},
			want: ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := RawTable{{"Quantity"}, tt.row}
			_, _, err := Normalize(table, 0, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNormalizeDropsNoise(t *testing.T) {
	table := ledgerTable(
		ledgerRow("Item A", 1, 1, 1, 1, 1, 1, 1, 1),
		[]any{nil, "", "  "},
		ledgerRow("", 1, 1, 1, 1, 1, 1, 1, 1),
		ledgerRow("Item A", 9, 9, 9, 9, 9, 9, 9, 9),
		ledgerRow("Item C", 2, 2, 2, 2, 2, 2, 2, 2),
	)

	records, stats, err := Normalize(table, 2, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].OpenQuantity != 1 {
		t.Errorf("first occurrence of a duplicate SKU should win, got %+v", records[0])
	}
	if stats.DataRows != 5 || stats.EmptyRows != 1 || stats.BlankSKURows != 1 || stats.DuplicateSKUs != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestNormalizeStrictZeroFilter(t *testing.T) {
	valueOnly := []any{"Adjustment", 0.0, 0.0, 100.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 100.0}
	table := ledgerTable(
		ledgerRow("Item A", 1, 1, 1, 1, 1, 1, 1, 1),
		valueOnly,
	)

	records, _, err := Normalize(table, 2, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("filter should be off by default, got %d records", len(records))
	}

	records, stats, err := Normalize(table, 2, Options{StrictZeroFilter: true})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 1 || records[0].SKU != "Item A" {
		t.Errorf("unexpected records %+v", records)
	}
	if stats.ValueOnlyRows != 1 {
		t.Errorf("ValueOnlyRows = %d, want 1", stats.ValueOnlyRows)
	}
}

func TestNormalizeVoucherEnrichment(t *testing.T) {
	table := ledgerTable(
		ledgerRow("Item A", 1, 1, 1, 1, 1, 1, 1, 1),
		ledgerRow("Item B", 1, 1, 1, 1, 1, 1, 1, 1),
	)

	records, _, err := Normalize(table, 2, Options{Vouchers: mapVouchers{"Item A": "Finished Goods"}})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if records[0].VoucherType != "Finished Goods" {
		t.Errorf("VoucherType = %q, want Finished Goods", records[0].VoucherType)
	}
	if records[1].VoucherType != UnknownVoucherType {
		t.Errorf("VoucherType = %q, want %q", records[1].VoucherType, UnknownVoucherType)
	}
}

func TestNormalizeHeaderOutOfRange(t *testing.T) {
	_, _, err := Normalize(ledgerTable(), 7, Options{})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{"", 0},
		{"12.5", 12.5},
		{" 1,234.50 ", 1234.5},
		{"120 Nos", 120},
		{"1 234", 1234},
		{"-7", -7},
		{"abc", 0},
		{"NaN", 0},
		{3.25, 3.25},
		{4, 4},
		{int64(9), 9},
	}
	for _, tt := range tests {
		if got := toFloat(tt.in); got != tt.want {
			t.Errorf("toFloat(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
