package inventory_health

import (
	"errors"
	"math"
	"strings"
	"testing"
)

var defaultParams = Params{LeadTime: 5, DaysStockToMaintain: 30, NumDays: 30}

func TestAnalyzeScenarios(t *testing.T) {
	table := ledgerTable(
		ledgerRow("X", 100, 10, 0, 0, 0, 0, 100, 10),
		ledgerRow("Y", 30, 5, 120, 4, 60, 6, 90, 4),
		ledgerRow("Grand Total", 130, 0, 120, 0, 60, 0, 190, 0),
	)

	res, err := Analyze(table, defaultParams, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.HeaderRow != 2 {
		t.Errorf("HeaderRow = %d, want 2", res.HeaderRow)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}

	x, y := res.Records[0], res.Records[1]
	if x.AverageSales != 0 || x.DaysOfStock != -1 || x.ReorderPoint != -1 {
		t.Errorf("unexpected metrics for X: %+v", x)
	}
	if y.AverageSales != 2 || y.DaysOfStock != 45 {
		t.Errorf("unexpected metrics for Y: %+v", y)
	}

	b := res.Buckets
	if len(b.Overstock) != 1 || b.Overstock[0].SKU != "Y" {
		t.Errorf("Overstock = %+v", b.Overstock)
	}
	if b.Overstock[0].ExcessStockValue != 120 {
		t.Errorf("ExcessStockValue = %v, want 120", b.Overstock[0].ExcessStockValue)
	}
	if len(b.Understock) != 0 {
		t.Errorf("Understock = %+v", b.Understock)
	}
	if len(b.NegativeStock) != 1 || b.NegativeStock[0].SKU != "X" {
		t.Errorf("NegativeStock = %+v", b.NegativeStock)
	}
	if len(b.UnsoldStock) != 1 || b.UnsoldStock[0].SKU != "X" {
		t.Errorf("UnsoldStock = %+v", b.UnsoldStock)
	}

	if res.Aggregates.TotalSKUs != 2 || res.Aggregates.TotalSales != 360 {
		t.Errorf("unexpected aggregates %+v", res.Aggregates)
	}
	if res.Aggregates.StockTurnoverRatio == nil {
		t.Error("StockTurnoverRatio should be defined")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "1 records without sales") {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}

func TestAnalyzeUnderstockBoundary(t *testing.T) {
	// 30 day window, 30 sold: one per day, so closing quantity is days of stock
	table := ledgerTable(
		ledgerRow("D7", 0, 0, 0, 0, 30, 1, 7, 1),
		ledgerRow("D8", 0, 0, 0, 0, 30, 1, 8, 1),
	)

	res, err := Analyze(table, defaultParams, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Buckets.Understock) != 1 || res.Buckets.Understock[0].SKU != "D7" {
		t.Errorf("Understock = %+v", res.Buckets.Understock)
	}
	if len(res.Buckets.Overstock) != 0 {
		t.Errorf("Overstock = %+v", res.Buckets.Overstock)
	}
}

func TestAnalyzeUndefinedTurnover(t *testing.T) {
	table := ledgerTable(ledgerRow("A", 5, 0, 0, 0, 3, 0, 2, 0))

	res, err := Analyze(table, defaultParams, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Aggregates.StockTurnoverRatio != nil {
		t.Errorf("StockTurnoverRatio = %v, want nil", *res.Aggregates.StockTurnoverRatio)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], ErrUndefinedAggregate.Error()) {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}

func TestAnalyzeInvalidParameters(t *testing.T) {
	table := ledgerTable(ledgerRow("A", 1, 1, 1, 1, 1, 1, 1, 1))

	tests := []struct {
		name   string
		params Params
		opts   Options
	}{
		{"zero num days", Params{LeadTime: 5, DaysStockToMaintain: 30}, Options{}},
		{"negative lead time", Params{LeadTime: -1, DaysStockToMaintain: 30, NumDays: 30}, Options{}},
		{"zero days to maintain", Params{LeadTime: 5, NumDays: 30}, Options{}},
		{"voucher filter without lookup", defaultParams, Options{VoucherTypes: []string{"Raw"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Analyze(table, tt.params, tt.opts); !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestAnalyzeMalformedInput(t *testing.T) {
	table := RawTable{{"Particulars", "Opening", "Closing"}, {"A", 1.0, 2.0}}

	if _, err := Analyze(table, defaultParams, Options{}); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestAnalyzeVoucherFilter(t *testing.T) {
	table := ledgerTable(
		ledgerRow("X", 1, 1, 1, 1, 1, 1, 1, 1),
		ledgerRow("Y", 1, 1, 1, 1, 1, 1, 1, 1),
		ledgerRow("Z", 1, 1, 1, 1, 1, 1, 1, 1),
	)
	opts := Options{
		Vouchers:     mapVouchers{"X": "Raw Material", "Y": "Finished Goods"},
		VoucherTypes: []string{" finished goods", "UNKNOWN"},
	}

	res, err := Analyze(table, defaultParams, opts)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Records) != 2 || res.Records[0].SKU != "Y" || res.Records[1].SKU != "Z" {
		t.Errorf("Records = %+v", res.Records)
	}
	if res.Stats.VoucherFiltered != 1 {
		t.Errorf("VoucherFiltered = %d, want 1", res.Stats.VoucherFiltered)
	}
	if res.Aggregates.TotalSKUs != 2 {
		t.Errorf("TotalSKUs = %d, want 2", res.Aggregates.TotalSKUs)
	}
}

func TestParamsValidateReportsEveryField(t *testing.T) {
	err := Params{}.Validate()
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	for _, field := range []string{"num_days", "lead_time", "days_stock_to_maintain"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
}

func TestAnalyzeHugeCoverStaysOverstock(t *testing.T) {
	table := ledgerTable(ledgerRow("BIG", 0, 0, 0, 0, 0.0003, 1, 1e16, 1))

	res, err := Analyze(table, defaultParams, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := res.Records[0].DaysOfStock; got != math.MaxInt {
		t.Errorf("DaysOfStock = %d, want math.MaxInt", got)
	}
	if len(res.Buckets.Overstock) != 1 || len(res.Buckets.NegativeStock) != 0 {
		t.Errorf("overstock = %d, negative = %d; want 1, 0",
			len(res.Buckets.Overstock), len(res.Buckets.NegativeStock))
	}
}

func TestAnalyzeOverflowingValues(t *testing.T) {
	tests := map[string]RawTable{
		"excess stock value": ledgerTable(ledgerRow("HUGE", 0, 0, 0, 1e10, 3e291, 1, 1e300, 1)),
		"closing stock sum":  ledgerTable(ledgerRow("WIDE", 0, 0, 0, 0, 0, 0, 1e200, 1e200)),
	}
	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Analyze(table, defaultParams, Options{}); !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}
