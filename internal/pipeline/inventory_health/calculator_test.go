package inventory_health

import (
	"errors"
	"math"
	"testing"
)

func TestMetricCalculator(t *testing.T) {
	mc, err := NewMetricCalculator(30, 5)
	if err != nil {
		t.Fatalf("NewMetricCalculator() error = %v", err)
	}

	tests := []struct {
		name         string
		in           InventoryRecord
		wantAvg      float64
		wantDays     int
		wantReorder  float64
		wantQuantity float64
	}{
		{
			name:         "selling item",
			in:           InventoryRecord{SKU: "Y", OutQuantity: 60, CloseQuantity: 90},
			wantAvg:      2,
			wantDays:     45,
			wantReorder:  15,
			wantQuantity: 60,
		},
		{
			name:         "days of stock floors",
			in:           InventoryRecord{SKU: "F", OutQuantity: 90, CloseQuantity: 10},
			wantAvg:      3,
			wantDays:     3,
			wantReorder:  22.5,
			wantQuantity: 90,
		},
		{
			name:         "no sales",
			in:           InventoryRecord{SKU: "X", OpenQuantity: 100, CloseQuantity: 100},
			wantAvg:      0,
			wantDays:     NoSalesDaysOfStock,
			wantReorder:  NoSalesReorderPoint,
			wantQuantity: 0,
		},
		{
			name:         "negative closing stock floors toward minus infinity",
			in:           InventoryRecord{SKU: "N", OutQuantity: 30, CloseQuantity: -2.5},
			wantAvg:      1,
			wantDays:     -3,
			wantReorder:  7.5,
			wantQuantity: 30,
		},
		{
			name:         "sales returns give negative velocity",
			in:           InventoryRecord{SKU: "R", OutQuantity: -30, CloseQuantity: 10},
			wantAvg:      -1,
			wantDays:     -10,
			wantReorder:  -7.5,
			wantQuantity: -30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mc.Calculate(tt.in)
			if got.AverageSales != tt.wantAvg {
				t.Errorf("AverageSales = %v, want %v", got.AverageSales, tt.wantAvg)
			}
			if got.DaysOfStock != tt.wantDays {
				t.Errorf("DaysOfStock = %v, want %v", got.DaysOfStock, tt.wantDays)
			}
			if got.ReorderPoint != tt.wantReorder {
				t.Errorf("ReorderPoint = %v, want %v", got.ReorderPoint, tt.wantReorder)
			}
			if got.QuantityToReorder != tt.wantQuantity {
				t.Errorf("QuantityToReorder = %v, want %v", got.QuantityToReorder, tt.wantQuantity)
			}
			if got.SKU != tt.in.SKU || got.CloseQuantity != tt.in.CloseQuantity {
				t.Errorf("source fields changed: %+v", got)
			}
		})
	}
}

func TestNewMetricCalculatorRejectsNonPositive(t *testing.T) {
	for _, args := range [][2]int{{0, 5}, {-1, 5}, {30, 0}, {30, -2}} {
		if _, err := NewMetricCalculator(args[0], args[1]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewMetricCalculator(%d, %d) error = %v, want ErrInvalidParameter", args[0], args[1], err)
		}
	}
}

func TestDeriveMetricsDoesNotModifyInput(t *testing.T) {
	in := []InventoryRecord{{SKU: "A", OutQuantity: 10, CloseQuantity: 5}}

	out, err := DeriveMetrics(in, 10, 2)
	if err != nil {
		t.Fatalf("DeriveMetrics() error = %v", err)
	}
	if in[0].AverageSales != 0 || in[0].DaysOfStock != 0 {
		t.Errorf("input modified: %+v", in[0])
	}
	if out[0].AverageSales != 1 || out[0].DaysOfStock != 5 || out[0].ReorderPoint != 3 {
		t.Errorf("unexpected output %+v", out[0])
	}
}

func TestFloorDays(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{7.9, 7},
		{-2.5, -3},
		{0, 0},
		{1e21, math.MaxInt},
		{math.Inf(1), math.MaxInt},
		{-1e300, math.MinInt},
	}
	for _, tt := range tests {
		if got := floorDays(tt.in); got != tt.want {
			t.Errorf("floorDays(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
