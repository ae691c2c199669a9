package inventory_health

import (
	"fmt"
	"math"
)

// MetricCalculator derives sales velocity and stock cover for ledger records
type MetricCalculator struct {
	numDays  int
	leadTime int
}

// NewMetricCalculator validates the window and lead time up front.
func NewMetricCalculator(numDays, leadTime int) (*MetricCalculator, error) {
	if numDays <= 0 {
		return nil, fmt.Errorf("%w: num_days must be > 0, got %d", ErrInvalidParameter, numDays)
	}
	if leadTime <= 0 {
		return nil, fmt.Errorf("%w: lead_time must be > 0, got %d", ErrInvalidParameter, leadTime)
	}
	return &MetricCalculator{numDays: numDays, leadTime: leadTime}, nil
}

// Calculate fills the derived fields of a copy of r, in dependency order.
func (mc *MetricCalculator) Calculate(r InventoryRecord) InventoryRecord {
	days := float64(mc.numDays)

	// 1. Average daily sales over the reporting window
	r.AverageSales = r.OutQuantity / days

	// 2. Days of stock, floored; -1 when nothing sold
	// 3. Reorder point = average sales × lead time × safety factor; -1 when nothing sold
	if r.AverageSales != 0 {
		r.DaysOfStock = floorDays(r.CloseQuantity / r.AverageSales)
		r.ReorderPoint = r.AverageSales * float64(mc.leadTime) * ReorderSafetyFactor
	} else {
		r.DaysOfStock = NoSalesDaysOfStock
		r.ReorderPoint = NoSalesReorderPoint
	}

	// 4. Quantity to cover a full window at the current rate
	r.QuantityToReorder = days * r.AverageSales

	return r
}

// DeriveMetrics returns a new slice with the derived fields filled. The input is not modified.
func DeriveMetrics(records []InventoryRecord, numDays, leadTime int) ([]InventoryRecord, error) {
	mc, err := NewMetricCalculator(numDays, leadTime)
	if err != nil {
		return nil, err
	}

	out := make([]InventoryRecord, len(records))
	for i, r := range records {
		out[i] = mc.Calculate(r)
	}
	return out, nil
}

// floorDays floors x into an int, saturating at the int range so that a huge
// positive cover never wraps around to a negative value.
func floorDays(x float64) int {
	f := math.Floor(x)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// checkDerived rejects records whose derived values overflow float64.
func checkDerived(records []InventoryRecord, over []OverstockRecord) error {
	for _, r := range records {
		if !finite(r.AverageSales) || !finite(r.ReorderPoint) || !finite(r.QuantityToReorder) {
			return fmt.Errorf("%w: derived metrics of %q are out of range", ErrMalformedInput, r.SKU)
		}
	}
	for _, r := range over {
		if !finite(r.ExcessStockValue) || !finite(r.IdealStockValue) {
			return fmt.Errorf("%w: overstock value of %q is out of range", ErrMalformedInput, r.SKU)
		}
	}
	return nil
}

// checkAggregates rejects rollups that overflow float64 once summed.
func checkAggregates(agg Aggregates) error {
	values := map[string]float64{
		"total_sales":                  agg.TotalSales,
		"total_purchases":              agg.TotalPurchases,
		"total_opening_stock_value":    agg.TotalOpeningStockValue,
		"total_closing_stock_value":    agg.TotalClosingStockValue,
		"unsold_stock_value":           agg.UnsoldStockValue,
		"excess_stock_value":           agg.ExcessStockValue,
		"overstocked_items_percentage": agg.OverstockedItemsPercentage,
		"excess_stock_percentage":      agg.ExcessStockPercentage,
	}
	if agg.StockTurnoverRatio != nil {
		values["stock_turnover_ratio"] = *agg.StockTurnoverRatio
	}
	for name, v := range values {
		if !finite(v) {
			return fmt.Errorf("%w: %s is out of range", ErrMalformedInput, name)
		}
	}
	return nil
}
