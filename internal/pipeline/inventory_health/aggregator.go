package inventory_health

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Aggregate computes the scalar rollups over the record set and its buckets.
// An undefined turnover ratio is left nil; use StockTurnoverRatio for the error.
func Aggregate(records []InventoryRecord, b Buckets) Aggregates {
	agg := Aggregates{
		TotalSKUs:              len(records),
		OverstockCount:         len(b.Overstock),
		UnderstockCount:        len(b.Understock),
		NegativeStockCount:     len(b.NegativeStock),
		UnsoldStockCount:       len(b.UnsoldStock),
		TotalSales:             sumProducts(records, func(r InventoryRecord) (float64, float64) { return r.OutQuantity, r.OutRate }),
		TotalPurchases:         sumProducts(records, func(r InventoryRecord) (float64, float64) { return r.InQuantity, r.InRate }),
		TotalClosingStockValue: sumProducts(records, closingValue),
		TotalOpeningStockValue: sumProducts(records, func(r InventoryRecord) (float64, float64) { return r.OpenQuantity, r.OpenRate }),
		UnsoldStockValue:       sumProducts(b.UnsoldStock, closingValue),
	}

	excess := lo.Reduce(b.Overstock, func(acc decimal.Decimal, r OverstockRecord, _ int) decimal.Decimal {
		return acc.Add(decimalOf(r.ExcessStockValue))
	}, decimal.Zero)
	agg.ExcessStockValue = excess.InexactFloat64()

	if ratio, err := StockTurnoverRatio(agg.TotalSales, agg.TotalOpeningStockValue, agg.TotalClosingStockValue); err == nil {
		agg.StockTurnoverRatio = &ratio
	}

	if agg.TotalSKUs > 0 {
		agg.OverstockedItemsPercentage = float64(agg.OverstockCount) / float64(agg.TotalSKUs) * 100
	}
	if agg.TotalClosingStockValue > 0 {
		agg.ExcessStockPercentage = agg.ExcessStockValue / agg.TotalClosingStockValue * 100
	}

	return agg
}

// StockTurnoverRatio is total sales over the average of opening and closing stock value.
func StockTurnoverRatio(totalSales, openingValue, closingValue float64) (float64, error) {
	avg := (closingValue + openingValue) / 2
	if avg == 0 {
		return 0, fmt.Errorf("%w: stock turnover ratio with zero average stock value", ErrUndefinedAggregate)
	}
	return totalSales / avg, nil
}

func closingValue(r InventoryRecord) (float64, float64) {
	return r.CloseQuantity, r.CloseRate
}

// sumProducts sums quantity × rate exactly and converts once at the end.
func sumProducts(records []InventoryRecord, pick func(InventoryRecord) (float64, float64)) float64 {
	total := decimal.Zero
	for _, r := range records {
		qty, rate := pick(r)
		total = total.Add(decimalOf(qty).Mul(decimalOf(rate)))
	}
	return total.InexactFloat64()
}

// decimalOf converts f, mapping NaN and ±Inf (which decimal cannot hold) to
// zero. Analyze rejects such values before aggregating.
func decimalOf(f float64) decimal.Decimal {
	if !finite(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
