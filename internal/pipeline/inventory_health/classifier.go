package inventory_health

import "github.com/samber/lo"

// Thresholds drive bucket membership
type Thresholds struct {
	LeadTime            int
	DaysStockToMaintain int
}

// Classify builds the four bucket views. Each bucket holds copies; the
// input slice is never modified.
func Classify(records []InventoryRecord, t Thresholds) Buckets {
	return Buckets{
		Overstock:     Overstock(records, t.DaysStockToMaintain),
		Understock:    Understock(records, t.LeadTime),
		NegativeStock: NegativeStock(records),
		UnsoldStock:   UnsoldStock(records),
	}
}

// Overstock returns records holding more days of stock than the target,
// valued at the replenishment rate.
func Overstock(records []InventoryRecord, daysStockToMaintain int) []OverstockRecord {
	over := lo.Filter(records, func(r InventoryRecord, _ int) bool {
		return r.DaysOfStock > daysStockToMaintain
	})
	return lo.Map(over, func(r InventoryRecord, _ int) OverstockRecord {
		excess := float64(r.DaysOfStock-daysStockToMaintain) * r.AverageSales * ValuationRate(r)
		return OverstockRecord{
			InventoryRecord:  r,
			ExcessStockValue: excess,
			IdealStockValue:  r.CloseValue - excess,
		}
	})
}

// Understock returns records with 0 <= days of stock < lead time × safety factor.
func Understock(records []InventoryRecord, leadTime int) []InventoryRecord {
	threshold := ReorderThreshold(leadTime)
	return lo.Filter(records, func(r InventoryRecord, _ int) bool {
		return r.DaysOfStock >= 0 && float64(r.DaysOfStock) < threshold
	})
}

// NegativeStock returns records with negative days of stock. This includes the
// no-sales marker (-1), so zero-sales records land here too.
func NegativeStock(records []InventoryRecord) []InventoryRecord {
	return lo.Filter(records, func(r InventoryRecord, _ int) bool {
		return r.DaysOfStock < 0
	})
}

// UnsoldStock returns records with no outbound quantity, whatever their stock.
func UnsoldStock(records []InventoryRecord) []InventoryRecord {
	return lo.Filter(records, func(r InventoryRecord, _ int) bool {
		return r.OutQuantity == 0
	})
}
