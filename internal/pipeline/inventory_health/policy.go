package inventory_health

const (
	// ReorderSafetyFactor is the fixed margin applied over raw lead time
	ReorderSafetyFactor = 1.5

	// NoSalesDaysOfStock marks a record without sales in the window
	NoSalesDaysOfStock = -1
	// NoSalesReorderPoint marks a record without sales in the window
	NoSalesReorderPoint = -1.0

	// GrandTotalLabel is the summary row label in ledger exports
	GrandTotalLabel = "Grand Total"
	// UnknownVoucherType is used when the lookup has no entry for a SKU
	UnknownVoucherType = "Unknown"
)

// ReorderThreshold returns the days-of-stock bound under which a record needs reordering.
func ReorderThreshold(leadTime int) float64 {
	return float64(leadTime) * ReorderSafetyFactor
}

// ValuationRate picks the unit rate used to value excess stock: the inbound
// (replenishment) rate, or the closing rate when nothing came in at a price.
func ValuationRate(r InventoryRecord) float64 {
	if r.InRate != 0 {
		return r.InRate
	}
	return r.CloseRate
}
