package inventory_health

import "testing"

func skus[T any](rs []T, sku func(T) string) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, sku(r))
	}
	return out
}

func recordSKU(r InventoryRecord) string    { return r.SKU }
func overstockSKU(r OverstockRecord) string { return r.SKU }

func sameSKUs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestClassify(t *testing.T) {
	records := []InventoryRecord{
		{SKU: "X", OutQuantity: 0, DaysOfStock: NoSalesDaysOfStock},
		{SKU: "Y", OutQuantity: 60, AverageSales: 2, DaysOfStock: 45, InRate: 4, CloseRate: 5, CloseValue: 450},
		{SKU: "U7", OutQuantity: 10, AverageSales: 1, DaysOfStock: 7},
		{SKU: "H8", OutQuantity: 10, AverageSales: 1, DaysOfStock: 8},
		{SKU: "H30", OutQuantity: 10, AverageSales: 1, DaysOfStock: 30},
		{SKU: "Z0", OutQuantity: 10, AverageSales: 1, DaysOfStock: 0},
		{SKU: "NEG", OutQuantity: 10, AverageSales: 1, DaysOfStock: -4},
	}

	b := Classify(records, Thresholds{LeadTime: 5, DaysStockToMaintain: 30})

	if got := skus(b.Overstock, overstockSKU); !sameSKUs(got, []string{"Y"}) {
		t.Errorf("Overstock = %v", got)
	}
	if got := skus(b.Understock, recordSKU); !sameSKUs(got, []string{"U7", "Z0"}) {
		t.Errorf("Understock = %v", got)
	}
	if got := skus(b.NegativeStock, recordSKU); !sameSKUs(got, []string{"X", "NEG"}) {
		t.Errorf("NegativeStock = %v", got)
	}
	if got := skus(b.UnsoldStock, recordSKU); !sameSKUs(got, []string{"X"}) {
		t.Errorf("UnsoldStock = %v", got)
	}

	y := b.Overstock[0]
	// (45 - 30) days × 2 per day × inbound rate 4
	if y.ExcessStockValue != 120 {
		t.Errorf("ExcessStockValue = %v, want 120", y.ExcessStockValue)
	}
	if y.IdealStockValue != 330 {
		t.Errorf("IdealStockValue = %v, want 330", y.IdealStockValue)
	}
}

func TestOverstockFallsBackToClosingRate(t *testing.T) {
	records := []InventoryRecord{
		{SKU: "A", AverageSales: 1, DaysOfStock: 12, InRate: 0, CloseRate: 3, CloseValue: 36},
	}

	over := Overstock(records, 10)
	if len(over) != 1 {
		t.Fatalf("got %d overstock records, want 1", len(over))
	}
	if over[0].ExcessStockValue != 6 {
		t.Errorf("ExcessStockValue = %v, want 6", over[0].ExcessStockValue)
	}
	if over[0].IdealStockValue != 30 {
		t.Errorf("IdealStockValue = %v, want 30", over[0].IdealStockValue)
	}
}

func TestClassifyLeavesInputUntouched(t *testing.T) {
	records := []InventoryRecord{{SKU: "A", AverageSales: 1, DaysOfStock: 40, InRate: 2}}

	b := Classify(records, Thresholds{LeadTime: 5, DaysStockToMaintain: 30})
	b.Understock = append(b.Understock, InventoryRecord{SKU: "B"})
	b.Overstock[0].SKU = "changed"

	if records[0].SKU != "A" || len(records) != 1 {
		t.Errorf("input modified: %+v", records)
	}
}
