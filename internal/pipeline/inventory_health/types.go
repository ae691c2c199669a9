package inventory_health

// RawTable is a spreadsheet extract as rows of untyped cells. A nil cell is missing.
type RawTable [][]any

// InventoryRecord is one normalized stock ledger row for a single SKU
type InventoryRecord struct {
	SKU string `json:"sku"`

	OpenQuantity float64 `json:"open_quantity"`
	OpenRate     float64 `json:"open_rate"`
	OpenValue    float64 `json:"open_value"`

	InQuantity float64 `json:"in_quantity"`
	InRate     float64 `json:"in_rate"`
	InValue    float64 `json:"in_value"`

	OutQuantity float64 `json:"out_quantity"`
	OutRate     float64 `json:"out_rate"`
	OutValue    float64 `json:"out_value"`

	CloseQuantity float64 `json:"close_quantity"`
	CloseRate     float64 `json:"close_rate"`
	CloseValue    float64 `json:"close_value"`

	// VoucherType is only set when a voucher lookup is configured
	VoucherType string `json:"voucher_type,omitempty"`

	// Derived metrics (filled by DeriveMetrics)
	AverageSales      float64 `json:"average_sales"`
	DaysOfStock       int     `json:"days_of_stock"`
	ReorderPoint      float64 `json:"reorder_point"`
	QuantityToReorder float64 `json:"quantity_to_reorder"`
}

// OverstockRecord is an overstocked record with its valuation split
type OverstockRecord struct {
	InventoryRecord
	ExcessStockValue float64 `json:"excess_stock_value"`
	IdealStockValue  float64 `json:"ideal_stock_value"`
}

// Buckets holds the four independent views over the enriched record set
type Buckets struct {
	Overstock     []OverstockRecord `json:"overstock"`
	Understock    []InventoryRecord `json:"understock"`
	NegativeStock []InventoryRecord `json:"negative_stock"`
	UnsoldStock   []InventoryRecord `json:"unsold_stock"`
}

// Aggregates holds the scalar rollups of one analysis run
type Aggregates struct {
	TotalSKUs              int     `json:"total_skus"`
	OverstockCount         int     `json:"overstock_count"`
	UnderstockCount        int     `json:"understock_count"`
	NegativeStockCount     int     `json:"negative_stock_count"`
	UnsoldStockCount       int     `json:"unsold_stock_count"`
	TotalSales             float64 `json:"total_sales"`
	TotalPurchases         float64 `json:"total_purchases"`
	TotalClosingStockValue float64 `json:"total_closing_stock_value"`
	TotalOpeningStockValue float64 `json:"total_opening_stock_value"`
	ExcessStockValue       float64 `json:"excess_stock_value"`
	UnsoldStockValue       float64 `json:"unsold_stock_value"`

	// StockTurnoverRatio is nil when opening and closing stock value average to zero
	StockTurnoverRatio *float64 `json:"stock_turnover_ratio"`

	OverstockedItemsPercentage float64 `json:"overstocked_items_percentage"`
	ExcessStockPercentage      float64 `json:"excess_stock_percentage"`
}

// Params are the scalar inputs collected alongside the upload
type Params struct {
	LeadTime            int `json:"lead_time"`
	DaysStockToMaintain int `json:"days_stock_to_maintain"`
	NumDays             int `json:"num_days"`
}

// Layout identifies a known column layout of the data region
type Layout string

const (
	LayoutAuto     Layout = "auto"
	LayoutStandard Layout = "standard" // SKU + 12 ledger columns
	LayoutIndexed  Layout = "indexed"  // standard plus one discarded serial column
)

// VoucherLookup resolves the voucher/category label of a SKU
type VoucherLookup interface {
	VoucherType(sku string) string
}

// Options toggles the optional behaviours of the pipeline
type Options struct {
	Layout Layout
	// ExtraColumn is the position of the discarded column in LayoutIndexed
	ExtraColumn int
	// StrictZeroFilter drops rows with zero quantities/rates but nonzero values
	StrictZeroFilter bool
	// Vouchers enables voucher_type enrichment when non-nil
	Vouchers VoucherLookup
	// VoucherTypes keeps only records of these voucher types when non-empty
	VoucherTypes []string
}

// NormalizeStats counts what the normalizer dropped
type NormalizeStats struct {
	DataRows        int    `json:"data_rows"`
	Layout          Layout `json:"layout"`
	GrandTotalRows  int    `json:"grand_total_rows"`
	EmptyRows       int    `json:"empty_rows"`
	BlankSKURows    int    `json:"blank_sku_rows"`
	DuplicateSKUs   int    `json:"duplicate_skus"`
	ValueOnlyRows   int    `json:"value_only_rows"`
	VoucherFiltered int    `json:"voucher_filtered"`
}

// Result is everything one pipeline run produces
type Result struct {
	HeaderRow  int               `json:"header_row"`
	Params     Params            `json:"params"`
	Records    []InventoryRecord `json:"records"`
	Buckets    Buckets           `json:"buckets"`
	Aggregates Aggregates        `json:"aggregates"`
	Stats      NormalizeStats    `json:"stats"`
	Warnings   []string          `json:"warnings,omitempty"`
}
