package inventory_health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/inventory-health/internal/pipeline"
	"github.com/andresuchdata/inventory-health/internal/sheet"
	"github.com/rs/zerolog/log"
)

// Config holds configuration for the inventory health file pipeline
type Config struct {
	Params  Params
	Options Options
}

// InventoryHealthPipeline analyzes stock ledger export files from disk.
type InventoryHealthPipeline struct {
	config Config
}

// NewInventoryHealthPipeline creates a new inventory health pipeline instance.
func NewInventoryHealthPipeline(cfg Config) *InventoryHealthPipeline {
	return &InventoryHealthPipeline{config: cfg}
}

// Name returns the unique identifier of this pipeline.
func (p *InventoryHealthPipeline) Name() string {
	return "inventory_health"
}

// Validate performs basic validation on the input file.
func (p *InventoryHealthPipeline) Validate(inputFile string) error {
	info, err := os.Stat(inputFile)
	if err != nil {
		return fmt.Errorf("cannot stat input file %s: %w", inputFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory, expected file", inputFile)
	}
	if !sheet.Supported(inputFile) {
		return fmt.Errorf("%w: %s", sheet.ErrUnsupportedFormat, inputFile)
	}
	return nil
}

// Run reads the file and analyzes it with the configured parameters.
func (p *InventoryHealthPipeline) Run(ctx context.Context, inputFile string) (*Result, error) {
	if err := p.Validate(inputFile); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := sheet.ReadFile(inputFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Analyze(RawTable(rows), p.config.Params, p.config.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", inputFile, err)
	}

	log.Debug().
		Str("pipeline", p.Name()).
		Str("file", inputFile).
		Int("rows", len(rows)).
		Int("records", len(result.Records)).
		Dur("elapsed", time.Since(start)).
		Msg("inventory health: file analyzed")

	return result, nil
}

// RecordColumns is the export column order for record tables
var RecordColumns = append(append([]string{}, ledgerColumns...),
	"voucher_type",
	"average_sales",
	"days_of_stock",
	"reorder_point",
	"quantity_to_reorder",
)

// OverstockColumns extends RecordColumns with the overstock valuation
var OverstockColumns = append(append([]string{}, RecordColumns...),
	"excess_stock_value",
	"ideal_stock_value",
)

// SummaryColumns is the export column order for the aggregates table
var SummaryColumns = []string{"metric", "value"}

// ReportTables lays the result out as exportable tables.
func ReportTables(res *Result) []pipeline.Table {
	overstock := make([]pipeline.TransformedRow, 0, len(res.Buckets.Overstock))
	for _, r := range res.Buckets.Overstock {
		data := recordData(r.InventoryRecord)
		data["excess_stock_value"] = r.ExcessStockValue
		data["ideal_stock_value"] = r.IdealStockValue
		overstock = append(overstock, pipeline.TransformedRow{Data: data})
	}

	return []pipeline.Table{
		{Name: "all_items", Columns: RecordColumns, Rows: recordRows(res.Records)},
		{Name: "overstock", Columns: OverstockColumns, Rows: overstock},
		{Name: "understock", Columns: RecordColumns, Rows: recordRows(res.Buckets.Understock)},
		{Name: "negative_stock", Columns: RecordColumns, Rows: recordRows(res.Buckets.NegativeStock)},
		{Name: "unsold_stock", Columns: RecordColumns, Rows: recordRows(res.Buckets.UnsoldStock)},
		{Name: "summary", Columns: SummaryColumns, Rows: summaryRows(res.Aggregates)},
	}
}

func recordRows(records []InventoryRecord) []pipeline.TransformedRow {
	rows := make([]pipeline.TransformedRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, pipeline.TransformedRow{Data: recordData(r)})
	}
	return rows
}

func recordData(r InventoryRecord) map[string]interface{} {
	return map[string]interface{}{
		"sku":                 r.SKU,
		"open_quantity":       r.OpenQuantity,
		"open_rate":           r.OpenRate,
		"open_value":          r.OpenValue,
		"in_quantity":         r.InQuantity,
		"in_rate":             r.InRate,
		"in_value":            r.InValue,
		"out_quantity":        r.OutQuantity,
		"out_rate":            r.OutRate,
		"out_value":           r.OutValue,
		"close_quantity":      r.CloseQuantity,
		"close_rate":          r.CloseRate,
		"close_value":         r.CloseValue,
		"voucher_type":        r.VoucherType,
		"average_sales":       r.AverageSales,
		"days_of_stock":       r.DaysOfStock,
		"reorder_point":       r.ReorderPoint,
		"quantity_to_reorder": r.QuantityToReorder,
	}
}

// SummaryMetric is one labelled aggregate
type SummaryMetric struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// SummaryMetrics lists the aggregates in display order. A nil value is undefined.
func SummaryMetrics(agg Aggregates) []SummaryMetric {
	f := func(v float64) *float64 { return &v }
	return []SummaryMetric{
		{"total_skus", f(float64(agg.TotalSKUs))},
		{"overstock_count", f(float64(agg.OverstockCount))},
		{"understock_count", f(float64(agg.UnderstockCount))},
		{"negative_stock_count", f(float64(agg.NegativeStockCount))},
		{"unsold_stock_count", f(float64(agg.UnsoldStockCount))},
		{"excess_stock_value", f(agg.ExcessStockValue)},
		{"unsold_stock_value", f(agg.UnsoldStockValue)},
		{"total_sales", f(agg.TotalSales)},
		{"total_purchases", f(agg.TotalPurchases)},
		{"total_opening_stock_value", f(agg.TotalOpeningStockValue)},
		{"total_closing_stock_value", f(agg.TotalClosingStockValue)},
		{"stock_turnover_ratio", agg.StockTurnoverRatio},
		{"overstocked_items_percentage", f(agg.OverstockedItemsPercentage)},
		{"excess_stock_percentage", f(agg.ExcessStockPercentage)},
	}
}

func summaryRows(agg Aggregates) []pipeline.TransformedRow {
	metrics := SummaryMetrics(agg)
	rows := make([]pipeline.TransformedRow, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, pipeline.TransformedRow{Data: map[string]interface{}{
			"metric": m.Name,
			"value":  m.Value,
		}})
	}
	return rows
}
