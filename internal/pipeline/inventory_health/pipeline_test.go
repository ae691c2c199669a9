package inventory_health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/inventory-health/internal/sheet"
)

const stockSummaryCSV = `Stock Summary,,,,,,,,,,,,
Particulars,Opening Balance,,,Inwards,,,Outwards,,,Closing Balance,,
,Quantity,Rate,Value,Quantity,Rate,Value,Quantity,Rate,Value,Quantity,Rate,Value
X,100,10,"1,000",0,0,0,0,0,0,100,10,"1,000"
Y,30,5,150,120,4,480,60,6,360,90,4,360
Grand Total,130,,"1,150",120,,480,60,,360,190,,"1,360"
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestInventoryHealthPipelineRun(t *testing.T) {
	path := writeTemp(t, "stock.csv", stockSummaryCSV)
	p := NewInventoryHealthPipeline(Config{Params: defaultParams})

	if p.Name() != "inventory_health" {
		t.Errorf("Name() = %q", p.Name())
	}

	res, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].OpenValue != 1000 {
		t.Errorf("OpenValue = %v, want 1000", res.Records[0].OpenValue)
	}
	if len(res.Buckets.Overstock) != 1 || res.Buckets.Overstock[0].SKU != "Y" {
		t.Errorf("Overstock = %+v", res.Buckets.Overstock)
	}
}

func TestInventoryHealthPipelineValidate(t *testing.T) {
	p := NewInventoryHealthPipeline(Config{Params: defaultParams})

	if err := p.Validate(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := p.Validate(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	txt := writeTemp(t, "stock.txt", "x")
	if err := p.Validate(txt); !errors.Is(err, sheet.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReportTables(t *testing.T) {
	res, err := Analyze(ledgerTable(
		ledgerRow("X", 100, 10, 0, 0, 0, 0, 100, 10),
		ledgerRow("Y", 30, 5, 120, 4, 60, 6, 90, 4),
	), defaultParams, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	tables := ReportTables(res)
	want := map[string]int{
		"all_items":      2,
		"overstock":      1,
		"understock":     0,
		"negative_stock": 1,
		"unsold_stock":   1,
		"summary":        len(SummaryMetrics(res.Aggregates)),
	}
	if len(tables) != len(want) {
		t.Fatalf("got %d tables, want %d", len(tables), len(want))
	}
	for _, tbl := range tables {
		n, ok := want[tbl.Name]
		if !ok {
			t.Errorf("unexpected table %q", tbl.Name)
			continue
		}
		if len(tbl.Rows) != n {
			t.Errorf("table %s has %d rows, want %d", tbl.Name, len(tbl.Rows), n)
		}
		for _, row := range tbl.Rows {
			for _, col := range tbl.Columns {
				if _, ok := row.Data[col]; !ok {
					t.Errorf("table %s row misses column %s", tbl.Name, col)
				}
			}
		}
	}

	over := tables[1].Rows[0].Data
	if over["excess_stock_value"] != 120.0 {
		t.Errorf("excess_stock_value = %v, want 120", over["excess_stock_value"])
	}
}

func TestSummaryMetricsUndefinedTurnover(t *testing.T) {
	for _, m := range SummaryMetrics(Aggregates{}) {
		if m.Name == "stock_turnover_ratio" && m.Value != nil {
			t.Errorf("stock_turnover_ratio = %v, want nil", *m.Value)
		}
		if m.Name != "stock_turnover_ratio" && m.Value == nil {
			t.Errorf("%s should be defined", m.Name)
		}
	}
}
