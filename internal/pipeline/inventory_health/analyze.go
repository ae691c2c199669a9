package inventory_health

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Validate checks the three scalar parameters. Nothing is clamped.
func (p Params) Validate() error {
	var errs []error
	if p.NumDays <= 0 {
		errs = append(errs, fmt.Errorf("num_days must be > 0, got %d", p.NumDays))
	}
	if p.LeadTime <= 0 {
		errs = append(errs, fmt.Errorf("lead_time must be > 0, got %d", p.LeadTime))
	}
	if p.DaysStockToMaintain <= 0 {
		errs = append(errs, fmt.Errorf("days_stock_to_maintain must be > 0, got %d", p.DaysStockToMaintain))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, errors.Join(errs...))
	}
	return nil
}

// Analyze runs header location, normalization, metric derivation,
// classification and aggregation over one table. Structural failures and
// values that overflow float64 abort the run; an undefined aggregate only
// adds a warning.
func Analyze(table RawTable, params Params, opts Options) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(opts.VoucherTypes) > 0 && opts.Vouchers == nil {
		return nil, fmt.Errorf("%w: voucher type filter needs a voucher lookup", ErrInvalidParameter)
	}

	headerIdx, err := LocateHeader(table)
	if err != nil {
		return nil, err
	}

	records, stats, err := Normalize(table, headerIdx, opts)
	if err != nil {
		return nil, err
	}

	if len(opts.VoucherTypes) > 0 {
		before := len(records)
		records = FilterVoucherTypes(records, opts.VoucherTypes)
		stats.VoucherFiltered = before - len(records)
	}

	records, err = DeriveMetrics(records, params.NumDays, params.LeadTime)
	if err != nil {
		return nil, err
	}

	buckets := Classify(records, Thresholds{
		LeadTime:            params.LeadTime,
		DaysStockToMaintain: params.DaysStockToMaintain,
	})

	if err := checkDerived(records, buckets.Overstock); err != nil {
		return nil, err
	}
	agg := Aggregate(records, buckets)
	if err := checkAggregates(agg); err != nil {
		return nil, err
	}

	result := &Result{
		HeaderRow:  headerIdx,
		Params:     params,
		Records:    records,
		Buckets:    buckets,
		Aggregates: agg,
		Stats:      stats,
	}

	if result.Aggregates.StockTurnoverRatio == nil {
		_, terr := StockTurnoverRatio(result.Aggregates.TotalSales, result.Aggregates.TotalOpeningStockValue, result.Aggregates.TotalClosingStockValue)
		result.Warnings = append(result.Warnings, terr.Error())
	}

	noSales := lo.CountBy(buckets.NegativeStock, func(r InventoryRecord) bool {
		return r.DaysOfStock == NoSalesDaysOfStock && r.AverageSales == 0
	})
	if noSales > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d records without sales are counted as negative stock", noSales))
	}

	return result, nil
}

// FilterVoucherTypes keeps records whose voucher type is one of types (case-insensitive).
func FilterVoucherTypes(records []InventoryRecord, types []string) []InventoryRecord {
	wanted := lo.SliceToMap(types, func(t string) (string, struct{}) {
		return strings.ToUpper(strings.TrimSpace(t)), struct{}{}
	})
	return lo.Filter(records, func(r InventoryRecord, _ int) bool {
		_, ok := wanted[strings.ToUpper(strings.TrimSpace(r.VoucherType))]
		return ok
	})
}
