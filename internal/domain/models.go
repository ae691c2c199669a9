// internal/domain/models.go
package domain

import (
	"fmt"
	"strings"
	"time"

	inventoryhealth "github.com/andresuchdata/inventory-health/internal/pipeline/inventory_health"
)

const DateLayout = "2006-01-02"

// DateRange is the sales period covered by a stock summary.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start_date %q: expected YYYY-MM-DD", inventoryhealth.ErrInvalidParameter, start)
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end_date %q: expected YYYY-MM-DD", inventoryhealth.ErrInvalidParameter, end)
	}
	return DateRange{Start: s, End: e}, nil
}

// NumDays is the whole number of days from Start to End, end exclusive.
// A range that ends on or before its start yields a non-positive value.
func (r DateRange) NumDays() int {
	const secondsPerDay = 24 * 60 * 60
	return int((r.End.Unix() - r.Start.Unix()) / secondsPerDay)
}

// AnalysisRequest carries user supplied analysis parameters. Zero values mean
// "use the configured default" except for the sales period, which is required.
type AnalysisRequest struct {
	LeadTime            int      `json:"lead_time" form:"lead_time"`
	DaysStockToMaintain int      `json:"days_stock_to_maintain" form:"days_stock_to_maintain"`
	StartDate           string   `json:"start_date" form:"start_date"`
	EndDate             string   `json:"end_date" form:"end_date"`
	NumDays             int      `json:"num_days" form:"num_days"`
	StrictZeroFilter    *bool    `json:"strict_zero_filter" form:"strict_zero_filter"`
	Layout              string   `json:"layout" form:"layout"`
	ExtraColumn         *int     `json:"extra_column" form:"extra_column"`
	VoucherTypes        []string `json:"voucher_types" form:"voucher_types"`
	EnrichVouchers      bool     `json:"enrich_vouchers" form:"enrich_vouchers"`
}

// ResolveNumDays returns NumDays when set, otherwise the length of the date range.
func (r AnalysisRequest) ResolveNumDays() (int, error) {
	if r.NumDays != 0 {
		return r.NumDays, nil
	}
	if r.StartDate == "" && r.EndDate == "" {
		return 0, fmt.Errorf("%w: either num_days or start_date and end_date are required", inventoryhealth.ErrInvalidParameter)
	}
	dr, err := ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return 0, err
	}
	return dr.NumDays(), nil
}

// VoucherTypeList splits comma separated entries and drops blanks.
func (r AnalysisRequest) VoucherTypeList() []string {
	var out []string
	for _, v := range r.VoucherTypes {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// AnalysisResponse is the API/CLI view of one analysis run.
type AnalysisResponse struct {
	RunID       string                          `json:"run_id"`
	Source      string                          `json:"source"`
	GeneratedAt time.Time                       `json:"generated_at"`
	Result      *inventoryhealth.Result         `json:"result"`
	Summary     []inventoryhealth.SummaryMetric `json:"summary"`
	Exports     []string                        `json:"exports,omitempty"`
}
