package repository

import "context"

// VoucherRepository provides the persisted item -> voucher type mapping.
type VoucherRepository interface {
	ListMappings(ctx context.Context) (map[string]string, error)
	// ReplaceMappings swaps the whole mapping for mappings and returns the
	// number of rows written.
	ReplaceMappings(ctx context.Context, mappings map[string]string) (int, error)
}
