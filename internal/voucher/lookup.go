// Package voucher maps item names (SKUs) to their voucher/category label.
package voucher

import (
	"sort"
	"strings"

	inventoryhealth "github.com/andresuchdata/inventory-health/internal/pipeline/inventory_health"
	"github.com/samber/lo"
)

// Lookup is an in-memory sku -> voucher type mapping. Keys are normalized.
type Lookup map[string]string

// New builds a Lookup from raw pairs, skipping blank keys and values.
func New(pairs map[string]string) Lookup {
	l := make(Lookup, len(pairs))
	for sku, vt := range pairs {
		l.Set(sku, vt)
	}
	return l
}

// Set adds or replaces one mapping entry.
func (l Lookup) Set(sku, voucherType string) {
	key := normalizeKey(sku)
	voucherType = strings.TrimSpace(voucherType)
	if key == "" || voucherType == "" {
		return
	}
	l[key] = voucherType
}

// VoucherType returns the label for sku, or "Unknown" when unmapped.
func (l Lookup) VoucherType(sku string) string {
	if vt, ok := l[normalizeKey(sku)]; ok {
		return vt
	}
	return inventoryhealth.UnknownVoucherType
}

// Types returns the distinct voucher types, sorted.
func (l Lookup) Types() []string {
	types := lo.Uniq(lo.Values(l))
	sort.Strings(types)
	return types
}

func normalizeKey(sku string) string {
	return strings.ToUpper(strings.Join(strings.Fields(sku), " "))
}

var _ inventoryhealth.VoucherLookup = Lookup(nil)
