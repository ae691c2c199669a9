package inventory_health

// ledgerTable builds a stock summary extract: a title row, the column group
// row, the sub-header row and then the given data rows.
func ledgerTable(rows ...[]any) RawTable {
	table := RawTable{
		{"Stock Summary", nil, nil},
		{"Particulars", "Opening Balance", nil, nil, "Inwards", nil, nil, "Outwards", nil, nil, "Closing Balance", nil, nil},
		{nil, "Quantity", "Rate", "Value", "Quantity", "Rate", "Value", "Quantity", "Rate", "Value", "Quantity", "Rate", "Value"},
	}
	return append(table, rows...)
}

// ledgerRow is sku followed by open/in/out/close quantity and rate; values are quantity × rate.
func ledgerRow(sku string, openQ, openR, inQ, inR, outQ, outR, closeQ, closeR float64) []any {
	return []any{
		sku,
		openQ, openR, openQ * openR,
		inQ, inR, inQ * inR,
		outQ, outR, outQ * outR,
		closeQ, closeR, closeQ * closeR,
	}
}

type mapVouchers map[string]string

func (m mapVouchers) VoucherType(sku string) string {
	return m[sku]
}
