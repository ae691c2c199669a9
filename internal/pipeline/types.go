package pipeline

// TransformedRow is one output row keyed by column name
type TransformedRow struct {
	Data map[string]interface{}
}

// Cell returns the value stored under column and whether it was set.
func (r TransformedRow) Cell(column string) (interface{}, bool) {
	v, ok := r.Data[column]
	return v, ok
}

// Table is a named set of rows with a fixed column order, ready for export
type Table struct {
	Name    string
	Columns []string
	Rows    []TransformedRow
}

// Record renders row i in column order, leaving missing cells empty.
func (t Table) Record(i int, format func(interface{}) string) []string {
	record := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		if v, ok := t.Rows[i].Cell(col); ok {
			record[j] = format(v)
		}
	}
	return record
}
