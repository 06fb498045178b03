package seasons

// Table is the immutable, loaded set of season records plus the header it came from.
// Accessors hand out copies so callers can never mutate the cached table.
type Table struct {
	columns []string
	records []SeasonRecord
}

// NewTable builds a Table from a header and its rows, copying both.
func NewTable(columns []string, records []SeasonRecord) *Table {
	return &Table{
		columns: append([]string(nil), columns...),
		records: append([]SeasonRecord(nil), records...),
	}
}

// Columns returns the header column names in file order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the source header carried the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Records returns a copy of every row in source order.
func (t *Table) Records() []SeasonRecord {
	if t == nil {
		return nil
	}
	return append([]SeasonRecord(nil), t.records...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}
