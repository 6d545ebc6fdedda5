package submission

import "sort"

// FieldMapping translates one UI field into a storage column.
type FieldMapping struct {
	Field    string
	Column   string
	Optional bool
}

// DerivedColumn computes a column from the whole draft.
type DerivedColumn struct {
	Column  string
	Compose func(draft map[string]string) any
}

// Mapping describes how a draft becomes a storage record.
type Mapping struct {
	Fields  []FieldMapping
	Fixed   map[string]any
	Derived []DerivedColumn
}

// Record builds the column map for one insert. Optional fields left empty are stored
// as NULL (nil) rather than as an empty string.
func (m Mapping) Record(draft map[string]string) map[string]any {
	record := make(map[string]any, len(m.Fields)+len(m.Fixed)+len(m.Derived))
	for _, f := range m.Fields {
		value := draft[f.Field]
		if f.Optional && value == "" {
			record[f.Column] = nil
			continue
		}
		record[f.Column] = value
	}
	for _, d := range m.Derived {
		record[d.Column] = d.Compose(draft)
	}
	for column, value := range m.Fixed {
		record[column] = value
	}
	return record
}

// Columns returns the sorted column names of a record.
func Columns(record map[string]any) []string {
	cols := make([]string, 0, len(record))
	for col := range record {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
