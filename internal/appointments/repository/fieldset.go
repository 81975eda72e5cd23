package repository

// Field is a single column/value pair selected for an upsert.
type Field struct {
	Column string
	Value  interface{}
}

// FieldSet is the ordered set of columns a merge decision has selected for
// writing. Order is preserved so the generated SQL (and tests over it) are
// stable across runs. Columns absent from the set are untouched by the
// update, which is how local-only fields stay protected: the merge engine
// simply never adds them.
type FieldSet struct {
	fields []Field
}

// Set appends a column/value pair, replacing an earlier entry for the same
// column in place.
func (fs *FieldSet) Set(column string, value interface{}) {
	for i := range fs.fields {
		if fs.fields[i].Column == column {
			fs.fields[i].Value = value
			return
		}
	}
	fs.fields = append(fs.fields, Field{Column: column, Value: value})
}

// Has reports whether the column is part of the set.
func (fs *FieldSet) Has(column string) bool {
	for _, f := range fs.fields {
		if f.Column == column {
			return true
		}
	}
	return false
}

// Get returns the value selected for a column.
func (fs *FieldSet) Get(column string) (interface{}, bool) {
	for _, f := range fs.fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of selected columns.
func (fs *FieldSet) Len() int {
	return len(fs.fields)
}

// Columns returns the selected column names in insertion order.
func (fs *FieldSet) Columns() []string {
	cols := make([]string, len(fs.fields))
	for i, f := range fs.fields {
		cols[i] = f.Column
	}
	return cols
}

// Values returns the selected values in insertion order.
func (fs *FieldSet) Values() []interface{} {
	vals := make([]interface{}, len(fs.fields))
	for i, f := range fs.fields {
		vals[i] = f.Value
	}
	return vals
}
