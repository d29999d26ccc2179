package engine

// ============================================================================
// RECORDSET — Generic rows with a fixed column contract
// ============================================================================
// A Record splits fields the same way the rest of the system does: discrete
// string fields (ids, labels, period keys) in Dims, numeric fields in Nums.
//
// Absence is a first-class state: a key missing from Nums means the value
// is absent, which is distinguishable from zero everywhere downstream.
// Growth percentages, lag values past a partition boundary, and similar
// results are never substituted with a default number.
// ============================================================================

// Record is a single row.
type Record struct {
	Dims map[string]string  `json:"dims"`
	Nums map[string]float64 `json:"nums"`
}

// NewRecord returns an empty row with both field maps allocated.
func NewRecord() Record {
	return Record{
		Dims: make(map[string]string),
		Nums: make(map[string]float64),
	}
}

// Dim returns a string field; missing keys read as "".
func (r Record) Dim(key string) string {
	return r.Dims[key]
}

// Num returns a numeric field and whether it is present.
func (r Record) Num(key string) (float64, bool) {
	v, ok := r.Nums[key]
	return v, ok
}

// SetDim sets a string field, allocating the map if needed.
func (r *Record) SetDim(key, value string) {
	if r.Dims == nil {
		r.Dims = make(map[string]string)
	}
	r.Dims[key] = value
}

// SetNum sets a numeric field, allocating the map if needed.
func (r *Record) SetNum(key string, value float64) {
	if r.Nums == nil {
		r.Nums = make(map[string]float64)
	}
	r.Nums[key] = value
}

// Clone returns a deep copy of the row.
func (r Record) Clone() Record {
	out := NewRecord()
	for k, v := range r.Dims {
		out.Dims[k] = v
	}
	for k, v := range r.Nums {
		out.Nums[k] = v
	}
	return out
}

// ============================================================================
// COLUMN SCHEMA
// ============================================================================

// Column describes one field of a Recordset's fixed schema.
type Column struct {
	Key      string `json:"key"`
	Numeric  bool   `json:"numeric"`
	Optional bool   `json:"optional,omitempty"` // value may be absent per row
}

// Dim declares a string column.
func Dim(key string) Column { return Column{Key: key} }

// Num declares a numeric column.
func Num(key string) Column { return Column{Key: key, Numeric: true} }

// OptNum declares a numeric column whose value may be absent.
func OptNum(key string) Column { return Column{Key: key, Numeric: true, Optional: true} }

// ============================================================================
// RECORDSET
// ============================================================================

// Recordset is a named, ordered collection of rows sharing a column schema.
// Input recordsets are treated as immutable snapshots; stages and analytics
// modules build new recordsets rather than mutating their inputs.
type Recordset struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewRecordset creates an empty recordset with the given column contract.
func NewRecordset(name string, columns ...Column) *Recordset {
	return &Recordset{Name: name, Columns: columns}
}

// Append adds a row.
func (s *Recordset) Append(rows ...Record) {
	s.Rows = append(s.Rows, rows...)
}

// Len returns the row count.
func (s *Recordset) Len() int { return len(s.Rows) }

// ColumnKeys returns the schema keys in declaration order.
func (s *Recordset) ColumnKeys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// SumNum totals a numeric column across all rows; absent values contribute
// nothing.
func (s *Recordset) SumNum(key string) float64 {
	var total float64
	for _, r := range s.Rows {
		if v, ok := r.Num(key); ok {
			total += v
		}
	}
	return total
}
