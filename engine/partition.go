package engine

import (
	"math"
	"sort"
	"strings"
)

// ============================================================================
// PARTITION/SORT — Stable multi-key sort with partition detection
// ============================================================================
// Partitions are index lists into the parent recordset — no row copies.
// Partition order follows first appearance in the input; rows inside a
// partition are stable-sorted, so rows with identical sort keys retain
// their original relative input order. row_number depends on that
// stability; rank and dense_rank must not distinguish tied rows at all.
// ============================================================================

// SortKey is one (field, direction) entry of a sort specification.
type SortKey struct {
	Field   string
	Desc    bool
	Numeric bool
}

// Asc declares an ascending string sort key.
func Asc(field string) SortKey { return SortKey{Field: field} }

// Desc declares a descending string sort key.
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// AscNum declares an ascending numeric sort key.
func AscNum(field string) SortKey { return SortKey{Field: field, Numeric: true} }

// DescNum declares a descending numeric sort key.
func DescNum(field string) SortKey { return SortKey{Field: field, Numeric: true, Desc: true} }

// Partition is one partition-key group, ordered per its sort specification.
type Partition struct {
	Key     string // composite partition-key value; "" when unpartitioned
	set     *Recordset
	indices []int
	order   []SortKey
}

// Len returns the partition's row count.
func (p Partition) Len() int { return len(p.indices) }

// Row returns the i-th row of the partition in sort order (0-based).
func (p Partition) Row(i int) Record { return p.set.Rows[p.indices[i]] }

// SourceIndex returns the parent recordset index of the i-th partition row.
func (p Partition) SourceIndex(i int) int { return p.indices[i] }

// Order returns the sort specification the partition was ordered with.
func (p Partition) Order() []SortKey { return p.order }

// PartitionSort groups rows by the partition fields and stable-sorts each
// group by the order keys. Zero partition fields produce one partition
// spanning the whole recordset.
func PartitionSort(set *Recordset, partitionBy []string, order []SortKey) []Partition {
	grouped := make(map[string][]int)
	var keys []string

	for i := range set.Rows {
		key := partitionKey(set.Rows[i], partitionBy)
		if _, seen := grouped[key]; !seen {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	parts := make([]Partition, 0, len(keys))
	for _, key := range keys {
		indices := grouped[key]
		sort.SliceStable(indices, func(a, b int) bool {
			return rowLess(set, indices[a], indices[b], order)
		})
		parts = append(parts, Partition{Key: key, set: set, indices: indices, order: order})
	}
	return parts
}

func partitionKey(r Record, fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	vals := make([]string, len(fields))
	for i, f := range fields {
		vals[i] = r.Dim(f)
	}
	return strings.Join(vals, "\x1f")
}

// rowLess compares two absolute row indices under the sort specification.
// Absent numeric values sort after present ones regardless of direction.
func rowLess(set *Recordset, a, b int, order []SortKey) bool {
	for _, k := range order {
		c := compareKey(set.Rows[a], set.Rows[b], k)
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func compareKey(ra, rb Record, k SortKey) int {
	if k.Numeric {
		va, oka := ra.Num(k.Field)
		vb, okb := rb.Num(k.Field)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1 // absent last
		case !okb:
			return -1
		}
		if k.Desc {
			va, vb = vb, va
		}
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	}

	va, vb := ra.Dim(k.Field), rb.Dim(k.Field)
	if k.Desc {
		va, vb = vb, va
	}
	return strings.Compare(va, vb)
}

// orderEqual reports whether two partition rows carry identical sort-key
// values — the tie test for rank and dense_rank.
func orderEqual(p Partition, i, j int) bool {
	for _, k := range p.order {
		if compareKey(p.Row(i), p.Row(j), k) != 0 {
			return false
		}
	}
	return true
}

// Round2 rounds to 2 decimal places. Percentage outputs across the system
// use this one rounding rule.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
