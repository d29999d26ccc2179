package engine

// ============================================================================
// WINDOW OPERATORS — rank family, lag/lead, running aggregates, ntile
// ============================================================================
// Every operator runs over one partition in its sort order, 1-indexed, and
// returns a slice aligned to partition positions. Partitions are mutually
// independent; see parallel.go for fanning operators out across them.
//
// Canonical tie semantics:
//   row_number  1,2,3  — ties broken by stable input order
//   rank        1,1,3  — gaps after ties
//   dense_rank  1,1,2  — no gaps
// ============================================================================

// NullFloat is a numeric value that may be absent. Mirrors the shape of
// sql.NullFloat64 without dragging database/sql into the engine.
type NullFloat struct {
	Value float64
	Valid bool
}

// Present wraps a concrete value.
func Present(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// Absent is the missing value.
var Absent = NullFloat{}

// RowNumber returns 1..k along the partition's sort order.
func RowNumber(p Partition) []int {
	out := make([]int, p.Len())
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Rank assigns tied rows the same rank; the rank after a tie group jumps to
// the count of rows seen so far.
func Rank(p Partition) []int {
	out := make([]int, p.Len())
	current := 1
	for i := 0; i < p.Len(); i++ {
		if i > 0 && !orderEqual(p, i-1, i) {
			current = i + 1
		}
		out[i] = current
	}
	return out
}

// DenseRank assigns tied rows the same rank and increments by exactly 1 at
// each new distinct sort-key value.
func DenseRank(p Partition) []int {
	out := make([]int, p.Len())
	current := 1
	for i := 0; i < p.Len(); i++ {
		if i > 0 && !orderEqual(p, i-1, i) {
			current++
		}
		out[i] = current
	}
	return out
}

// Lag returns the numeric field from the row n positions earlier in the
// partition; absent past the partition start or when the source value is
// itself absent.
func Lag(p Partition, field string, n int) []NullFloat {
	out := make([]NullFloat, p.Len())
	for i := 0; i < p.Len(); i++ {
		j := i - n
		if j < 0 {
			continue
		}
		if v, ok := p.Row(j).Num(field); ok {
			out[i] = Present(v)
		}
	}
	return out
}

// Lead returns the numeric field from the row n positions later in the
// partition; absent past the partition end.
func Lead(p Partition, field string, n int) []NullFloat {
	out := make([]NullFloat, p.Len())
	for i := 0; i < p.Len(); i++ {
		j := i + n
		if j >= p.Len() {
			continue
		}
		if v, ok := p.Row(j).Num(field); ok {
			out[i] = Present(v)
		}
	}
	return out
}

// AggregateFn names a running-aggregate function.
type AggregateFn string

const (
	AggSum   AggregateFn = "sum"
	AggAvg   AggregateFn = "avg"
	AggCount AggregateFn = "count"
)

// Running evaluates a cumulative aggregate over the frame "unbounded
// preceding to current row" (the only frame the system uses). Count counts
// rows; sum and avg skip absent source values and are themselves absent
// until at least one present value has been seen.
func Running(p Partition, field string, fn AggregateFn) []NullFloat {
	out := make([]NullFloat, p.Len())
	var sum float64
	present := 0
	for i := 0; i < p.Len(); i++ {
		if v, ok := p.Row(i).Num(field); ok {
			sum += v
			present++
		}
		switch fn {
		case AggCount:
			out[i] = Present(float64(i + 1))
		case AggSum:
			if present > 0 {
				out[i] = Present(sum)
			}
		case AggAvg:
			if present > 0 {
				out[i] = Present(sum / float64(present))
			}
		}
	}
	return out
}

// Ntile divides the partition into n buckets along sort order. When the
// partition size is not divisible by n, the first size%n buckets hold one
// extra row.
func Ntile(p Partition, n int) []int {
	k := p.Len()
	out := make([]int, k)
	if n <= 0 || k == 0 {
		return out
	}
	base := k / n
	extra := k % n
	pos := 0
	for bucket := 1; bucket <= n && pos < k; bucket++ {
		size := base
		if bucket <= extra {
			size++
		}
		for j := 0; j < size; j++ {
			out[pos] = bucket
			pos++
		}
	}
	return out
}

// PercentRank is (rank-1)/(k-1); a singleton partition yields 0 rather than
// a division by zero.
func PercentRank(p Partition) []float64 {
	k := p.Len()
	out := make([]float64, k)
	if k <= 1 {
		return out
	}
	ranks := Rank(p)
	for i, r := range ranks {
		out[i] = float64(r-1) / float64(k-1)
	}
	return out
}
