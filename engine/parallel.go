package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// PARTITION FAN-OUT — concurrent per-partition computation
// ============================================================================
// Partitions share no mutable state, so window operators may run across
// them on any number of workers. Cross-partition reductions (a percentage
// of grand total) need a barrier: partition-local sums must all land
// before the global denominator exists.
// ============================================================================

// DefaultWorkers is used when a caller passes a non-positive worker count.
const DefaultWorkers = 4

// ForEachPartition runs fn over every partition, at most workers at a time.
// fn must only touch rows of the partition it is handed.
func ForEachPartition(ctx context.Context, parts []Partition, workers int, fn func(Partition) error) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range parts {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(p)
		})
	}
	return g.Wait()
}

// PercentOfTotal computes each row's share of the grand total of a numeric
// field across all partitions, as a percentage rounded to 2 decimal places.
// Partition sums run concurrently; the per-row division happens only after
// the grand total is known. A zero or absent grand total yields absent
// shares rather than a division by zero.
func PercentOfTotal(ctx context.Context, parts []Partition, field string, workers int) ([][]NullFloat, error) {
	sums := make([]float64, len(parts))
	if err := forEachIndexed(ctx, parts, workers, func(n int, p Partition) error {
		var s float64
		for i := 0; i < p.Len(); i++ {
			if v, ok := p.Row(i).Num(field); ok {
				s += v
			}
		}
		sums[n] = s
		return nil
	}); err != nil {
		return nil, err
	}

	var total float64
	for _, s := range sums {
		total += s
	}

	out := make([][]NullFloat, len(parts))
	err := forEachIndexed(ctx, parts, workers, func(n int, p Partition) error {
		shares := make([]NullFloat, p.Len())
		for i := 0; i < p.Len(); i++ {
			v, ok := p.Row(i).Num(field)
			if ok && total != 0 {
				shares[i] = Present(Round2(v / total * 100))
			}
		}
		out[n] = shares
		return nil
	})
	return out, err
}

func forEachIndexed(ctx context.Context, parts []Partition, workers int, fn func(int, Partition) error) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for n, p := range parts {
		n, p := n, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(n, p)
		})
	}
	return g.Wait()
}
