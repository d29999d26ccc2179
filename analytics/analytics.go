// Package analytics derives business metrics (RFM scoring, cohort
// retention, growth rates, churn risk, market-basket co-occurrence and
// revenue rankings) from an immutable order snapshot.
//
// Every module returns an engine.Recordset with a fixed column schema and
// accepts an explicit reference time where "as of" semantics apply; nothing
// in this package reads the system clock.
package analytics

import (
	"fmt"
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

// ReferenceClock supplies the "as of" instant for recency computations.
// Production wiring uses the wall clock once, at the boundary; tests and
// replays inject a fixed instant.
type ReferenceClock interface {
	Now() time.Time
}

// FixedClock is a ReferenceClock pinned to one instant.
type FixedClock time.Time

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// WallClock reads the system clock. Only the CLI and API boundary use it.
type WallClock struct{}

// Now returns the current time.
func (WallClock) Now() time.Time { return time.Now() }

// monthKey formats a calendar month as "2006-01".
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthIndex maps a time to a linear month count, so month arithmetic is a
// plain subtraction.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// monthKeyFromIndex is the inverse of monthIndex for formatting.
func monthKeyFromIndex(idx int) string {
	return fmt.Sprintf("%04d-%02d", idx/12, idx%12+1)
}

// daysBetween returns whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// lastOrderDate returns the latest order date per customer.
func lastOrderDate(orders []dataset.Order) (time.Time, bool) {
	var last time.Time
	found := false
	for _, o := range orders {
		if !found || o.OrderDate.After(last) {
			last = o.OrderDate
			found = true
		}
	}
	return last, found
}
