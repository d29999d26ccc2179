// Package ecommerce is the umbrella for a derived-analytics engine over
// transactional order data.
//
// Usage:
//
//	import (
//	    "github.com/Pedro24681/sql-ecommerce-case-study/analytics"
//	    "github.com/Pedro24681/sql-ecommerce-case-study/loader"
//	)
//
//	snap, err := loader.LoadDir("data/")
//	rfm, err := analytics.RFM(ctx, snap, asOf)
//
// The engine package supplies the building blocks: stable partition/sort,
// window operators (rank family, lag/lead, running aggregates, ntile,
// percent_rank) and a staged pipeline composer. The analytics package
// builds the business modules on top: RFM scoring, cohort retention,
// growth rates, churn risk, market-basket co-occurrence and revenue
// rankings. All computation is local and deterministic: recency metrics
// take an explicit reference time, never the system clock, and re-running
// on the same snapshot produces identical output including rank ties.
package ecommerce
