// Package analytics computes the descriptive business metrics of cleaned
// e-commerce line items.
//
// Every aggregator is a pure function of a []domain.CleanedRecord. None of
// them mutate their input or share state, so they may run in any order or
// concurrently over the same slice.
//
// # Metrics
//
//   - monthly.go: invoices, revenue and growth per calendar month
//   - customers.go: customer summary, spend tiers and tier revenue share
//   - products.go: top products and product revenue concentration
//   - country.go: two-stage daily revenue per country with rank windows
//   - rfm.go: recency, frequency and monetary scoring with NTILE buckets
//   - frequency.go: average days between purchases
//   - cohort.go: first-purchase cohorts, retention and the pivoted view
//   - pareto.go: cumulative customer revenue share
//
// # Determinism
//
// Ranking and tiling ties are broken by key ascending (customer id, stock
// code, tier order). Monetary outputs are rounded half away from zero to
// cents. Divisions that could have a zero denominator yield a domain.Ratio,
// which is marked undefined instead of carrying Inf or NaN.
//
// # Usage
//
//	opts := analytics.OptionsFromConfig(cfg.Analysis)
//	for _, agg := range analytics.Aggregators() {
//	    agg.Compute(cleaned, opts).ApplyTo(results)
//	}
package analytics
