package analytics

import (
	"ecomcli/pkg/contracts/domain"
)

// Result is the output of one aggregator. Rows is the number of rows in
// the produced table.
type Result struct {
	Report string
	Rows   int
	apply  func(*domain.AnalyticsResults)
}

// ApplyTo stores the result in its field of out
func (r Result) ApplyTo(out *domain.AnalyticsResults) {
	if r.apply != nil && out != nil {
		r.apply(out)
	}
}

// Aggregator is one metric computed from the cleaned records
type Aggregator struct {
	Report      string
	Description string
	Compute     func(records []domain.CleanedRecord, opts Options) Result
}

// Aggregators returns every metric aggregator in report order
func Aggregators() []Aggregator {
	return []Aggregator{
		{
			Report:      domain.ReportMonthlySales,
			Description: "Monthly invoices and revenue",
			Compute: func(records []domain.CleanedRecord, _ Options) Result {
				out := MonthlySales(records)
				return Result{domain.ReportMonthlySales, len(out), func(r *domain.AnalyticsResults) { r.MonthlySales = out }}
			},
		},
		{
			Report:      domain.ReportCustomerSummary,
			Description: "Per-customer orders and revenue",
			Compute: func(records []domain.CleanedRecord, _ Options) Result {
				out := CustomerSummary(records)
				return Result{domain.ReportCustomerSummary, len(out), func(r *domain.AnalyticsResults) { r.CustomerSummary = out }}
			},
		},
		{
			Report:      domain.ReportTopProducts,
			Description: "Best-selling products by revenue",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := TopProducts(records, opts.TopProductsLimit)
				return Result{domain.ReportTopProducts, len(out), func(r *domain.AnalyticsResults) { r.TopProducts = out }}
			},
		},
		{
			Report:      domain.ReportCountryDaily,
			Description: "Daily revenue by country with ranks",
			Compute: func(records []domain.CleanedRecord, _ Options) Result {
				out := DailyCountryRevenue(records)
				return Result{domain.ReportCountryDaily, len(out), func(r *domain.AnalyticsResults) { r.CountryDaily = out }}
			},
		},
		{
			Report:      domain.ReportSegments,
			Description: "Customer spend tiers",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := CustomerSegments(records, opts.Segments)
				return Result{domain.ReportSegments, len(out), func(r *domain.AnalyticsResults) { r.Segments = out }}
			},
		},
		{
			Report:      domain.ReportRFM,
			Description: "Recency, frequency and monetary scoring",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := RFM(records, opts.RFMTiles)
				return Result{domain.ReportRFM, len(out), func(r *domain.AnalyticsResults) { r.RFM = out }}
			},
		},
		{
			Report:      domain.ReportFrequency,
			Description: "Purchase frequency segments",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := PurchaseFrequency(records, opts.Frequency)
				return Result{domain.ReportFrequency, len(out), func(r *domain.AnalyticsResults) { r.Frequency = out }}
			},
		},
		{
			Report:      domain.ReportCohortRetention,
			Description: "Cohort retention by month offset",
			Compute: func(records []domain.CleanedRecord, _ Options) Result {
				out := CohortRetention(records)
				return Result{domain.ReportCohortRetention, len(out), func(r *domain.AnalyticsResults) { r.CohortRetention = out }}
			},
		},
		{
			Report:      domain.ReportCohortPivot,
			Description: "Cohort retention pivot",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := CohortPivot(records, opts.CohortPivotOffsets)
				return Result{domain.ReportCohortPivot, len(out), func(r *domain.AnalyticsResults) { r.CohortPivot = out }}
			},
		},
		{
			Report:      domain.ReportCustomerPareto,
			Description: "Customer revenue concentration",
			Compute: func(records []domain.CleanedRecord, _ Options) Result {
				out := CustomerPareto(records)
				return Result{domain.ReportCustomerPareto, len(out), func(r *domain.AnalyticsResults) { r.CustomerPareto = out }}
			},
		},
		{
			Report:      domain.ReportProductPareto,
			Description: "Top product revenue share",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := ProductPareto(records, opts.ParetoTopProducts)
				return Result{domain.ReportProductPareto, len(out.Products), func(r *domain.AnalyticsResults) { r.ProductPareto = out }}
			},
		},
		{
			Report:      domain.ReportSegmentShare,
			Description: "Revenue share by spend tier",
			Compute: func(records []domain.CleanedRecord, opts Options) Result {
				out := SegmentRevenueShare(records, opts.Segments)
				return Result{domain.ReportSegmentShare, len(out), func(r *domain.AnalyticsResults) { r.SegmentShare = out }}
			},
		},
	}
}

// Lookup returns the aggregator producing report
func Lookup(report string) (Aggregator, bool) {
	for _, a := range Aggregators() {
		if a.Report == report {
			return a, true
		}
	}
	return Aggregator{}, false
}
