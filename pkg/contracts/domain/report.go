package domain

import (
	"time"
)

// Report names. Each names one exported result table.
const (
	ReportExploration     = "exploration"
	ReportCleaning        = "cleaning"
	ReportMonthlySales    = "monthly_sales"
	ReportCustomerSummary = "customer_summary"
	ReportTopProducts     = "top_products"
	ReportCountryDaily    = "country_daily_revenue"
	ReportSegments        = "customer_segments"
	ReportRFM             = "rfm"
	ReportFrequency       = "purchase_frequency"
	ReportCohortRetention = "cohort_retention"
	ReportCohortPivot     = "cohort_pivot"
	ReportCustomerPareto  = "customer_pareto"
	ReportProductPareto   = "product_pareto"
	ReportSegmentShare    = "segment_revenue_share"
)

// AllReports lists every report in export order.
func AllReports() []string {
	return []string{
		ReportExploration,
		ReportCleaning,
		ReportMonthlySales,
		ReportCustomerSummary,
		ReportTopProducts,
		ReportCountryDaily,
		ReportSegments,
		ReportRFM,
		ReportFrequency,
		ReportCohortRetention,
		ReportCohortPivot,
		ReportCustomerPareto,
		ReportProductPareto,
		ReportSegmentShare,
	}
}

// IsKnownReport reports whether name is one of AllReports.
func IsKnownReport(name string) bool {
	for _, r := range AllReports() {
		if r == name {
			return true
		}
	}
	return false
}

// AnalyticsResults gathers every result table of one run.
// Fields are nil when the corresponding report was not requested.
type AnalyticsResults struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`

	Exploration     *ExplorationReport       `json:"exploration,omitempty"`
	Cleaning        *CleaningStats           `json:"cleaning,omitempty"`
	MonthlySales    []MonthlySales           `json:"monthly_sales,omitempty"`
	CustomerSummary []CustomerProfile        `json:"customer_summary,omitempty"`
	TopProducts     []ProductRevenue         `json:"top_products,omitempty"`
	CountryDaily    []CountryDailyRevenue    `json:"country_daily_revenue,omitempty"`
	Segments        []SegmentSummary         `json:"customer_segments,omitempty"`
	RFM             []RFMRecord              `json:"rfm,omitempty"`
	Frequency       []FrequencySegmentRecord `json:"purchase_frequency,omitempty"`
	CohortRetention []CohortRecord           `json:"cohort_retention,omitempty"`
	CohortPivot     []CohortPivotRow         `json:"cohort_pivot,omitempty"`
	CustomerPareto  []ParetoRecord           `json:"customer_pareto,omitempty"`
	ProductPareto   *ProductPareto           `json:"product_pareto,omitempty"`
	SegmentShare    []SegmentShare           `json:"segment_revenue_share,omitempty"`
}
