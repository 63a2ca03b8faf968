package exporter

import (
	"fmt"
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// Table is one named result table rendered as strings. Numeric marks the
// columns that hold numbers; an "undefined" ratio in such a column stays
// text.
type Table struct {
	Name    string
	Headers []string
	Numeric []bool
	Rows    [][]string
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

type column struct {
	name    string
	numeric bool
}

func text(name string) column { return column{name: name} }
func num(name string) column  { return column{name: name, numeric: true} }

func newTable(name string, cols ...column) Table {
	t := Table{
		Name:    name,
		Headers: make([]string, len(cols)),
		Numeric: make([]bool, len(cols)),
		Rows:    [][]string{},
	}
	for i, c := range cols {
		t.Headers[i] = c.name
		t.Numeric[i] = c.numeric
	}
	return t
}

func (t *Table) add(values ...string) {
	t.Rows = append(t.Rows, values)
}

// Tables renders every non-nil result of results, in report order
func Tables(results *domain.AnalyticsResults) []Table {
	if results == nil {
		return nil
	}

	var tables []Table
	if results.Exploration != nil {
		tables = append(tables, explorationTable(*results.Exploration))
	}
	if results.Cleaning != nil {
		tables = append(tables, cleaningTable(*results.Cleaning))
	}
	if results.MonthlySales != nil {
		tables = append(tables, monthlySalesTable(results.MonthlySales))
	}
	if results.CustomerSummary != nil {
		tables = append(tables, customerSummaryTable(results.CustomerSummary))
	}
	if results.TopProducts != nil {
		tables = append(tables, topProductsTable(results.TopProducts))
	}
	if results.CountryDaily != nil {
		tables = append(tables, countryDailyTable(results.CountryDaily))
	}
	if results.Segments != nil {
		tables = append(tables, segmentsTable(results.Segments))
	}
	if results.RFM != nil {
		tables = append(tables, rfmTable(results.RFM))
	}
	if results.Frequency != nil {
		tables = append(tables, frequencyTable(results.Frequency))
	}
	if results.CohortRetention != nil {
		tables = append(tables, cohortRetentionTable(results.CohortRetention))
	}
	if results.CohortPivot != nil {
		tables = append(tables, cohortPivotTable(results.CohortPivot))
	}
	if results.CustomerPareto != nil {
		tables = append(tables, customerParetoTable(results.CustomerPareto))
	}
	if results.ProductPareto != nil {
		tables = append(tables, productParetoTable(*results.ProductPareto))
	}
	if results.SegmentShare != nil {
		tables = append(tables, segmentShareTable(results.SegmentShare))
	}
	return tables
}

func explorationTable(r domain.ExplorationReport) Table {
	t := newTable(domain.ReportExploration, text("metric"), num("value"))
	t.add("row_count", formatInt(r.RowCount))

	fields := make([]string, 0, len(r.NullCounts))
	for f := range r.NullCounts {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		t.add("null_"+f, formatInt(r.NullCounts[f]))
	}

	t.add("cancelled_invoices", formatInt(r.CancelledInvoices))
	t.add("cancelled_rows", formatInt(r.CancelledRows))
	t.add("negative_value_rows", formatInt(r.NegativeValueRows))
	t.add("distinct_customers", formatInt(r.DistinctCustomers))
	t.add("distinct_countries", formatInt(r.DistinctCountries))
	t.add("first_invoice_date", formatTimestamp(r.FirstInvoiceDate))
	t.add("last_invoice_date", formatTimestamp(r.LastInvoiceDate))
	return t
}

func cleaningTable(s domain.CleaningStats) Table {
	t := newTable(domain.ReportCleaning, text("metric"), num("value"))
	t.add("input_rows", formatInt(s.InputRows))
	t.add("kept_rows", formatInt(s.KeptRows))
	t.add("dropped_rows", formatInt(s.Dropped()))
	t.add("cancelled", formatInt(s.Cancelled))
	t.add("non_positive_quantity", formatInt(s.NonPositiveQuantity))
	t.add("non_positive_price", formatInt(s.NonPositivePrice))
	t.add("missing_customer", formatInt(s.MissingCustomer))
	return t
}

func monthlySalesTable(rows []domain.MonthlySales) Table {
	t := newTable(domain.ReportMonthlySales,
		text("month"), num("invoices"), num("revenue"), num("growth_percent"))
	for _, r := range rows {
		t.add(formatMonth(r.Month), formatInt(r.Invoices), formatFloat(r.Revenue), formatRatio(r.GrowthPercent))
	}
	return t
}

func customerSummaryTable(rows []domain.CustomerProfile) Table {
	t := newTable(domain.ReportCustomerSummary,
		text("customer_id"), num("uniq_orders"), num("sum_linetotal"), num("avg_order_value"), num("distinct_products"))
	for _, r := range rows {
		t.add(r.CustomerID, formatInt(r.UniqueOrders), formatFloat(r.Revenue), formatRatio(r.AverageOrder), formatInt(r.DistinctProducts))
	}
	return t
}

func topProductsTable(rows []domain.ProductRevenue) Table {
	t := newTable(domain.ReportTopProducts,
		text("stock_code"), text("description"), num("revenue"), num("quantity"))
	for _, r := range rows {
		t.add(r.StockCode, r.Description, formatFloat(r.Revenue), formatInt(r.Quantity))
	}
	return t
}

func countryDailyTable(rows []domain.CountryDailyRevenue) Table {
	t := newTable(domain.ReportCountryDaily,
		text("day"), text("country"), num("revenue"), num("invoices"), num("rank"),
		num("dense_rank"), num("country_average"), num("cumulative_revenue"))
	for _, r := range rows {
		t.add(formatDay(r.Day), r.Country, formatFloat(r.Revenue), formatInt(r.Invoices), formatInt(r.Rank),
			formatInt(r.DenseRank), formatFloat(r.CountryAverage), formatFloat(r.CumulativeRevenue))
	}
	return t
}

func segmentsTable(rows []domain.SegmentSummary) Table {
	t := newTable(domain.ReportSegments,
		text("segment"), num("customers"), num("total_revenue"), num("avg_revenue"))
	for _, r := range rows {
		t.add(string(r.Tier), formatInt(r.Customers), formatFloat(r.Revenue), formatRatio(r.AverageRevenue))
	}
	return t
}

func rfmTable(rows []domain.RFMRecord) Table {
	t := newTable(domain.ReportRFM,
		text("customer_id"), text("last_purchase"), text("recency"), num("recency_days"),
		num("frequency"), num("monetary"), num("tile"), text("value_segment"))
	for _, r := range rows {
		t.add(r.CustomerID, formatTimestamp(r.LastPurchase), r.Recency.Round(time.Second).String(), formatInt(r.RecencyDays),
			formatInt(r.Frequency), formatFloat(r.Monetary), formatInt(r.Tile), r.ValueSegment)
	}
	return t
}

func frequencyTable(rows []domain.FrequencySegmentRecord) Table {
	t := newTable(domain.ReportFrequency,
		text("customer_id"), num("purchases"), num("avg_gap_days"), text("segment"))
	for _, r := range rows {
		t.add(r.CustomerID, formatInt(r.Purchases), formatRatio(r.AverageGapDays), r.Segment)
	}
	return t
}

func cohortRetentionTable(rows []domain.CohortRecord) Table {
	t := newTable(domain.ReportCohortRetention,
		text("cohort_month"), num("month_offset"), num("customer_count"), num("base_count"), num("retention_rate"))
	for _, r := range rows {
		t.add(formatMonth(r.CohortMonth), formatInt(r.MonthOffset), formatInt(r.Customers), formatInt(r.BaseCustomers), formatRatio(r.RetentionRate))
	}
	return t
}

func cohortPivotTable(rows []domain.CohortPivotRow) Table {
	offsets := 0
	for _, r := range rows {
		if len(r.Retention) > offsets {
			offsets = len(r.Retention)
		}
	}

	cols := []column{text("cohort_month"), num("base_count")}
	for i := 0; i < offsets; i++ {
		cols = append(cols, num(fmt.Sprintf("offset_%d", i)))
	}

	t := newTable(domain.ReportCohortPivot, cols...)
	for _, r := range rows {
		values := []string{formatMonth(r.CohortMonth), formatInt(r.BaseCustomers)}
		for i := 0; i < offsets; i++ {
			if i < len(r.Retention) {
				values = append(values, formatRatio(r.Retention[i]))
			} else {
				values = append(values, domain.UndefinedRatio)
			}
		}
		t.add(values...)
	}
	return t
}

func customerParetoTable(rows []domain.ParetoRecord) Table {
	t := newTable(domain.ReportCustomerPareto,
		num("rank"), text("customer_id"), num("revenue"), num("cumulative_revenue"), num("cumulative_share"))
	for _, r := range rows {
		t.add(formatInt(r.Rank), r.CustomerID, formatFloat(r.Revenue), formatFloat(r.CumulativeRevenue), formatRatio(r.CumulativeShare))
	}
	return t
}

func productParetoTable(p domain.ProductPareto) Table {
	t := newTable(domain.ReportProductPareto,
		num("rank"), text("stock_code"), num("revenue"), num("cumulative_revenue"), num("total_revenue"), num("cumulative_share"))
	for _, r := range p.Products {
		t.add(formatInt(r.Rank), r.StockCode, formatFloat(r.Revenue), formatFloat(r.CumulativeRevenue), formatFloat(p.TotalRevenue), formatRatio(r.CumulativeShare))
	}
	return t
}

func segmentShareTable(rows []domain.SegmentShare) Table {
	t := newTable(domain.ReportSegmentShare,
		text("segment"), num("revenue"), num("share_percent"))
	for _, r := range rows {
		t.add(string(r.Tier), formatFloat(r.Revenue), formatRatio(r.SharePercent))
	}
	return t
}
