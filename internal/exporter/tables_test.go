package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/pkg/contracts/domain"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleResults() *domain.AnalyticsResults {
	return &domain.AnalyticsResults{
		RunID:  "run-1",
		Source: "sample.csv",
		Cleaning: &domain.CleaningStats{
			InputRows: 9, KeptRows: 5, Cancelled: 2, NonPositiveQuantity: 1, MissingCustomer: 1,
		},
		MonthlySales: []domain.MonthlySales{
			{Month: month(2010, time.December), Invoices: 2, Revenue: 100, GrowthPercent: domain.Ratio{}},
			{Month: month(2011, time.January), Invoices: 3, Revenue: 150.556, GrowthPercent: domain.DefinedRatio(50.5)},
		},
		CohortPivot: []domain.CohortPivotRow{
			{CohortMonth: month(2010, time.December), BaseCustomers: 4,
				Retention: []domain.Ratio{domain.DefinedRatio(100), domain.DefinedRatio(25)}},
			{CohortMonth: month(2011, time.January), BaseCustomers: 2,
				Retention: []domain.Ratio{domain.DefinedRatio(100)}},
		},
		SegmentShare: []domain.SegmentShare{
			{Tier: domain.TierLarge, Revenue: 900, SharePercent: domain.DefinedRatio(90)},
			{Tier: domain.TierSmall, Revenue: 100, SharePercent: domain.DefinedRatio(10)},
		},
	}
}

func TestTables(t *testing.T) {
	t.Run("nil results", func(t *testing.T) {
		assert.Nil(t, Tables(nil))
	})

	t.Run("only computed reports in report order", func(t *testing.T) {
		tables := Tables(sampleResults())
		names := make([]string, len(tables))
		for i, tbl := range tables {
			names[i] = tbl.Name
		}
		assert.Equal(t, []string{
			domain.ReportCleaning,
			domain.ReportMonthlySales,
			domain.ReportCohortPivot,
			domain.ReportSegmentShare,
		}, names)
	})

	t.Run("empty slice still yields a table", func(t *testing.T) {
		tables := Tables(&domain.AnalyticsResults{RFM: []domain.RFMRecord{}})
		require.Len(t, tables, 1)
		assert.Equal(t, domain.ReportRFM, tables[0].Name)
		assert.Zero(t, tables[0].Len())
		assert.Len(t, tables[0].Headers, 8)
	})
}

func TestMonthlySalesTable(t *testing.T) {
	tbl := monthlySalesTable(sampleResults().MonthlySales)

	assert.Equal(t, []string{"month", "invoices", "revenue", "growth_percent"}, tbl.Headers)
	assert.Equal(t, []bool{false, true, true, true}, tbl.Numeric)
	assert.Equal(t, [][]string{
		{"2010-12", "2", "100.00", "undefined"},
		{"2011-01", "3", "150.56", "50.50"},
	}, tbl.Rows)
}

func TestCleaningTable(t *testing.T) {
	tbl := cleaningTable(*sampleResults().Cleaning)

	values := make(map[string]string, tbl.Len())
	for _, row := range tbl.Rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "9", values["input_rows"])
	assert.Equal(t, "5", values["kept_rows"])
	assert.Equal(t, "4", values["dropped_rows"])
	assert.Equal(t, "0", values["non_positive_price"])
}

func TestExplorationTable(t *testing.T) {
	first := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	tbl := explorationTable(domain.ExplorationReport{
		RowCount:         3,
		NullCounts:       map[string]int{"description": 1, "customer_id": 2},
		FirstInvoiceDate: first,
	})

	assert.Equal(t, []string{"row_count", "3"}, tbl.Rows[0])
	assert.Equal(t, []string{"null_customer_id", "2"}, tbl.Rows[1])
	assert.Equal(t, []string{"null_description", "1"}, tbl.Rows[2])

	last := tbl.Rows[len(tbl.Rows)-2:]
	assert.Equal(t, []string{"first_invoice_date", "2010-12-01T08:26:00Z"}, last[0])
	assert.Equal(t, []string{"last_invoice_date", ""}, last[1])
}

func TestCohortPivotTable(t *testing.T) {
	tbl := cohortPivotTable(sampleResults().CohortPivot)

	assert.Equal(t, []string{"cohort_month", "base_count", "offset_0", "offset_1"}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"2010-12", "4", "100.00", "25.00"},
		{"2011-01", "2", "100.00", "undefined"},
	}, tbl.Rows)
}

func TestProductParetoTable(t *testing.T) {
	tbl := productParetoTable(domain.ProductPareto{
		TopN:         2,
		TopRevenue:   80,
		TotalRevenue: 100,
		TopShare:     domain.DefinedRatio(80),
		Products: []domain.ProductParetoRecord{
			{Rank: 1, StockCode: "A", Revenue: 50, CumulativeRevenue: 50, CumulativeShare: domain.DefinedRatio(50)},
			{Rank: 2, StockCode: "B", Revenue: 30, CumulativeRevenue: 80, CumulativeShare: domain.DefinedRatio(80)},
		},
	})

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"2", "B", "30.00", "80.00", "100.00", "80.00"}, tbl.Rows[1])
}

func TestRFMTable(t *testing.T) {
	tbl := rfmTable([]domain.RFMRecord{{
		CustomerID:   "17850",
		LastPurchase: time.Date(2011, 1, 5, 10, 0, 0, 0, time.UTC),
		Recency:      36*time.Hour + 400*time.Millisecond,
		RecencyDays:  1,
		Frequency:    3,
		Monetary:     42.5,
		Tile:         1,
		ValueSegment: domain.SegmentHighValue,
	}})

	assert.Equal(t, []string{
		"17850", "2011-01-05T10:00:00Z", "36h0m0s", "1", "3", "42.50", "1", "High Value",
	}, tbl.Rows[0])
}

func TestCellValue(t *testing.T) {
	tbl := newTable("t", text("name"), num("value"))

	tests := []struct {
		name   string
		column int
		value  string
		want   interface{}
	}{
		{"text column", 0, "12", "12"},
		{"numeric column", 1, "12.50", 12.5},
		{"undefined ratio stays text", 1, "undefined", "undefined"},
		{"out of range column", 5, "1", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellValue(tbl, tt.column, tt.value))
		})
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "rfm", sheetName("rfm"))
	assert.Len(t, sheetName("a_report_name_that_is_far_too_long_for_excel"), maxSheetName)
}
