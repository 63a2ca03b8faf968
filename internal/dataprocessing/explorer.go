package dataprocessing

import (
	"log/slog"
	"strings"

	"ecomcli/pkg/contracts/domain"
)

// Explorer reports on the raw dataset before any filtering
type Explorer struct {
	logger *slog.Logger
	marker string
}

// NewExplorer creates an explorer using marker to detect cancelled invoices
func NewExplorer(logger *slog.Logger, marker string) *Explorer {
	if logger == nil {
		logger = slog.Default()
	}
	if marker == "" {
		marker = domain.DefaultCancellationMarker
	}
	return &Explorer{logger: logger, marker: marker}
}

// Explore computes the exploration report. It never mutates records and
// returns an all-zero report for empty input.
func (e *Explorer) Explore(records []domain.RawRecord) domain.ExplorationReport {
	report := domain.ExplorationReport{
		RowCount:   len(records),
		NullCounts: make(map[string]int, len(Columns)),
	}
	for _, c := range Columns {
		report.NullCounts[c] = 0
	}

	cancelledInvoices := make(map[string]struct{})
	customers := make(map[string]struct{})
	countries := make(map[string]struct{})

	for _, r := range records {
		countNulls(report.NullCounts, r)

		if r.IsCancelled(e.marker) {
			report.CancelledRows++
			cancelledInvoices[r.InvoiceID] = struct{}{}
		}
		if r.Quantity < 0 || r.UnitPrice < 0 {
			report.NegativeValueRows++
		}
		if r.HasCustomer() {
			customers[r.CustomerID] = struct{}{}
		}
		if country := strings.TrimSpace(r.Country); country != "" {
			countries[country] = struct{}{}
		}

		if !r.InvoiceDate.IsZero() {
			if report.FirstInvoiceDate.IsZero() || r.InvoiceDate.Before(report.FirstInvoiceDate) {
				report.FirstInvoiceDate = r.InvoiceDate
			}
			if r.InvoiceDate.After(report.LastInvoiceDate) {
				report.LastInvoiceDate = r.InvoiceDate
			}
		}
	}

	report.CancelledInvoices = len(cancelledInvoices)
	report.DistinctCustomers = len(customers)
	report.DistinctCountries = len(countries)

	e.logger.Debug("Exploration complete",
		slog.Int("rows", report.RowCount),
		slog.Int("cancelled_invoices", report.CancelledInvoices),
		slog.Int("negative_value_rows", report.NegativeValueRows),
		slog.Int("distinct_customers", report.DistinctCustomers))

	return report
}

// countNulls increments counts for every blank field of r. Quantity and
// unit price are always present once parsed.
func countNulls(counts map[string]int, r domain.RawRecord) {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	if blank(r.InvoiceID) {
		counts[ColInvoiceID]++
	}
	if blank(r.StockCode) {
		counts[ColStockCode]++
	}
	if blank(r.Description) {
		counts[ColDescription]++
	}
	if r.InvoiceDate.IsZero() {
		counts[ColInvoiceDate]++
	}
	if blank(r.CustomerID) {
		counts[ColCustomerID]++
	}
	if blank(r.Country) {
		counts[ColCountry]++
	}
}
