package analytics

import (
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// MonthlySales groups records by calendar month and reports distinct
// invoices and revenue per month in ascending month order. GrowthPercent is
// the change against the previous listed month; it is undefined for the
// first month and after a month without revenue.
func MonthlySales(records []domain.CleanedRecord) []domain.MonthlySales {
	type bucket struct {
		invoices map[string]struct{}
		revenue  float64
	}

	months := make(map[time.Time]*bucket)
	for _, r := range records {
		m := truncMonth(r.InvoiceDate)
		b, ok := months[m]
		if !ok {
			b = &bucket{invoices: make(map[string]struct{})}
			months[m] = b
		}
		b.invoices[r.InvoiceID] = struct{}{}
		b.revenue += r.LineTotal
	}

	keys := make([]time.Time, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]domain.MonthlySales, 0, len(keys))
	var prev float64
	for i, m := range keys {
		b := months[m]
		row := domain.MonthlySales{
			Month:    m,
			Invoices: len(b.invoices),
			Revenue:  money(b.revenue),
		}
		if i > 0 {
			row.GrowthPercent = domain.Percent(b.revenue-prev, prev).Round(moneyPlaces)
		}
		prev = b.revenue
		out = append(out, row)
	}
	return out
}
