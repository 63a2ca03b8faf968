package analytics

import (
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// DailyCountryRevenue sums line totals per invoice, country and day, then
// sums those invoice totals per day and country. Rank and DenseRank order
// every row by revenue descending; CountryAverage is the mean daily revenue
// of the row's country and CumulativeRevenue its running total over days.
// Rows are returned by country then day.
func DailyCountryRevenue(records []domain.CleanedRecord) []domain.CountryDailyRevenue {
	type invoiceKey struct {
		invoice, country string
		day              time.Time
	}
	type dayKey struct {
		country string
		day     time.Time
	}

	invoiceTotals := make(map[invoiceKey]float64)
	for _, r := range records {
		invoiceTotals[invoiceKey{r.InvoiceID, r.Country, truncDay(r.InvoiceDate)}] += r.LineTotal
	}

	// Sum invoice totals in a fixed order so float results are reproducible
	invoices := make([]invoiceKey, 0, len(invoiceTotals))
	for k := range invoiceTotals {
		invoices = append(invoices, k)
	}
	sort.Slice(invoices, func(i, j int) bool {
		if !invoices[i].day.Equal(invoices[j].day) {
			return invoices[i].day.Before(invoices[j].day)
		}
		if invoices[i].country != invoices[j].country {
			return invoices[i].country < invoices[j].country
		}
		return invoices[i].invoice < invoices[j].invoice
	})

	days := make(map[dayKey]*domain.CountryDailyRevenue)
	for _, k := range invoices {
		dk := dayKey{k.country, k.day}
		row, ok := days[dk]
		if !ok {
			row = &domain.CountryDailyRevenue{Day: k.day, Country: k.country}
			days[dk] = row
		}
		row.Revenue += invoiceTotals[k]
		row.Invoices++
	}

	rows := make([]*domain.CountryDailyRevenue, 0, len(days))
	for _, row := range days {
		row.Revenue = money(row.Revenue)
		rows = append(rows, row)
	}

	// Ranking over all rows by revenue
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		return rows[i].Day.Before(rows[j].Day)
	})
	revenues := make([]float64, len(rows))
	for i, row := range rows {
		revenues[i] = row.Revenue
	}
	ranks, dense := competitionRanks(revenues)
	for i, row := range rows {
		row.Rank = ranks[i]
		row.DenseRank = dense[i]
	}

	// Country windows over days
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		return rows[i].Day.Before(rows[j].Day)
	})

	out := make([]domain.CountryDailyRevenue, 0, len(rows))
	for start := 0; start < len(rows); {
		end := start
		var sum float64
		for end < len(rows) && rows[end].Country == rows[start].Country {
			sum += rows[end].Revenue
			end++
		}
		avg := money(sum / float64(end-start))

		var cumulative float64
		for _, row := range rows[start:end] {
			cumulative += row.Revenue
			row.CountryAverage = avg
			row.CumulativeRevenue = money(cumulative)
			out = append(out, *row)
		}
		start = end
	}
	return out
}
