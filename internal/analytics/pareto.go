package analytics

import (
	"ecomcli/pkg/contracts/domain"
)

// CustomerPareto ranks customers by revenue descending, ties by customer id,
// and reports running revenue and its percentage of the total. The last
// row's cumulative share is 100.
func CustomerPareto(records []domain.CleanedRecord) []domain.ParetoRecord {
	totals := totalsByCustomer(records)
	rankByRevenueDesc(totals)

	// Total is accumulated in rank order so the final cumulative equals it exactly
	var total float64
	for _, ct := range totals {
		total += ct.revenue
	}

	out := make([]domain.ParetoRecord, 0, len(totals))
	var cumulative float64
	for i, ct := range totals {
		cumulative += ct.revenue
		out = append(out, domain.ParetoRecord{
			Rank:              i + 1,
			CustomerID:        ct.id,
			Revenue:           money(ct.revenue),
			CumulativeRevenue: money(cumulative),
			CumulativeShare:   domain.Percent(cumulative, total).Round(moneyPlaces),
		})
	}
	return out
}
