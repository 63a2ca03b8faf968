package analytics

import (
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// purchaseTimes returns, per customer, the sorted timestamps of their
// distinct invoices. An invoice spanning several timestamps counts once at
// its earliest one.
func purchaseTimes(records []domain.CleanedRecord) map[string][]time.Time {
	type invoiceKey struct{ customer, invoice string }

	first := make(map[invoiceKey]time.Time)
	for _, r := range records {
		k := invoiceKey{r.CustomerID, r.InvoiceID}
		if t, ok := first[k]; !ok || r.InvoiceDate.Before(t) {
			first[k] = r.InvoiceDate
		}
	}

	purchases := make(map[string][]time.Time)
	for k, t := range first {
		purchases[k.customer] = append(purchases[k.customer], t)
	}
	for _, times := range purchases {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	}
	return purchases
}

// averageGapDays is the mean of the gaps in days between consecutive
// purchases; it is undefined with fewer than two purchases
func averageGapDays(times []time.Time) domain.Ratio {
	if len(times) < 2 {
		return domain.Ratio{}
	}
	var sum float64
	for i := 1; i < len(times); i++ {
		sum += times[i].Sub(times[i-1]).Hours() / 24
	}
	return domain.Divide(sum, float64(len(times)-1))
}

// PurchaseFrequency classifies customers by the average number of days
// between their purchases. Customers with a single purchase are assigned
// the one-time segment with an undefined average. Rows are ordered by
// customer id.
func PurchaseFrequency(records []domain.CleanedRecord, thresholds FrequencyThresholds) []domain.FrequencySegmentRecord {
	purchases := purchaseTimes(records)

	ids := make([]string, 0, len(purchases))
	for id := range purchases {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.FrequencySegmentRecord, 0, len(ids))
	for _, id := range ids {
		avg := averageGapDays(purchases[id])
		out = append(out, domain.FrequencySegmentRecord{
			CustomerID:     id,
			Purchases:      len(purchases[id]),
			AverageGapDays: avg.Round(moneyPlaces),
			Segment:        thresholds.Classify(avg),
		})
	}
	return out
}
