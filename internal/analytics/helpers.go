package analytics

import (
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// moneyPlaces is the precision of every rounded monetary value
const moneyPlaces = 2

func money(v float64) float64 {
	return domain.Round(v, moneyPlaces)
}

// truncMonth returns midnight of the first day of t's month in t's location
func truncMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// truncDay returns midnight of t's day in t's location
func truncDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthIndex is year×12 + month, so the difference of two indexes is a
// month offset
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// customerTotal is the per-customer aggregate several metrics start from
type customerTotal struct {
	id           string
	revenue      float64
	invoices     map[string]struct{}
	products     map[string]struct{}
	lastPurchase time.Time
}

// totalsByCustomer aggregates records per customer. The result is ordered
// by customer id so downstream sums are reproducible.
func totalsByCustomer(records []domain.CleanedRecord) []*customerTotal {
	index := make(map[string]*customerTotal)
	for _, r := range records {
		ct, ok := index[r.CustomerID]
		if !ok {
			ct = &customerTotal{
				id:       r.CustomerID,
				invoices: make(map[string]struct{}),
				products: make(map[string]struct{}),
			}
			index[r.CustomerID] = ct
		}
		ct.revenue += r.LineTotal
		ct.invoices[r.InvoiceID] = struct{}{}
		ct.products[r.StockCode] = struct{}{}
		if r.InvoiceDate.After(ct.lastPurchase) {
			ct.lastPurchase = r.InvoiceDate
		}
	}

	totals := make([]*customerTotal, 0, len(index))
	for _, ct := range index {
		totals = append(totals, ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].id < totals[j].id
	})
	return totals
}

// rankByRevenueDesc orders totals by revenue descending, ties by id ascending
func rankByRevenueDesc(totals []*customerTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].revenue != totals[j].revenue {
			return totals[i].revenue > totals[j].revenue
		}
		return totals[i].id < totals[j].id
	})
}

// competitionRanks assigns standard competition ranks (1,1,3) and dense
// ranks (1,1,2) to values already sorted in descending order
func competitionRanks(sorted []float64) (ranks, dense []int) {
	ranks = make([]int, len(sorted))
	dense = make([]int, len(sorted))
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			ranks[i] = ranks[i-1]
			dense[i] = dense[i-1]
			continue
		}
		ranks[i] = i + 1
		if i == 0 {
			dense[i] = 1
		} else {
			dense[i] = dense[i-1] + 1
		}
	}
	return ranks, dense
}

// ntile returns the 1-based bucket of position i (0-based) when n ordered
// rows are split into tiles buckets. Sizes differ by at most one and the
// first n%tiles buckets hold the extra rows.
func ntile(i, n, tiles int) int {
	if tiles <= 0 || n <= 0 {
		return 0
	}
	size := n / tiles
	extra := n % tiles

	large := extra * (size + 1)
	if i < large {
		return i/(size+1) + 1
	}
	return extra + (i-large)/size + 1
}

// maxTimestamp returns the latest invoice timestamp of records
func maxTimestamp(records []domain.CleanedRecord) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.InvoiceDate.After(latest) {
			latest = r.InvoiceDate
		}
	}
	return latest
}

// tierOrder gives tiers a stable order for tie-breaks
var tierOrder = map[domain.ValueTier]int{
	domain.TierSmall:  0,
	domain.TierMedium: 1,
	domain.TierLarge:  2,
}
