package analytics

import (
	"sort"

	"ecomcli/pkg/contracts/domain"
)

// CustomerSummary returns one profile per customer ordered by customer id.
// AverageOrder is revenue over distinct invoices, rounded to cents.
func CustomerSummary(records []domain.CleanedRecord) []domain.CustomerProfile {
	totals := totalsByCustomer(records)

	out := make([]domain.CustomerProfile, 0, len(totals))
	for _, ct := range totals {
		orders := len(ct.invoices)
		out = append(out, domain.CustomerProfile{
			CustomerID:       ct.id,
			UniqueOrders:     orders,
			Revenue:          money(ct.revenue),
			AverageOrder:     domain.Divide(ct.revenue, float64(orders)).Round(moneyPlaces),
			DistinctProducts: len(ct.products),
		})
	}
	return out
}

type tierTotal struct {
	tier      domain.ValueTier
	customers int
	revenue   float64
}

// tierTotals classifies every customer by total spend and sums per tier.
// Only tiers with at least one customer are returned, in tier order.
func tierTotals(records []domain.CleanedRecord, thresholds SegmentThresholds) []tierTotal {
	byTier := make(map[domain.ValueTier]*tierTotal)
	for _, ct := range totalsByCustomer(records) {
		tier := thresholds.Classify(ct.revenue)
		tt, ok := byTier[tier]
		if !ok {
			tt = &tierTotal{tier: tier}
			byTier[tier] = tt
		}
		tt.customers++
		tt.revenue += ct.revenue
	}

	out := make([]tierTotal, 0, len(byTier))
	for _, tt := range byTier {
		out = append(out, *tt)
	}
	sort.Slice(out, func(i, j int) bool {
		return tierOrder[out[i].tier] < tierOrder[out[j].tier]
	})
	return out
}

// CustomerSegments reports customer count, revenue and average revenue per
// spend tier, ordered by revenue descending
func CustomerSegments(records []domain.CleanedRecord, thresholds SegmentThresholds) []domain.SegmentSummary {
	tiers := tierTotals(records, thresholds)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].revenue > tiers[j].revenue
	})

	out := make([]domain.SegmentSummary, 0, len(tiers))
	for _, tt := range tiers {
		out = append(out, domain.SegmentSummary{
			Tier:           tt.tier,
			Customers:      tt.customers,
			Revenue:        money(tt.revenue),
			AverageRevenue: domain.Divide(tt.revenue, float64(tt.customers)).Round(moneyPlaces),
		})
	}
	return out
}

// SegmentRevenueShare reports each spend tier's percentage of total revenue,
// ordered by share descending
func SegmentRevenueShare(records []domain.CleanedRecord, thresholds SegmentThresholds) []domain.SegmentShare {
	tiers := tierTotals(records, thresholds)

	var total float64
	for _, tt := range tiers {
		total += tt.revenue
	}

	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].revenue > tiers[j].revenue
	})

	out := make([]domain.SegmentShare, 0, len(tiers))
	for _, tt := range tiers {
		out = append(out, domain.SegmentShare{
			Tier:         tt.tier,
			Revenue:      money(tt.revenue),
			SharePercent: domain.Percent(tt.revenue, total).Round(moneyPlaces),
		})
	}
	return out
}
