package analytics

import (
	"time"

	"ecomcli/pkg/contracts/domain"
)

// RFM scores each customer by recency, frequency and monetary value.
// Recency is measured from the latest timestamp in records. Customers are
// split into tiles buckets by monetary value descending, ties by customer
// id, and rows are returned in that order.
func RFM(records []domain.CleanedRecord, tiles int) []domain.RFMRecord {
	if tiles <= 0 {
		tiles = 3
	}

	latest := maxTimestamp(records)
	totals := totalsByCustomer(records)
	rankByRevenueDesc(totals)

	out := make([]domain.RFMRecord, 0, len(totals))
	for i, ct := range totals {
		recency := latest.Sub(ct.lastPurchase)
		tile := ntile(i, len(totals), tiles)
		out = append(out, domain.RFMRecord{
			CustomerID:   ct.id,
			LastPurchase: ct.lastPurchase,
			Recency:      recency,
			RecencyDays:  int(recency / (24 * time.Hour)),
			Frequency:    len(ct.invoices),
			Monetary:     money(ct.revenue),
			Tile:         tile,
			ValueSegment: valueSegment(tile, tiles),
		})
	}
	return out
}

// valueSegment names a monetary tile: the first is high value, the last
// low value and any in between medium value
func valueSegment(tile, tiles int) string {
	switch {
	case tile == 1:
		return domain.SegmentHighValue
	case tile == tiles:
		return domain.SegmentLowValue
	default:
		return domain.SegmentMediumValue
	}
}
