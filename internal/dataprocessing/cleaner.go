package dataprocessing

import (
	"log/slog"

	"ecomcli/pkg/contracts/domain"
)

// Reasons a record is removed by cleaning, in evaluation order
const (
	DropCancelled           = "cancelled"
	DropNonPositiveQuantity = "non_positive_quantity"
	DropNonPositivePrice    = "non_positive_price"
	DropMissingCustomer     = "missing_customer"
)

// Cleaner applies the gating filter every metric depends on
type Cleaner struct {
	logger *slog.Logger
	marker string
}

// NewCleaner creates a cleaner using marker to detect cancelled invoices
func NewCleaner(logger *slog.Logger, marker string) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if marker == "" {
		marker = domain.DefaultCancellationMarker
	}
	return &Cleaner{logger: logger, marker: marker}
}

// DropReason returns the first predicate r fails, or "" if r is kept
func (c *Cleaner) DropReason(r domain.RawRecord) string {
	switch {
	case r.IsCancelled(c.marker):
		return DropCancelled
	case r.Quantity <= 0:
		return DropNonPositiveQuantity
	case r.UnitPrice <= 0:
		return DropNonPositivePrice
	case !r.HasCustomer():
		return DropMissingCustomer
	default:
		return ""
	}
}

// Clean keeps records passing every predicate, in input order, and
// computes their line totals. The input slice is not modified.
func (c *Cleaner) Clean(records []domain.RawRecord) ([]domain.CleanedRecord, domain.CleaningStats) {
	stats := domain.CleaningStats{InputRows: len(records)}
	cleaned := make([]domain.CleanedRecord, 0, len(records))

	for _, r := range records {
		switch c.DropReason(r) {
		case DropCancelled:
			stats.Cancelled++
		case DropNonPositiveQuantity:
			stats.NonPositiveQuantity++
		case DropNonPositivePrice:
			stats.NonPositivePrice++
		case DropMissingCustomer:
			stats.MissingCustomer++
		default:
			cleaned = append(cleaned, domain.NewCleanedRecord(r))
		}
	}
	stats.KeptRows = len(cleaned)

	c.logger.Info("Cleaning complete",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("kept_rows", stats.KeptRows),
		slog.Int("cancelled", stats.Cancelled),
		slog.Int("non_positive_quantity", stats.NonPositiveQuantity),
		slog.Int("non_positive_price", stats.NonPositivePrice),
		slog.Int("missing_customer", stats.MissingCustomer))

	return cleaned, stats
}

// Reclean runs cleaning over an already cleaned set. For a set produced
// by Clean the result is identical to the input.
func (c *Cleaner) Reclean(cleaned []domain.CleanedRecord) ([]domain.CleanedRecord, domain.CleaningStats) {
	raw := make([]domain.RawRecord, len(cleaned))
	for i, r := range cleaned {
		raw[i] = r.RawRecord
	}
	return c.Clean(raw)
}

// DropCounts returns the per-reason counts of stats keyed by reason
func DropCounts(stats domain.CleaningStats) map[string]int {
	return map[string]int{
		DropCancelled:           stats.Cancelled,
		DropNonPositiveQuantity: stats.NonPositiveQuantity,
		DropNonPositivePrice:    stats.NonPositivePrice,
		DropMissingCustomer:     stats.MissingCustomer,
	}
}
