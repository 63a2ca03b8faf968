package exporter

import (
	"fmt"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// Layouts used for exported dates
const (
	MonthLayout     = "2006-01"
	DayLayout       = "2006-01-02"
	TimestampLayout = time.RFC3339
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatRatio formats a ratio with 2 decimal places, or "undefined"
func formatRatio(r domain.Ratio) string {
	return r.String()
}

func formatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

func formatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// formatTimestamp formats t as RFC3339; the zero time is empty
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
