package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func TestCleaner_DropReason(t *testing.T) {
	at := testutil.At(2011, 1, 1, 10, 0)
	c := NewCleaner(nil, "")

	tests := []struct {
		name string
		rec  domain.RawRecord
		want string
	}{
		{"kept", testutil.Raw("100", "A", "C1", at, 2, 1.5), ""},
		{"cancelled wins over everything", testutil.Raw("C100", "A", "", at, -1, 0), DropCancelled},
		{"cancelled but otherwise valid", testutil.Raw("C100", "A", "C1", at, 2, 1.5), DropCancelled},
		{"zero quantity", testutil.Raw("100", "A", "C1", at, 0, 1.5), DropNonPositiveQuantity},
		{"negative quantity", testutil.Raw("100", "A", "C1", at, -5, 1.5), DropNonPositiveQuantity},
		{"zero price", testutil.Raw("100", "A", "C1", at, 2, 0), DropNonPositivePrice},
		{"negative price", testutil.Raw("100", "A", "C1", at, 2, -11062.06), DropNonPositivePrice},
		{"missing customer", testutil.Raw("100", "A", "", at, 2, 1.5), DropMissingCustomer},
		{"whitespace customer", testutil.Raw("100", "A", "   ", at, 2, 1.5), DropMissingCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DropReason(tt.rec))
		})
	}
}

func TestCleaner_Clean(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	cleaned, stats := NewCleaner(logger, "C").Clean(testutil.SampleRawRecords())

	require.Len(t, cleaned, 5)
	assert.Equal(t, domain.CleaningStats{
		InputRows:           9,
		KeptRows:            5,
		Cancelled:           1,
		NonPositiveQuantity: 1,
		NonPositivePrice:    1,
		MissingCustomer:     1,
	}, stats)
	assert.Equal(t, 4, stats.Dropped())

	// input order preserved
	assert.Equal(t, "536365", cleaned[0].InvoiceID)
	assert.Equal(t, "85123A", cleaned[0].StockCode)
	assert.Equal(t, "536545", cleaned[4].InvoiceID)

	assert.InDelta(t, 15.30, cleaned[0].LineTotal, 1e-9)
	assert.InDelta(t, 50.00, cleaned[4].LineTotal, 1e-9)

	for _, r := range cleaned {
		assert.False(t, r.IsCancelled("C"))
		assert.Positive(t, r.Quantity)
		assert.Positive(t, r.UnitPrice)
		assert.True(t, r.HasCustomer())
	}

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Cleaning complete")
	testutil.AssertLogAttr(t, handler, "kept_rows", 5)
}

func TestCleaner_Idempotent(t *testing.T) {
	c := NewCleaner(nil, "")
	first, _ := c.Clean(testutil.SampleRawRecords())
	second, stats := c.Reclean(first)

	assert.Equal(t, first, second)
	assert.Zero(t, stats.Dropped())

	again, _ := c.Clean(testutil.SampleRawRecords())
	assert.Equal(t, first, again)
}

func TestCleaner_EmptyInput(t *testing.T) {
	cleaned, stats := NewCleaner(nil, "").Clean(nil)
	assert.NotNil(t, cleaned)
	assert.Empty(t, cleaned)
	assert.Zero(t, stats.InputRows)
}

func TestDropCounts(t *testing.T) {
	counts := DropCounts(domain.CleaningStats{Cancelled: 2, MissingCustomer: 7})
	assert.Equal(t, map[string]int{
		DropCancelled:           2,
		DropNonPositiveQuantity: 0,
		DropNonPositivePrice:    0,
		DropMissingCustomer:     7,
	}, counts)
}
