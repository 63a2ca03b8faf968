package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func TestExplorer_Empty(t *testing.T) {
	report := NewExplorer(nil, "").Explore(nil)

	assert.Zero(t, report.RowCount)
	assert.Zero(t, report.CancelledInvoices)
	assert.Zero(t, report.CancelledRows)
	assert.Zero(t, report.NegativeValueRows)
	assert.Zero(t, report.DistinctCustomers)
	assert.Zero(t, report.DistinctCountries)
	assert.True(t, report.FirstInvoiceDate.IsZero())
	assert.True(t, report.LastInvoiceDate.IsZero())

	assert.Len(t, report.NullCounts, len(Columns))
	for _, c := range Columns {
		assert.Zero(t, report.NullCounts[c], c)
	}
}

func TestExplorer_Sample(t *testing.T) {
	records := testutil.SampleRawRecords()
	records = append(records,
		testutil.Raw("C536379", "M", "14527", testutil.At(2010, 12, 1, 9, 45), -2, 1.00),
		domain.RawRecord{InvoiceID: "536600", StockCode: "X", Quantity: 1, UnitPrice: -3, Country: "France", InvoiceDate: testutil.At(2011, 3, 1, 12, 0)},
	)

	logger, handler := testutil.NewTestLogger(t)
	report := NewExplorer(logger, "C").Explore(records)

	assert.Equal(t, 11, report.RowCount)
	assert.Equal(t, 1, report.CancelledInvoices, "distinct cancelled invoice ids")
	assert.Equal(t, 2, report.CancelledRows)
	assert.Equal(t, 3, report.NegativeValueRows)
	assert.Equal(t, 5, report.DistinctCustomers)
	assert.Equal(t, 2, report.DistinctCountries)
	assert.Equal(t, 2, report.NullCounts[ColCustomerID])
	assert.Equal(t, 1, report.NullCounts[ColDescription])
	assert.Zero(t, report.NullCounts[ColCountry])
	assert.Equal(t, testutil.At(2010, 12, 1, 8, 26), report.FirstInvoiceDate)
	assert.Equal(t, testutil.At(2011, 3, 1, 12, 0), report.LastInvoiceDate)

	testutil.AssertLogAttr(t, handler, "cancelled_invoices", 1)
}

func TestExplorer_CustomMarker(t *testing.T) {
	records := []domain.RawRecord{
		testutil.Raw("X1", "A", "1", time.Now().UTC(), 1, 1),
		testutil.Raw("C1", "A", "1", time.Now().UTC(), 1, 1),
	}

	report := NewExplorer(nil, "X").Explore(records)
	assert.Equal(t, 1, report.CancelledRows)
	assert.Equal(t, 1, report.CancelledInvoices)
}

func TestExplorer_DoesNotMutate(t *testing.T) {
	records := testutil.SampleRawRecords()
	before := append([]domain.RawRecord(nil), records...)

	NewExplorer(nil, "").Explore(records)
	assert.Equal(t, before, records)
}
