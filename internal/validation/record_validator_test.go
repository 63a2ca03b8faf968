package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ecomcli/internal/errors"
	"ecomcli/pkg/contracts/domain"
)

func validRecord() domain.RawRecord {
	return domain.RawRecord{
		InvoiceID:   "536365",
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    6,
		InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		UnitPrice:   2.55,
		CustomerID:  "17850",
		Country:     "United Kingdom",
	}
}

func TestRecordValidator_ValidateRecord(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.RawRecord)
		wantField string
	}{
		{"valid", func(*domain.RawRecord) {}, ""},
		{"negative quantity is a business rule, not a shape error", func(r *domain.RawRecord) { r.Quantity = -3 }, ""},
		{"missing customer is allowed", func(r *domain.RawRecord) { r.CustomerID = "" }, ""},
		{"blank description is allowed", func(r *domain.RawRecord) { r.Description = "" }, ""},
		{"missing invoice id", func(r *domain.RawRecord) { r.InvoiceID = "" }, "invoice_id"},
		{"missing stock code", func(r *domain.RawRecord) { r.StockCode = "" }, "stock_code"},
		{"missing country", func(r *domain.RawRecord) { r.Country = "" }, "country"},
		{"zero timestamp", func(r *domain.RawRecord) { r.InvoiceDate = time.Time{} }, "invoice_timestamp"},
	}

	rv := NewRecordValidator(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			err := rv.ValidateRecord(4, r)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
			assert.Contains(t, err.Error(), "row 4")
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestRecordValidator_ValidateDataset(t *testing.T) {
	rv := NewRecordValidator(nil)

	bad := validRecord()
	bad.Country = ""
	ds := &domain.Dataset{Source: "test", Records: []domain.RawRecord{validRecord(), bad}}

	err := rv.ValidateDataset(ds)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 2, appErr.Context["row"])
	assert.Equal(t, "country", appErr.Context["field"])

	assert.NoError(t, rv.ValidateDataset(&domain.Dataset{}))
	assert.Error(t, rv.ValidateDataset(nil))
}

func TestRecordValidator_ValidateStruct(t *testing.T) {
	type section struct {
		Mode string `validate:"oneof=sequential parallel"`
	}

	rv := NewRecordValidator(nil)
	assert.NoError(t, rv.ValidateStruct(section{Mode: "parallel"}))
	assert.Error(t, rv.ValidateStruct(section{Mode: "threaded"}))
}
