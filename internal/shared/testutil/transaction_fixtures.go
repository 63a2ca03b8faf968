package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// RetailHeader is the header row of the classic online retail export
var RetailHeader = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// At returns the given UTC date and time
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// Raw builds a raw line item with a default description and country
func Raw(invoice, stock, customer string, at time.Time, qty int, price float64) domain.RawRecord {
	return domain.RawRecord{
		InvoiceID:   invoice,
		StockCode:   stock,
		Description: "ITEM " + stock,
		Quantity:    qty,
		InvoiceDate: at,
		UnitPrice:   price,
		CustomerID:  customer,
		Country:     "United Kingdom",
	}
}

// Line builds a cleaned line item whose line total equals total
func Line(invoice, stock, customer string, at time.Time, total float64) domain.CleanedRecord {
	return domain.NewCleanedRecord(Raw(invoice, stock, customer, at, 1, total))
}

// InCountry returns r with its country replaced
func InCountry(r domain.CleanedRecord, country string) domain.CleanedRecord {
	r.Country = country
	return r
}

// SampleRawRecords returns a small dataset exercising every cleaning rule:
// a cancellation, a non-positive quantity, a free item and an anonymous line.
func SampleRawRecords() []domain.RawRecord {
	return []domain.RawRecord{
		Raw("536365", "85123A", "17850", At(2010, 12, 1, 8, 26), 6, 2.55),
		Raw("536365", "71053", "17850", At(2010, 12, 1, 8, 26), 6, 3.39),
		Raw("536366", "22633", "17850", At(2010, 12, 1, 8, 28), 6, 1.85),
		Raw("C536379", "D", "14527", At(2010, 12, 1, 9, 41), -1, 27.50),
		Raw("536380", "22961", "17809", At(2010, 12, 1, 9, 41), 0, 1.45),
		Raw("536381", "22139", "15311", At(2010, 12, 1, 9, 41), 1, 0),
		Raw("536414", "22139", "", At(2010, 12, 1, 11, 52), 56, 1.10),
		Raw("536544", "21773", "13047", At(2011, 1, 3, 14, 32), 12, 1.25),
		Raw("536545", "21774", "17850", At(2011, 2, 14, 10, 0), 4, 12.50),
	}
}

// WriteRetailCSV writes records as a retail-format CSV file in dir and
// returns its path. Timestamps use the export's "1/2/2006 15:04" layout.
func WriteRetailCSV(t *testing.T, dir, name string, records []domain.RawRecord) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(RetailHeader); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range records {
		row := []string{
			r.InvoiceID,
			r.StockCode,
			r.Description,
			strconv.Itoa(r.Quantity),
			r.InvoiceDate.Format("1/2/2006 15:04"),
			strconv.FormatFloat(r.UnitPrice, 'f', -1, 64),
			r.CustomerID,
			r.Country,
		}
		if err := w.Write(row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush fixture: %v", err)
	}
	return path
}
