package domain

import (
	"strings"
	"time"
)

// DefaultCancellationMarker prefixes the invoice id of a cancelled invoice.
const DefaultCancellationMarker = "C"

// RawRecord represents one line item of an invoice exactly as it was loaded.
// Empty CustomerID and Description mean the source value was null.
type RawRecord struct {
	InvoiceID   string    `json:"invoice_id" db:"invoice_id" validate:"required"`
	StockCode   string    `json:"stock_code" db:"stock_code" validate:"required"`
	Description string    `json:"description" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	InvoiceDate time.Time `json:"invoice_timestamp" db:"invoice_timestamp" validate:"required"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	Country     string    `json:"country" db:"country" validate:"required"`
}

// IsCancelled reports whether the invoice id carries the cancellation marker.
func (r RawRecord) IsCancelled(marker string) bool {
	if marker == "" {
		marker = DefaultCancellationMarker
	}
	return strings.HasPrefix(r.InvoiceID, marker)
}

// HasCustomer reports whether the record is attributed to a customer.
func (r RawRecord) HasCustomer() bool {
	return strings.TrimSpace(r.CustomerID) != ""
}

// HasDescription reports whether the description is non-blank.
func (r RawRecord) HasDescription() bool {
	return strings.TrimSpace(r.Description) != ""
}

// CleanedRecord is a RawRecord that passed every cleaning predicate.
// LineTotal is Quantity × UnitPrice.
type CleanedRecord struct {
	RawRecord
	LineTotal float64 `json:"line_total" db:"line_total"`
}

// NewCleanedRecord derives a CleanedRecord from a raw line item.
func NewCleanedRecord(r RawRecord) CleanedRecord {
	return CleanedRecord{
		RawRecord: r,
		LineTotal: float64(r.Quantity) * r.UnitPrice,
	}
}

// Dataset is the materialized input of one pipeline run.
type Dataset struct {
	Source  string      `json:"source"`
	Records []RawRecord `json:"records" validate:"dive"`
}

// Len returns the number of raw records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
