package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/validation"
	"ecomcli/pkg/contracts/domain"
)

// Canonical column names of the transaction table
const (
	ColInvoiceID   = "invoice_id"
	ColStockCode   = "stock_code"
	ColDescription = "description"
	ColQuantity    = "quantity"
	ColInvoiceDate = "invoice_timestamp"
	ColUnitPrice   = "unit_price"
	ColCustomerID  = "customer_id"
	ColCountry     = "country"
)

// Columns lists the canonical columns in schema order.
var Columns = []string{
	ColInvoiceID, ColStockCode, ColDescription, ColQuantity,
	ColInvoiceDate, ColUnitPrice, ColCustomerID, ColCountry,
}

// headerAliases maps normalized header spellings to canonical columns
var headerAliases = map[string]string{
	"invoiceno":        ColInvoiceID,
	"invoice":          ColInvoiceID,
	"invoiceid":        ColInvoiceID,
	"invoicenumber":    ColInvoiceID,
	"stockcode":        ColStockCode,
	"sku":              ColStockCode,
	"productcode":      ColStockCode,
	"description":      ColDescription,
	"productdesc":      ColDescription,
	"quantity":         ColQuantity,
	"qty":              ColQuantity,
	"invoicedate":      ColInvoiceDate,
	"invoicetimestamp": ColInvoiceDate,
	"invoicedatetime":  ColInvoiceDate,
	"timestamp":        ColInvoiceDate,
	"unitprice":        ColUnitPrice,
	"price":            ColUnitPrice,
	"customerid":       ColCustomerID,
	"customer":         ColCustomerID,
	"country":          ColCountry,
}

// optionalColumns may be absent from the header
var optionalColumns = map[string]bool{
	ColDescription: true,
}

// nullTokens are cell values treated as null
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// timestampLayouts are tried in order before falling back to Excel serials
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"2006-01-02",
	"1/2/2006",
}

// ParserOptions configures how input rows are interpreted
type ParserOptions struct {
	// Sheet is the workbook sheet to read; empty selects the first sheet.
	Sheet string
	// Location is used for timestamps without a zone. Defaults to UTC.
	Location *time.Location
}

// Parser loads transaction tables into a Dataset
type Parser struct {
	logger    *slog.Logger
	validator *validation.RecordValidator
	files     *validation.FileValidator
	opts      ParserOptions
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger, opts ParserOptions) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Parser{
		logger:    logger,
		validator: validation.NewRecordValidator(logger),
		files:     validation.NewFileValidator(logger),
		opts:      opts,
	}
}

// ParseFile reads the transaction file at path. format is "csv", "xlsx" or
// "auto"/"" to detect it from the extension.
func (p *Parser) ParseFile(ctx context.Context, path, format string) (*domain.Dataset, error) {
	resolved, err := p.files.ValidateInputFile(path, format)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(path)
		}
		return nil, apperrors.NewParsingError("invalid input file", err).WithContext("path", path)
	}

	switch resolved {
	case validation.FormatXLSX:
		return p.ParseWorkbook(ctx, path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to open file", err).WithContext("path", path)
		}
		defer f.Close()
		return p.ParseCSV(ctx, f, path)
	}
}

// ParseCSV reads a header-led CSV stream. A UTF-8 BOM before the header is ignored.
func (p *Parser) ParseCSV(ctx context.Context, r io.Reader, source string) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("input has no header row", nil).WithContext("source", source)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header", err).WithContext("source", source)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{Source: source}
	row := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d", row), err).WithContext("row", row)
		}
		if row%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(fields) {
			continue
		}

		rec, err := p.parseRow(row, fields, cols)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	p.logger.InfoContext(ctx, "Parsed CSV input",
		slog.String("source", source),
		slog.Int("records", ds.Len()))

	return ds, nil
}

// ParseWorkbook reads the configured sheet of an XLSX workbook. Date cells
// are read as raw serial numbers and converted with the workbook's epoch.
func (p *Parser) ParseWorkbook(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := p.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("sheet has no header row", nil).WithContext("sheet", sheet)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{Source: path}
	for i, fields := range rows[1:] {
		row := i + 2
		if row%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(fields) {
			continue
		}

		rec, err := p.parseRow(row, fields, cols)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	p.logger.InfoContext(ctx, "Parsed workbook input",
		slog.String("source", path),
		slog.String("sheet", sheet),
		slog.Int("records", ds.Len()))

	return ds, nil
}

// columnIndex maps canonical column names to field positions
type columnIndex map[string]int

// NormalizeHeader lowercases a header cell and drops spaces, underscores,
// dashes and a leading BOM.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func mapColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(Columns))
	for i, h := range header {
		canonical, ok := headerAliases[NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[canonical]; !dup {
			cols[canonical] = i
		}
	}

	for _, c := range Columns {
		if _, ok := cols[c]; !ok && !optionalColumns[c] {
			return nil, apperrors.NewParsingError(fmt.Sprintf("missing required column %s", c), nil).
				WithContext("column", c)
		}
	}
	return cols, nil
}

func (c columnIndex) get(fields []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRow converts one data row. Numeric and timestamp failures are
// fatal parsing errors; shape failures are fatal validation errors.
func (p *Parser) parseRow(row int, fields []string, cols columnIndex) (domain.RawRecord, error) {
	qty, err := ParseQuantity(cols.get(fields, ColQuantity))
	if err != nil {
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, ColQuantity, err)
	}

	price, err := ParsePrice(cols.get(fields, ColUnitPrice))
	if err != nil {
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, ColUnitPrice, err)
	}

	ts, err := ParseTimestamp(cols.get(fields, ColInvoiceDate), p.opts.Location)
	if err != nil {
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, ColInvoiceDate, err)
	}

	rec := domain.RawRecord{
		InvoiceID:   cols.get(fields, ColInvoiceID),
		StockCode:   cols.get(fields, ColStockCode),
		Description: nullable(cols.get(fields, ColDescription)),
		Quantity:    qty,
		InvoiceDate: ts,
		UnitPrice:   price,
		CustomerID:  NormalizeCustomerID(cols.get(fields, ColCustomerID)),
		Country:     cols.get(fields, ColCountry),
	}

	if err := p.validator.ValidateRecord(row, rec); err != nil {
		return domain.RawRecord{}, err
	}
	return rec, nil
}

func nullable(v string) string {
	if nullTokens[strings.ToLower(v)] {
		return ""
	}
	return v
}

// ParseQuantity parses an integer quantity. Integral floats such as "6.0"
// are accepted.
func ParseQuantity(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("quantity %q is not an integer", s)
	}
	if math.Abs(f) >= float64(math.MaxInt) {
		return 0, fmt.Errorf("quantity %q is out of range", s)
	}
	return int(f), nil
}

// ParsePrice parses a decimal unit price
func ParsePrice(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty unit price")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid unit price %q", s)
	}
	return f, nil
}

// ParseTimestamp parses an invoice timestamp in any supported layout, or
// an Excel serial date number.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			// Excel serials carry no zone; drop sub-second float drift and
			// reinterpret the wall clock in loc.
			t = t.Round(time.Second)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// NormalizeCustomerID trims the id, maps null tokens to empty and strips a
// trailing ".0" left by spreadsheet exports (17850.0 -> 17850).
func NormalizeCustomerID(s string) string {
	s = nullable(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if trimmed := strings.TrimSuffix(s, ".0"); trimmed != s {
		if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return trimmed
		}
	}
	return s
}
