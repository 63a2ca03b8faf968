package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ecomcli/internal/dataprocessing"
	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/validation"
	"ecomcli/pkg/contracts/domain"
)

// SourcePrefix marks an input argument that names a database table
const SourcePrefix = "db:"

// sourceColumns are read from the transactions table, in scan order
var sourceColumns = []string{
	dataprocessing.ColInvoiceID,
	dataprocessing.ColStockCode,
	dataprocessing.ColDescription,
	dataprocessing.ColQuantity,
	dataprocessing.ColInvoiceDate,
	dataprocessing.ColUnitPrice,
	dataprocessing.ColCustomerID,
	dataprocessing.ColCountry,
}

// Source reads raw transactions from a table
type Source struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// TableFromInput returns the table named by a "db:<table>" input argument
func TableFromInput(input string) (string, bool) {
	if !strings.HasPrefix(input, SourcePrefix) {
		return "", false
	}
	return strings.TrimPrefix(input, SourcePrefix), true
}

// SelectQuery returns the query LoadRawRecords runs against table
func (s *Source) SelectQuery(table string) string {
	cols := make([]string, len(sourceColumns))
	for i, c := range sourceColumns {
		cols[i] = s.dialect.Quote(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), s.dialect.Quote(table))
}

// LoadRawRecords reads every row of table. A null description or customer
// id becomes empty; a null in any other column is a fatal parsing error.
func (s *Source) LoadRawRecords(ctx context.Context, table string) (*domain.Dataset, error) {
	if !ValidTableName(table) {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid table name %q", table))
	}

	rows, err := s.db.QueryContext(ctx, s.SelectQuery(table))
	if err != nil {
		return nil, apperrors.NewStorageError("query transactions", err).WithContext("table", table)
	}
	defer rows.Close()

	validator := validation.NewRecordValidator(s.logger)
	ds := &domain.Dataset{Source: SourcePrefix + table, Records: []domain.RawRecord{}}

	for row := 1; rows.Next(); row++ {
		rec, err := scanRecord(rows, row)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateRecord(row, rec); err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("read transactions", err).WithContext("table", table)
	}

	s.logger.InfoContext(ctx, "Transactions loaded",
		slog.String("table", table),
		slog.Int("rows", ds.Len()))
	return ds, nil
}

func scanRecord(rows *sql.Rows, row int) (domain.RawRecord, error) {
	var (
		invoice, stock, desc, customer, country sql.NullString
		qty                                     sql.NullInt64
		ts                                      sql.NullTime
		price                                   sql.NullFloat64
	)
	if err := rows.Scan(&invoice, &stock, &desc, &qty, &ts, &price, &customer, &country); err != nil {
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, "scan", err)
	}

	switch {
	case !qty.Valid:
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, dataprocessing.ColQuantity, errNull)
	case !price.Valid:
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, dataprocessing.ColUnitPrice, errNull)
	case !ts.Valid:
		return domain.RawRecord{}, apperrors.NewRowParsingError(row, dataprocessing.ColInvoiceDate, errNull)
	}

	return domain.RawRecord{
		InvoiceID:   strings.TrimSpace(invoice.String),
		StockCode:   strings.TrimSpace(stock.String),
		Description: strings.TrimSpace(desc.String),
		Quantity:    int(qty.Int64),
		InvoiceDate: ts.Time,
		UnitPrice:   price.Float64,
		CustomerID:  dataprocessing.NormalizeCustomerID(customer.String),
		Country:     strings.TrimSpace(country.String),
	}, nil
}

var errNull = errors.New("null value")
