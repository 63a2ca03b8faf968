package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/exporter"
)

// Sink persists result tables. Every table is replaced on each write.
type Sink struct {
	db      *sql.DB
	dialect Dialect
	prefix  string
	logger  *slog.Logger
}

// TableName returns the database table a result table is written to
func (s *Sink) TableName(name string) string {
	return SanitizeTableName(s.prefix + name)
}

// CreateQuery returns the DDL for t. All columns are TEXT so formatted
// values, including "undefined" ratios, round-trip unchanged.
func (s *Sink) CreateQuery(t exporter.Table) string {
	cols := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = s.dialect.Quote(SanitizeTableName(h)) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.dialect.Quote(s.TableName(t.Name)), strings.Join(cols, ", "))
}

// InsertQuery returns the parameterised insert statement for t
func (s *Sink) InsertQuery(t exporter.Table) string {
	cols := make([]string, len(t.Headers))
	params := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = s.dialect.Quote(SanitizeTableName(h))
		params[i] = s.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.Quote(s.TableName(t.Name)), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// WriteTables replaces every table in tables inside one transaction and
// returns the database table names written
func (s *Sink) WriteTables(ctx context.Context, tables []exporter.Table) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStorageError("begin transaction", err)
	}
	defer tx.Rollback()

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := s.writeTable(ctx, tx, t); err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("write table %s", t.Name), err).
				WithContext("table", s.TableName(t.Name))
		}
		names = append(names, s.TableName(t.Name))
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStorageError("commit transaction", err)
	}

	s.logger.InfoContext(ctx, "Result tables stored",
		slog.Int("tables", len(names)),
		slog.String("prefix", s.prefix))
	return names, nil
}

func (s *Sink) writeTable(ctx context.Context, tx *sql.Tx, t exporter.Table) error {
	table := s.dialect.Quote(s.TableName(t.Name))
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.CreateQuery(t)); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if t.Len() == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.InsertQuery(t))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.Headers))
	for i, row := range t.Rows {
		for c := range args {
			args[c] = nil
			if c < len(row) {
				args[c] = row[c]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	s.logger.DebugContext(ctx, "Table stored",
		slog.String("table", s.TableName(t.Name)),
		slog.Int("rows", t.Len()))
	return nil
}
