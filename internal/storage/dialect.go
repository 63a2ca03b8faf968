package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// identPattern matches the table names accepted as a source, optionally
// schema qualified
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var unsafeIdentChars = regexp.MustCompile(`[^a-z0-9_]+`)

// Dialect captures the SQL differences between the supported drivers
type Dialect struct {
	Driver string
}

// DialectFor returns the dialect of driver
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres:
		return Dialect{Driver: DriverPostgres}, nil
	case DriverMySQL:
		return Dialect{Driver: DriverMySQL}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// Placeholder returns the bind parameter for the n-th argument, 1-based
func (d Dialect) Placeholder(n int) string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Quote quotes an identifier. Schema qualified names are quoted per part.
func (d Dialect) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if d.Driver == DriverPostgres {
			parts[i] = pq.QuoteIdentifier(p)
		} else {
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		}
	}
	return strings.Join(parts, ".")
}

// normalizeDSN adjusts driver specific DSN options. MySQL needs parseTime
// so DATETIME columns scan into time.Time.
func (d Dialect) normalizeDSN(dsn string) (string, error) {
	if d.Driver != DriverMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// ValidTableName reports whether name may be used as a source table
func ValidTableName(name string) bool {
	return identPattern.MatchString(name)
}

// SanitizeTableName lowercases name and replaces every run of characters
// outside [a-z0-9_] with an underscore
func SanitizeTableName(name string) string {
	s := unsafeIdentChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "table"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "t_" + s
	}
	return s
}
