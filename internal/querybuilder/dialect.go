package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDialect is returned by ParseDialect for unsupported names.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect selects placeholder syntax and LIMIT/OFFSET forms.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a dialect or driver name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// mysqlMaxRows is the documented way to express "no limit" when MySQL
// needs an OFFSET.
const mysqlMaxRows = "18446744073709551615"

// windowClause returns the LIMIT/OFFSET tail, empty when unbounded.
func (d Dialect) windowClause(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		switch d {
		case SQLite:
			return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
		case MySQL:
			return fmt.Sprintf(" LIMIT %s OFFSET %d", mysqlMaxRows, offset)
		default:
			return fmt.Sprintf(" OFFSET %d", offset)
		}
	default:
		return ""
	}
}
