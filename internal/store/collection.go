package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/querybuilder"
	"github.com/roach88/criteria/internal/querysql"
)

var (
	// ErrEmptyTable is returned when a collection is requested without a
	// table name.
	ErrEmptyTable = errors.New("table name is required")

	// ErrInvalidTable is returned for table names that are not plain
	// (optionally schema-qualified) identifiers.
	ErrInvalidTable = errors.New("invalid table name")

	// ErrUnboundedDelete is returned when a non-nil filter renders no
	// WHERE expression.
	ErrUnboundedDelete = errors.New("filter renders no condition; refusing to delete every row")
)

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Record is one row keyed by column name. TEXT and BLOB values are
// returned as strings, NULL as nil.
type Record map[string]any

// Collection runs criteria-driven queries against one table.
type Collection struct {
	store *Store
	table string
}

// Collection returns the collection for table.
func (s *Store) Collection(table string) (*Collection, error) {
	if table == "" {
		return nil, ErrEmptyTable
	}
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &Collection{store: s, table: table}, nil
}

// Name returns the table name.
func (c *Collection) Name() string {
	return c.table
}

// Fetch returns the rows matching filter, honouring its sort, group-by and
// window modifiers. A nil filter matches every row.
//
// Returns an empty slice (not nil) when nothing matches.
func (c *Collection) Fetch(ctx context.Context, filter criteria.Node) ([]Record, error) {
	qb := c.render(querybuilder.New(c.store.dialect).Select().From(c.table, ""), filter)
	query, args := qb.SQL()

	slog.Debug("fetching rows", "table", c.table, "sql", query, "args", len(args))

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.table, err)
	}
	return records, nil
}

// Count returns the number of rows matching filter, or the number of
// groups when the filter carries a group-by column. Sort and window
// modifiers are ignored.
func (c *Collection) Count(ctx context.Context, filter criteria.Node) (int64, error) {
	qb := c.render(querybuilder.New(c.store.dialect).Count().From(c.table, ""), filter)
	query, args := qb.SQL()

	slog.Debug("counting rows", "table", c.table, "sql", query, "args", len(args))

	var n int64
	if err := c.store.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.table, err)
	}
	return n, nil
}

// Delete removes the rows matching filter and returns how many were
// removed. A nil filter removes every row.
func (c *Collection) Delete(ctx context.Context, filter criteria.Node) (int64, error) {
	qb := c.render(querybuilder.New(c.store.dialect).Delete(c.table), filter)
	if filter != nil {
		if where, _ := qb.WhereSQL(); where == "" {
			return 0, fmt.Errorf("delete from %s: %w", c.table, ErrUnboundedDelete)
		}
	}
	query, args := qb.SQL()

	slog.Debug("deleting rows", "table", c.table, "sql", query, "args", len(args))

	res, err := c.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: rows affected: %w", c.table, err)
	}

	slog.Info("rows deleted", "table", c.table, "count", n)
	return n, nil
}

func (c *Collection) render(qb *querybuilder.Builder, filter criteria.Node) *querybuilder.Builder {
	if filter == nil {
		return qb
	}
	return querysql.Render(filter, qb, querysql.WhereDefault)
}

// scanRecords reads all rows into records.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	records := []Record{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return records, nil
}
