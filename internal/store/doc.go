// Package store provides the collection query interface that consumes
// criteria trees: fetch, count and delete rows of a table matching a filter.
//
// Every filter goes through querysql, so scalar values are always bound as
// parameters. The SQL-fragment renderer is never used here.
//
// # Drivers
//
//   - sqlite3  (github.com/mattn/go-sqlite3)   named placeholders :p1
//   - postgres (github.com/lib/pq)             numbered placeholders $1
//   - mysql    (github.com/go-sql-driver/mysql) positional placeholders ?
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// # Unbounded Deletes
//
// Delete with a nil filter removes every row. A non-nil filter that renders
// no WHERE expression (for example a predicate without a column, which the
// renderer turns into a no-op) is rejected with ErrUnboundedDelete rather
// than silently widening to the whole table.
package store
