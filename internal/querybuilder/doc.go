// Package querybuilder provides a small mutable SQL query builder with
// bound parameters. It is the render target of package querysql.
//
// A Builder accumulates a WHERE expression through Where, AndWhere and
// OrWhere, parameter values through NamedParameter, and the tail clauses
// GROUP BY, ORDER BY and the result window. SQL assembles everything into
// a statement and the argument list for database/sql.
//
// WHERE COMPOSITION:
//
//	Where(a)                  → a
//	Where(a).AndWhere(b)      → (a) AND (b)
//	... .AndWhere(c)          → (a) AND (b) AND (c)
//	... .OrWhere(d)           → ((a) AND (b) AND (c)) OR (d)
//
// Where replaces whatever was there. AndWhere and OrWhere on an empty
// builder behave like Where.
//
// DIALECTS:
//
//	SQLite    :p1, :p2 ...  (args are sql.NamedArg)
//	Postgres  $1, $2 ...    (numbered in order of appearance)
//	MySQL     ?             (positional)
//
// Parameter placeholders are resolved when SQL is called, so values bound
// for an expression that was later replaced by Where never reach the
// argument list.
//
// A Builder is not safe for concurrent use.
package querybuilder
