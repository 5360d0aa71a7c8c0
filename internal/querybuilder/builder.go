package querybuilder

import (
	"database/sql"
	"fmt"
	"strings"
)

type statementKind int

const (
	kindSelect statementKind = iota
	kindDelete
	kindCount
)

// Builder accumulates the parts of a single SQL statement.
type Builder struct {
	dialect Dialect
	kind    statementKind

	columns []string
	table   string
	alias   string

	where *condition

	groupBy  string
	orderBy  string
	orderDir string

	firstResult int
	maxResults  int

	params []any
}

// New creates an empty SELECT builder for the dialect.
func New(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() Dialect { return b.dialect }

// Expr returns the expression factory.
func (b *Builder) Expr() ExprBuilder { return ExprBuilder{} }

// Select makes this a SELECT of the given columns ("*" when none).
func (b *Builder) Select(columns ...string) *Builder {
	b.kind = kindSelect
	b.columns = columns
	return b
}

// Count makes this a SELECT COUNT(*) statement.
func (b *Builder) Count() *Builder {
	b.kind = kindCount
	return b
}

// Delete makes this a DELETE FROM table statement.
func (b *Builder) Delete(table string) *Builder {
	b.kind = kindDelete
	b.table = table
	b.alias = ""
	return b
}

// From sets the table and optional alias.
func (b *Builder) From(table, alias string) *Builder {
	b.table = table
	b.alias = alias
	return b
}

// NamedParameter binds value and returns the expression referencing it.
func (b *Builder) NamedParameter(value any) Expr {
	b.params = append(b.params, value)
	return Expr{parts: []exprPart{{param: len(b.params)}}}
}

// Params returns every value bound so far, in binding order, including
// values whose expressions are no longer part of the statement.
func (b *Builder) Params() []any {
	out := make([]any, len(b.params))
	copy(out, b.params)
	return out
}

// Where replaces the WHERE expression. An empty expression clears it.
func (b *Builder) Where(e Expr) *Builder {
	if e.IsEmpty() {
		b.where = nil
		return b
	}
	b.where = &condition{expr: e}
	return b
}

// AndWhere joins e to the current WHERE expression with AND.
func (b *Builder) AndWhere(e Expr) *Builder {
	return b.extendWhere(kindAnd, e)
}

// OrWhere joins e to the current WHERE expression with OR.
func (b *Builder) OrWhere(e Expr) *Builder {
	return b.extendWhere(kindOr, e)
}

func (b *Builder) extendWhere(kind string, e Expr) *Builder {
	if e.IsEmpty() {
		return b
	}
	leaf := &condition{expr: e}
	switch {
	case b.where == nil:
		b.where = leaf
	case b.where.kind == kind:
		b.where.parts = append(b.where.parts, leaf)
	default:
		b.where = &condition{kind: kind, parts: []*condition{b.where, leaf}}
	}
	return b
}

// SetFirstResult sets the row offset.
func (b *Builder) SetFirstResult(n int) *Builder {
	b.firstResult = max(n, 0)
	return b
}

// SetMaxResults sets the row limit; 0 means unbounded.
func (b *Builder) SetMaxResults(n int) *Builder {
	b.maxResults = max(n, 0)
	return b
}

// FirstResult returns the row offset.
func (b *Builder) FirstResult() int { return b.firstResult }

// MaxResults returns the row limit.
func (b *Builder) MaxResults() int { return b.maxResults }

// GroupBy replaces the GROUP BY column. An empty column clears it.
func (b *Builder) GroupBy(column string) *Builder {
	b.groupBy = column
	return b
}

// OrderBy replaces the ORDER BY column and direction. Any direction other
// than a case-insensitive "DESC" is ascending.
func (b *Builder) OrderBy(column, direction string) *Builder {
	b.orderBy = column
	b.orderDir = "ASC"
	if strings.EqualFold(strings.TrimSpace(direction), "DESC") {
		b.orderDir = "DESC"
	}
	return b
}

// WhereSQL renders only the WHERE expression, without the keyword.
func (b *Builder) WhereSQL() (string, []any) {
	w := b.newWriter()
	if b.where != nil {
		w.writeExpr(b.where.flatten())
	}
	return w.sb.String(), w.args
}

// SQL assembles the statement and its arguments.
//
// DELETE ignores grouping, ordering and the result window. COUNT ignores
// ordering and the result window, and counts groups when GROUP BY is set.
func (b *Builder) SQL() (string, []any) {
	w := b.newWriter()

	switch b.kind {
	case kindDelete:
		w.sb.WriteString("DELETE FROM " + b.table)
		b.writeWhere(w)
	case kindCount:
		if b.groupBy == "" {
			w.sb.WriteString("SELECT COUNT(*) FROM " + b.source())
			b.writeWhere(w)
			break
		}
		w.sb.WriteString("SELECT COUNT(*) FROM (SELECT 1 FROM " + b.source())
		b.writeWhere(w)
		w.sb.WriteString(" GROUP BY " + b.groupBy + ") grouped")
	default:
		columns := "*"
		if len(b.columns) > 0 {
			columns = strings.Join(b.columns, ", ")
		}
		w.sb.WriteString("SELECT " + columns + " FROM " + b.source())
		b.writeWhere(w)
		if b.groupBy != "" {
			w.sb.WriteString(" GROUP BY " + b.groupBy)
		}
		if b.orderBy != "" {
			w.sb.WriteString(" ORDER BY " + b.orderBy + " " + b.orderDir)
		}
		w.sb.WriteString(b.dialect.windowClause(b.maxResults, b.firstResult))
	}

	return w.sb.String(), w.args
}

func (b *Builder) source() string {
	if b.alias == "" {
		return b.table
	}
	return b.table + " " + b.alias
}

func (b *Builder) writeWhere(w *writer) {
	if b.where == nil {
		return
	}
	w.sb.WriteString(" WHERE ")
	w.writeExpr(b.where.flatten())
}

// writer resolves parameter references to dialect placeholders.
type writer struct {
	b     *Builder
	sb    strings.Builder
	args  []any
	named map[int]bool
}

func (b *Builder) newWriter() *writer {
	return &writer{b: b, named: map[int]bool{}}
}

func (w *writer) writeExpr(e Expr) {
	for _, p := range e.parts {
		if p.param == 0 {
			w.sb.WriteString(p.text)
			continue
		}
		w.writeParam(p.param)
	}
}

func (w *writer) writeParam(idx int) {
	value := w.b.params[idx-1]
	switch w.b.dialect {
	case Postgres:
		w.args = append(w.args, value)
		fmt.Fprintf(&w.sb, "$%d", len(w.args))
	case MySQL:
		w.args = append(w.args, value)
		w.sb.WriteString("?")
	default:
		name := fmt.Sprintf("p%d", idx)
		if !w.named[idx] {
			w.named[idx] = true
			w.args = append(w.args, sql.Named(name, value))
		}
		w.sb.WriteString(":" + name)
	}
}
