// Package querysql renders criteria trees into a querybuilder.Builder,
// binding every scalar value as a parameter.
//
// This is the path for any value that may originate from untrusted input.
// The one exception is IN/NOT IN, whose preformatted list is interpolated
// verbatim; callers must build those lists from trusted values.
//
// Rendering mutates the builder passed in and returns it. The tree itself
// is never modified, so one tree may be rendered concurrently into
// different builders. Sharing a builder across goroutines is not safe.
package querysql

import (
	"strings"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/querybuilder"
)

// tautology is the inert expression produced for a predicate without a
// column. It is rendered with WhereNone and so never reaches the query.
const tautology = "2=2"

// Render renders n into qb, joining it to the existing WHERE expression
// according to mode, and returns qb.
//
// Modifiers carried by a node (limit, offset, group-by, sort) are applied
// to qb every time that node is rendered, after its condition. With
// modifiers on several nodes the last one applied wins; for a composite
// that is the composite itself, since its modifiers apply after all of its
// elements.
//
// qb must not be nil.
func Render(n criteria.Node, qb *querybuilder.Builder, mode WhereMode) *querybuilder.Builder {
	switch node := n.(type) {
	case *criteria.Predicate:
		renderPredicate(node, qb, mode)
	case *criteria.Composite:
		renderComposite(node, qb, mode)
	default:
		return qb
	}
	applyModifiers(n, qb)
	return qb
}

func renderPredicate(p *criteria.Predicate, qb *querybuilder.Builder, mode WhereMode) {
	column := p.ColumnExpr()
	value := strings.TrimSpace(p.Value)
	x := qb.Expr()

	var expr querybuilder.Expr
	switch op := criteria.NormalizeOperator(p.Operator); {
	case op == criteria.OpIsNull:
		expr = x.IsNull(column)
	case op == criteria.OpIsNotNull:
		expr = x.IsNotNull(column)
	case op == criteria.OpIn:
		expr = querybuilder.Raw(column + " IN " + value)
	case op == criteria.OpNotIn:
		expr = querybuilder.Raw(column + " NOT IN " + value)
	case column == "":
		expr = querybuilder.Raw(tautology)
		mode = WhereNone
	default:
		expr = compare(x, column, op, qb.NamedParameter(value))
	}

	attach(qb, expr, mode)
}

// compare maps an operator to its expression. Unrecognized operators are
// passed through upper-cased.
func compare(x querybuilder.ExprBuilder, column, op string, param querybuilder.Expr) querybuilder.Expr {
	switch op {
	case "=", "EQ":
		return x.Eq(column, param)
	case "!=", "<>", "NEQ":
		return x.Neq(column, param)
	case "<", "LT":
		return x.Lt(column, param)
	case "<=", "LTE":
		return x.Lte(column, param)
	case ">", "GT":
		return x.Gt(column, param)
	case ">=", "GTE":
		return x.Gte(column, param)
	case "LIKE":
		return x.Like(column, param)
	case "NOT LIKE":
		return x.NotLike(column, param)
	default:
		return x.Comparison(column, op, param)
	}
}

// renderComposite renders elements in order into the shared builder: the
// first with the composite's own mode, the rest with their connector.
func renderComposite(c *criteria.Composite, qb *querybuilder.Builder, mode WhereMode) {
	for i, el := range c.Elements() {
		elMode := mode
		if i > 0 {
			elMode = modeFor(el.Connector)
		}
		Render(el.Node, qb, elMode)
	}
}

func attach(qb *querybuilder.Builder, expr querybuilder.Expr, mode WhereMode) {
	switch mode {
	case WhereAnd:
		qb.AndWhere(expr)
	case WhereOr:
		qb.OrWhere(expr)
	case WhereDefault:
		qb.Where(expr)
	}
}

func applyModifiers(n criteria.Node, qb *querybuilder.Builder) {
	if n.Limit() != 0 || n.Start() != 0 {
		qb.SetFirstResult(n.Start()).SetMaxResults(n.Limit())
	}
	if n.GroupBy() != "" {
		qb.GroupBy(n.GroupBy())
	}
	if n.Sort() != "" {
		qb.OrderBy(n.Sort(), string(n.Order()))
	}
}
