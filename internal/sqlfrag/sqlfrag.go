// Package sqlfrag renders criteria trees as raw SQL boolean fragments.
//
// Values are quoted ad hoc and never escaped. This renderer exists for
// read-only and administrative code paths built from trusted input; any
// value that can originate from a user must go through querysql, which
// binds values as parameters.
package sqlfrag

import (
	"regexp"
	"strings"

	"github.com/roach88/criteria/internal/criteria"
)

// identifierPattern matches values allowed through as backtick identifiers.
var identifierPattern = regexp.MustCompile("^[a-zA-Z0-9_.\\-`]*$")

// Render returns n as a bare boolean expression without a leading WHERE.
//
// An empty string means the node contributes nothing: a predicate with a
// blank value, an empty composite, or a nil node.
func Render(n criteria.Node) string {
	switch node := n.(type) {
	case *criteria.Predicate:
		return renderPredicate(node)
	case *criteria.Composite:
		return renderComposite(node)
	default:
		return ""
	}
}

// RenderWhere returns Render(n) prefixed with "WHERE ", or an empty string
// when the fragment is empty.
func RenderWhere(n criteria.Node) string {
	fragment := Render(n)
	if fragment == "" {
		return ""
	}
	return "WHERE " + fragment
}

// renderPredicate renders "<column> <operator> <value>".
//
//	status = '1'
//	deleted IS NULL
//	uid IN (1,2,3)
//	name = `other_column`
func renderPredicate(p *criteria.Predicate) string {
	column := p.ColumnExpr()

	if criteria.IsNullTest(p.Operator) {
		return column + " " + p.Operator
	}

	value := strings.TrimSpace(p.Value)
	if value == "" {
		return ""
	}

	if !criteria.IsListTest(p.Operator) {
		value = quoteValue(value)
	}

	return column + " " + p.Operator + " " + value
}

// quoteValue wraps value in single quotes unless it starts or ends with a
// backtick, in which case it is treated as an identifier and replaced by
// an empty identifier when it contains anything unexpected.
func quoteValue(value string) string {
	if !strings.HasPrefix(value, "`") && !strings.HasSuffix(value, "`") {
		return "'" + value + "'"
	}
	if !identifierPattern.MatchString(value) {
		return "``"
	}
	return value
}

// renderComposite joins element fragments left to right, wrapping the
// accumulated result in parentheses after every element:
//
//	[a]           → (a)
//	[a, b]        → ((a) AND b)
//	[a, b OR c]   → (((a) AND b) OR c)
//
// Elements that render empty are skipped so no dangling connector is left.
// This includes the first element: [empty, b OR c] renders as ((b) OR c).
func renderComposite(c *criteria.Composite) string {
	var out string
	for _, el := range c.Elements() {
		fragment := Render(el.Node)
		if fragment == "" {
			continue
		}
		if out == "" {
			out = "(" + fragment + ")"
			continue
		}
		out = "(" + out + " " + string(el.Connector) + " " + fragment + ")"
	}
	return out
}
