// Package ldapfilter renders criteria trees as LDAP search filters.
//
// The dialect is the legacy one used by directory-backed member lookups:
// there is no strict inequality, so "<" and ">" widen to "<=" and ">=",
// and values are written verbatim. Callers must hand in values that are
// already valid LDAP filter assertions; nothing is escaped here.
//
// Only Predicate.Column is used. Prefix and Function are SQL concepts and
// are ignored, as are all modifiers.
package ldapfilter

import (
	"strings"

	"github.com/roach88/criteria/internal/criteria"
)

// Render returns n as a parenthesized LDAP filter.
//
//	status = 1                    → (status=1)
//	uid IN (1,2)                  → (|(uid=1)(uid=2))
//	a = 1 AND b != 2              → (&(a=1)(!(b=2)))
//
// An empty composite or a nil node renders as an empty string.
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

func renderPredicate(p *criteria.Predicate) string {
	switch op := criteria.NormalizeOperator(p.Operator); op {
	case criteria.OpGt:
		return "(" + p.Column + criteria.OpGte + p.Value + ")"
	case criteria.OpLt:
		return "(" + p.Column + criteria.OpLte + p.Value + ")"
	case criteria.OpNeq, criteria.OpNeqAlt:
		return "(!(" + p.Column + "=" + p.Value + "))"
	case criteria.OpIn:
		return renderIn(p)
	default:
		return "(" + p.Column + p.Operator + p.Value + ")"
	}
}

// renderIn expands "(a,b,c)" into one equality per item, OR-combined.
func renderIn(p *criteria.Predicate) string {
	list := strings.NewReplacer("(", "", ")", "").Replace(p.Value)

	var b strings.Builder
	b.WriteString("(|")
	for _, item := range strings.Split(list, ",") {
		b.WriteString("(" + p.Column + "=" + item + ")")
	}
	b.WriteString(")")
	return b.String()
}

// renderComposite folds elements left to right. LDAP filters are prefix
// notation, so each step wraps the accumulated filter and the next element
// in a new (&...) or (|...) group.
func renderComposite(c *criteria.Composite) string {
	var out string
	for i, el := range c.Elements() {
		filter := Render(el.Node)
		if i == 0 {
			out = filter
			continue
		}
		op := "&"
		if el.Connector == criteria.Or {
			op = "|"
		}
		out = "(" + op + out + filter + ")"
	}
	return out
}
