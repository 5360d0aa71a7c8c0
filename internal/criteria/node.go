package criteria

import "strings"

// Node is a filter-expression tree node.
//
// This is a sealed interface - only *Predicate and *Composite implement it.
type Node interface {
	// Sort returns the ORDER BY column, empty when unsorted.
	Sort() string
	// Order returns the sort direction.
	Order() SortOrder
	// Limit returns the maximum number of rows, 0 meaning unbounded.
	Limit() int
	// Start returns the offset of the first row.
	Start() int
	// GroupBy returns the GROUP BY column, empty when ungrouped.
	GroupBy() string

	criteriaNode() // Marker method - seals interface to this package
}

// Connector joins an element of a Composite to the elements before it.
type Connector string

const (
	And Connector = "AND"
	Or  Connector = "OR"
)

// ParseConnector maps s to a Connector. Matching is case-insensitive and
// anything other than "OR" yields And.
func ParseConnector(s string) Connector {
	if strings.EqualFold(strings.TrimSpace(s), string(Or)) {
		return Or
	}
	return And
}

// Predicate is a single comparison: <column> <operator> <value>.
//
// Value holds a literal scalar, or for IN/NOT IN a preformatted
// parenthesized list such as "(1,2,3)" which renderers use verbatim.
type Predicate struct {
	Modifiers

	Prefix   string // optional table alias, joined to Column with "."
	Column   string // bare column name
	Function string // optional template with one %s placeholder, e.g. "LOWER(%s)"
	Operator string // "=", "!=", "<>", "<", "<=", ">", ">=", "LIKE", "NOT LIKE", "IN", "NOT IN", "IS NULL", "IS NOT NULL"
	Value    string
}

// NewPredicate creates a predicate. An empty operator means "=".
func NewPredicate(column, value, operator string) *Predicate {
	if operator == "" {
		operator = "="
	}
	return &Predicate{Column: column, Value: value, Operator: operator}
}

// WithPrefix sets the column qualifier and returns p.
func (p *Predicate) WithPrefix(prefix string) *Predicate {
	p.Prefix = prefix
	return p
}

// WithFunction sets the column template and returns p.
func (p *Predicate) WithFunction(function string) *Predicate {
	p.Function = function
	return p
}

// ColumnExpr returns the qualified column, wrapped in Function if set.
//
//	Predicate{Prefix: "u", Column: "name", Function: "LOWER(%s)"} → "LOWER(u.name)"
func (p *Predicate) ColumnExpr() string {
	column := p.Column
	if p.Prefix != "" {
		column = p.Prefix + "." + column
	}
	if p.Function != "" {
		column = strings.Replace(p.Function, "%s", column, 1)
	}
	return column
}

func (*Predicate) criteriaNode() {}

// Element is one entry of a Composite.
type Element struct {
	Node      Node
	Connector Connector // ignored for the first element
}

// Composite is an ordered, connector-joined collection of nodes.
//
// The connector at position i joins element i to the accumulated result of
// elements [0..i-1]. A Composite exclusively owns its children; adding the
// same node to two composites, or a composite to itself, is a caller bug.
type Composite struct {
	Modifiers

	elements []Element
}

// NewComposite creates a composite holding the given nodes joined by AND.
func NewComposite(nodes ...Node) *Composite {
	c := &Composite{}
	for _, n := range nodes {
		c.Add(n, And)
	}
	return c
}

// Add appends n joined by connector and returns c for chaining.
// The connector is matched case-insensitively; anything other than OR is
// stored as And. A nil node is ignored.
func (c *Composite) Add(n Node, connector Connector) *Composite {
	if n == nil {
		return c
	}
	connector = ParseConnector(string(connector))
	c.elements = append(c.elements, Element{Node: n, Connector: connector})
	return c
}

// Len returns the number of elements.
func (c *Composite) Len() int {
	return len(c.elements)
}

// Elements returns the elements in insertion order.
// The returned slice is a copy; the nodes are shared.
func (c *Composite) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

func (*Composite) criteriaNode() {}
