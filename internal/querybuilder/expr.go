package querybuilder

// Expr is a fragment of SQL that may reference bound parameters.
// The zero value is the empty expression.
type Expr struct {
	parts []exprPart
}

// exprPart is either literal text or a reference to a builder parameter.
type exprPart struct {
	text  string
	param int // 1-based index into Builder.params; 0 means text
}

// Raw wraps literal SQL text. It is never escaped.
func Raw(sql string) Expr {
	if sql == "" {
		return Expr{}
	}
	return Expr{parts: []exprPart{{text: sql}}}
}

// IsEmpty reports whether e has no content.
func (e Expr) IsEmpty() bool {
	return len(e.parts) == 0
}

// concat returns the expressions joined without separators.
func concat(exprs ...Expr) Expr {
	var out Expr
	for _, e := range exprs {
		out.parts = append(out.parts, e.parts...)
	}
	return out
}

// ExprBuilder creates comparison expressions. Columns are raw SQL.
type ExprBuilder struct{}

// Comparison returns "<column> <op> <value>".
func (ExprBuilder) Comparison(column, op string, value Expr) Expr {
	return concat(Raw(column+" "+op+" "), value)
}

func (x ExprBuilder) Eq(column string, value Expr) Expr  { return x.Comparison(column, "=", value) }
func (x ExprBuilder) Neq(column string, value Expr) Expr { return x.Comparison(column, "<>", value) }
func (x ExprBuilder) Lt(column string, value Expr) Expr  { return x.Comparison(column, "<", value) }
func (x ExprBuilder) Lte(column string, value Expr) Expr { return x.Comparison(column, "<=", value) }
func (x ExprBuilder) Gt(column string, value Expr) Expr  { return x.Comparison(column, ">", value) }
func (x ExprBuilder) Gte(column string, value Expr) Expr { return x.Comparison(column, ">=", value) }

func (x ExprBuilder) Like(column string, value Expr) Expr {
	return x.Comparison(column, "LIKE", value)
}

func (x ExprBuilder) NotLike(column string, value Expr) Expr {
	return x.Comparison(column, "NOT LIKE", value)
}

// IsNull returns "<column> IS NULL".
func (ExprBuilder) IsNull(column string) Expr {
	return Raw(column + " IS NULL")
}

// IsNotNull returns "<column> IS NOT NULL".
func (ExprBuilder) IsNotNull(column string) Expr {
	return Raw(column + " IS NOT NULL")
}

// condition is a node of the WHERE tree: a leaf expression or an
// AND/OR group of conditions.
type condition struct {
	kind  string // "" for a leaf, otherwise "AND" or "OR"
	expr  Expr
	parts []*condition
}

const (
	kindAnd = "AND"
	kindOr  = "OR"
)

// flatten renders the condition as one expression. Groups with more than one part wrap each
// part in parentheses: (a) AND (b).
func (c *condition) flatten() Expr {
	if c.kind == "" {
		return c.expr
	}
	if len(c.parts) == 1 {
		return c.parts[0].flatten()
	}
	out := Raw("(")
	for i, p := range c.parts {
		if i > 0 {
			out = concat(out, Raw(") "+c.kind+" ("))
		}
		out = concat(out, p.flatten())
	}
	return concat(out, Raw(")"))
}
