package criteria

import "strings"

// Operator spellings recognised by the renderers. Matching is
// case-insensitive; see NormalizeOperator.
const (
	OpEq        = "="
	OpNeq       = "!="
	OpNeqAlt    = "<>"
	OpLt        = "<"
	OpLte       = "<="
	OpGt        = ">"
	OpGte       = ">="
	OpLike      = "LIKE"
	OpNotLike   = "NOT LIKE"
	OpIn        = "IN"
	OpNotIn     = "NOT IN"
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

var knownOperators = map[string]bool{
	OpEq: true, OpNeq: true, OpNeqAlt: true,
	OpLt: true, OpLte: true, OpGt: true, OpGte: true,
	OpLike: true, OpNotLike: true,
	OpIn: true, OpNotIn: true,
	OpIsNull: true, OpIsNotNull: true,
	// word aliases accepted by the parameterized renderer
	"EQ": true, "NEQ": true, "LT": true, "LTE": true, "GT": true, "GTE": true,
}

// NormalizeOperator upper-cases op and trims surrounding space.
func NormalizeOperator(op string) string {
	return strings.ToUpper(strings.TrimSpace(op))
}

// IsKnownOperator reports whether op is part of the fixed vocabulary.
func IsKnownOperator(op string) bool {
	return knownOperators[NormalizeOperator(op)]
}

// IsNullTest reports whether op is IS NULL or IS NOT NULL.
func IsNullTest(op string) bool {
	switch NormalizeOperator(op) {
	case OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// IsListTest reports whether op is IN or NOT IN.
func IsListTest(op string) bool {
	switch NormalizeOperator(op) {
	case OpIn, OpNotIn:
		return true
	}
	return false
}
