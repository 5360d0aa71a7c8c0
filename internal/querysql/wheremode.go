package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/criteria/internal/criteria"
)

// ErrUnknownWhereMode is returned by ParseWhereMode for unsupported modes.
var ErrUnknownWhereMode = errors.New("unknown where mode")

// WhereMode says how a rendered expression joins the builder's WHERE.
type WhereMode string

const (
	// WhereDefault replaces the WHERE expression. Used for the first
	// condition rendered into a fresh builder.
	WhereDefault WhereMode = ""
	// WhereAnd joins with AND.
	WhereAnd WhereMode = "and"
	// WhereOr joins with OR.
	WhereOr WhereMode = "or"
	// WhereNone attaches nothing. Predicates without a column use it.
	WhereNone WhereMode = "none"
)

// ParseWhereMode maps "", "and" or "or" (case-insensitive) to a WhereMode.
func ParseWhereMode(s string) (WhereMode, error) {
	switch WhereMode(strings.ToLower(strings.TrimSpace(s))) {
	case WhereDefault:
		return WhereDefault, nil
	case WhereAnd:
		return WhereAnd, nil
	case WhereOr:
		return WhereOr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWhereMode, s)
	}
}

// modeFor maps a composite connector to the mode its element renders with.
func modeFor(c criteria.Connector) WhereMode {
	if c == criteria.Or {
		return WhereOr
	}
	return WhereAnd
}
