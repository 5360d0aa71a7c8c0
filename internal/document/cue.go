package document

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schema closes the document shape so misspelled keys fail unification.
const schema = `
#Node: {
	column?:    string
	value?:     string | number | bool | null
	operator?:  string
	prefix?:    string
	function?:  string
	elements?:  [...#Node]
	condition?: string
	sort?:      string
	order?:     string
	limit?:     int
	start?:     int
	group_by?:  string
}
`

// ParseCUE evaluates a CUE (or JSON) document against the node schema.
// filename is used in error positions only.
func ParseCUE(data []byte, filename string) (*Node, error) {
	ctx := cuecontext.New()

	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Node"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %s", cueerrors.Details(err, nil))
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, cueerrors.Details(err, nil))
	}

	var n Node
	if err := v.Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &n, nil
}
