package criteria

import (
	"fmt"
	"strings"
)

// InspectionResult contains advisory findings about a tree.
//
// Findings never change how a tree renders. They point at constructs the
// renderers accept under the no-op policy but which are usually mistakes.
type InspectionResult struct {
	// Clean is true when no warnings were produced.
	Clean bool

	// Warnings lists findings in tree-walk order.
	Warnings []string
}

// Inspect walks the tree and reports:
//  1. Unrecognized operators (passed through literally when rendered)
//  2. IN/NOT IN lists, which are interpolated rather than parameter-bound
//  3. Predicates with a blank value, which render to an empty SQL fragment
//  4. Predicates without a column, which are no-ops in parameterized queries
//  5. Empty composites
//  6. Modifiers set on more than one node; parameterized rendering applies
//     them on every node visited, so the last one applied wins
//  7. Nodes reachable more than once (shared or cyclic children)
//
// Inspect is a pure function with no side effects.
func Inspect(n Node) InspectionResult {
	in := &inspector{
		warnings: []string{},
		seen:     map[Node]bool{},
	}
	in.inspectNode(n, "root")

	if len(in.modified) > 1 {
		in.addWarning("modifiers set on %d nodes (%s) - parameterized rendering keeps the last applied",
			len(in.modified), strings.Join(in.modified, ", "))
	}

	return InspectionResult{
		Clean:    len(in.warnings) == 0,
		Warnings: in.warnings,
	}
}

// inspector accumulates warnings during traversal.
type inspector struct {
	warnings []string
	modified []string
	seen     map[Node]bool
}

func (in *inspector) addWarning(format string, args ...any) {
	in.warnings = append(in.warnings, fmt.Sprintf(format, args...))
}

func (in *inspector) inspectNode(n Node, path string) {
	if n == nil {
		in.addWarning("%s: nil node", path)
		return
	}
	if in.seen[n] {
		in.addWarning("%s: node reachable more than once", path)
		return
	}
	in.seen[n] = true

	switch node := n.(type) {
	case *Predicate:
		if node.HasModifiers() {
			in.modified = append(in.modified, path)
		}
		in.inspectPredicate(node, path)
	case *Composite:
		if node.HasModifiers() {
			in.modified = append(in.modified, path)
		}
		in.inspectComposite(node, path)
	default:
		in.addWarning("%s: unknown node type %T", path, n)
	}
}

func (in *inspector) inspectPredicate(p *Predicate, path string) {
	label := fmt.Sprintf("%s (%s)", path, p.ColumnExpr())

	if !IsKnownOperator(p.Operator) {
		in.addWarning("%s: unrecognized operator %q is passed through literally", label, p.Operator)
	}
	if strings.TrimSpace(p.Column) == "" && !IsNullTest(p.Operator) && !IsListTest(p.Operator) {
		in.addWarning("%s: empty column - predicate is a no-op in parameterized queries", label)
	}
	if IsNullTest(p.Operator) {
		return
	}
	if strings.TrimSpace(p.Value) == "" {
		in.addWarning("%s: blank value - predicate renders an empty SQL fragment", label)
		return
	}
	if IsListTest(p.Operator) {
		in.addWarning("%s: %s list is interpolated, not parameter-bound", label, NormalizeOperator(p.Operator))
	}
}

func (in *inspector) inspectComposite(c *Composite, path string) {
	if c.Len() == 0 {
		in.addWarning("%s: empty composite", path)
		return
	}
	for i, el := range c.elements {
		in.inspectNode(el.Node, fmt.Sprintf("%s[%d]", path, i))
	}
}
