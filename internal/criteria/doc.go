// Package criteria provides the filter-expression tree used to describe
// which rows of a collection a caller is interested in.
//
// A tree is built from two node kinds:
//
//   - Predicate: a single column/operator/value comparison
//   - Composite: an ordered list of nodes joined by AND/OR connectors
//
// Any node may carry Modifiers (sort column and direction, limit, offset,
// group-by column). They are normally set once, on the outermost node.
//
// ARCHITECTURE:
//
// The tree is a pure data model. Rendering lives in separate backend
// packages that each walk the tree with an exhaustive type switch:
//
//	[criteria tree] → sqlfrag     (raw SQL fragment string)
//	                → ldapfilter  (LDAP filter string)
//	                → querysql    (parameterized querybuilder.Builder)
//
// SEALED INTERFACE:
//
// Node is sealed with a marker method so only *Predicate and *Composite
// implement it. Backends rely on this for exhaustive switches:
//
//	switch n := node.(type) {
//	case *criteria.Predicate:
//	    // leaf
//	case *criteria.Composite:
//	    // recurse over n.Elements()
//	}
//
// NO-OP POLICY:
//
// Nothing in the tree or its renderers returns an error. Blank values,
// malformed backtick identifiers, empty columns and unknown operators all
// degrade to inert output rather than failing. Callers that need strict
// validation run Inspect (advisory) or validate before constructing nodes.
//
// CONCURRENCY:
//
// Renderers never mutate a tree, so one tree may be rendered concurrently
// into different targets. Setting modifiers while a render is in progress
// is a data race.
package criteria
