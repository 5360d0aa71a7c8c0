// Package document loads criteria trees from YAML, CUE and JSON files.
//
// A document is one node. Predicates use the keys column, value, operator,
// prefix and function; composites list their children under elements, each
// child optionally carrying a condition (AND or OR) that joins it to the
// previous sibling. Any node may carry sort, order, limit, start and
// group_by.
//
//	elements:
//	  - column: status
//	    value: 1
//	  - column: uid
//	    operator: IN
//	    value: (1,2,3)
//	    condition: OR
//	sort: uname
//	limit: 20
//
// YAML is decoded strictly, so misspelled keys are rejected. CUE and JSON
// documents are unified with a closed schema that does the same.
package document
