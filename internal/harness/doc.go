// Package harness runs conformance scenarios for criteria documents.
//
// A scenario is a YAML file holding one criteria tree, the renderings it
// must produce, and assertions about how it behaves against a table:
//
//	name: active_members
//	description: Active members or admins
//	criteria:
//	  elements:
//	    - column: status
//	      value: 1
//	    - column: level
//	      operator: ">="
//	      value: 5
//	      condition: OR
//	renders:
//	  - target: sql
//	    expect: "((status = '1') OR level >= '5')"
//	  - target: query
//	    dialect: postgres
//	    table: users
//	    expect: "SELECT * FROM users WHERE (status = $1) OR (level >= $2)"
//	    args: ["1", "5"]
//	setup:
//	  - CREATE TABLE users (uid INTEGER, status INTEGER, level INTEGER)
//	  - INSERT INTO users VALUES (1, 1, 0), (2, 0, 9), (3, 0, 0)
//	assertions:
//	  - type: count
//	    table: users
//	    count: 2
//
// Each scenario runs against a fresh in-memory SQLite database, so setup
// statements never leak between scenarios.
//
// # Trace
//
// Every rendering, the inspection, and every database assertion appends a
// TraceEvent to the Result. The trace is serialized as canonical JSON for
// golden file comparison, so any change in rendered SQL, bound arguments or
// fetched rows shows up as a golden diff.
//
// # Assertions
//
//   - inspect_clean: the tree has no inspection warnings
//   - inspect_warns: some warning contains the given text
//   - fetch: rows matching the tree, optionally checked by count and by an
//     ordered subset match on column values
//   - count: number of matching rows (or groups)
//   - delete: number of rows removed; later assertions see the result
package harness
