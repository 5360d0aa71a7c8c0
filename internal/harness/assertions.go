package harness

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Type)
			if event.Target != "" {
				fmt.Fprintf(&buf, " %s", event.Target)
			}
			if event.Table != "" {
				fmt.Fprintf(&buf, " %s", event.Table)
			}
			if event.Output != "" {
				fmt.Fprintf(&buf, ": %s", event.Output)
			}
			if event.Count != nil {
				fmt.Fprintf(&buf, " (%d)", *event.Count)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// AssertionContext provides what database assertions run against.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	Tree  criteria.Node
}

// EvaluateAssertions runs every assertion in order and returns the failure
// messages. Each assertion appends its observation to the result's trace
// before it is checked, so later failures show earlier steps.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		if err := evaluate(result, assertion, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}

	return errs
}

func evaluate(result *Result, assertion Assertion, actx *AssertionContext) error {
	switch assertion.Type {
	case AssertInspectClean, AssertInspectWarns:
		inspection := criteria.Inspect(actx.Tree)
		result.AddTrace(TraceEvent{Type: EventInspect, Warnings: inspection.Warnings})
		if assertion.Type == AssertInspectClean {
			return assertInspectClean(inspection, result.Trace)
		}
		return assertInspectWarns(inspection, assertion, result.Trace)
	case AssertFetch:
		return assertFetch(result, assertion, actx)
	case AssertCount:
		return assertCount(result, assertion, actx)
	case AssertDelete:
		return assertDelete(result, assertion, actx)
	default:
		return fmt.Errorf("unknown assertion type: %s", assertion.Type)
	}
}

func assertInspectClean(inspection criteria.InspectionResult, trace []TraceEvent) error {
	if inspection.Clean {
		return nil
	}
	return &AssertionError{
		Type:     AssertInspectClean,
		Expected: "no warnings",
		Actual:   strings.Join(inspection.Warnings, "; "),
		Trace:    trace,
	}
}

func assertInspectWarns(inspection criteria.InspectionResult, assertion Assertion, trace []TraceEvent) error {
	for _, w := range inspection.Warnings {
		if strings.Contains(w, assertion.Contains) {
			return nil
		}
	}
	actual := "no warnings"
	if len(inspection.Warnings) > 0 {
		actual = strings.Join(inspection.Warnings, "; ")
	}
	return &AssertionError{
		Type:     AssertInspectWarns,
		Expected: fmt.Sprintf("a warning containing %q", assertion.Contains),
		Actual:   actual,
		Trace:    trace,
	}
}

func assertFetch(result *Result, assertion Assertion, actx *AssertionContext) error {
	coll, err := actx.Store.Collection(assertion.Table)
	if err != nil {
		return err
	}
	records, err := coll.Fetch(actx.Ctx, actx.Tree)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		rows[i] = map[string]any(rec)
	}
	n := int64(len(rows))
	result.AddTrace(TraceEvent{Type: EventFetch, Table: assertion.Table, Rows: rows, Count: &n})

	if assertion.Count != nil && *assertion.Count != n {
		return countError(AssertFetch, *assertion.Count, n, result.Trace)
	}
	if assertion.Rows == nil {
		return nil
	}
	if len(assertion.Rows) != len(rows) {
		return &AssertionError{
			Type:     AssertFetch,
			Expected: fmt.Sprintf("%d rows", len(assertion.Rows)),
			Actual:   fmt.Sprintf("%d rows", len(rows)),
			Trace:    result.Trace,
		}
	}
	for i, expected := range assertion.Rows {
		if !rowMatches(expected, rows[i]) {
			return &AssertionError{
				Type:     AssertFetch,
				Expected: fmt.Sprintf("row %d matching %s", i, formatRow(expected)),
				Actual:   formatRow(rows[i]),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

func assertCount(result *Result, assertion Assertion, actx *AssertionContext) error {
	coll, err := actx.Store.Collection(assertion.Table)
	if err != nil {
		return err
	}
	n, err := coll.Count(actx.Ctx, actx.Tree)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	result.AddTrace(TraceEvent{Type: EventCount, Table: assertion.Table, Count: &n})

	if *assertion.Count != n {
		return countError(AssertCount, *assertion.Count, n, result.Trace)
	}
	return nil
}

func assertDelete(result *Result, assertion Assertion, actx *AssertionContext) error {
	coll, err := actx.Store.Collection(assertion.Table)
	if err != nil {
		return err
	}
	n, err := coll.Delete(actx.Ctx, actx.Tree)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	result.AddTrace(TraceEvent{Type: EventDelete, Table: assertion.Table, Count: &n})

	if *assertion.Count != n {
		return countError(AssertDelete, *assertion.Count, n, result.Trace)
	}
	return nil
}

func countError(typ string, expected, actual int64, trace []TraceEvent) error {
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d rows", expected),
		Actual:   fmt.Sprintf("%d rows", actual),
		Trace:    trace,
	}
}

// rowMatches reports whether every column in expected equals actual's.
func rowMatches(expected, actual map[string]any) bool {
	for col, want := range expected {
		got, ok := actual[col]
		if !ok || !valuesEqual(want, got) {
			return false
		}
	}
	return true
}

// formatRow renders a row with sorted columns for stable messages.
func formatRow(row map[string]any) string {
	cols := slices.Sorted(maps.Keys(row))
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s=%v", col, row[col])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// valuesEqual compares a value decoded from scenario YAML with one read
// from the database or a bound parameter.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	// SQLite returns int64 for integers; YAML decodes them as int.
	if exp, ok := toInt64(expected); ok {
		if act, ok := toInt64(actual); ok {
			return exp == act
		}
		if act, ok := actual.(bool); ok {
			return (exp != 0) == act
		}
		return false
	}

	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		if act, ok := actual.(bool); ok {
			return exp == act
		}
		// SQLite stores booleans as integers (0/1)
		if act, ok := toInt64(actual); ok {
			return exp == (act != 0)
		}
		return false
	case float64:
		switch act := actual.(type) {
		case float64:
			return exp == act
		case int64:
			return exp == float64(act)
		}
		return false
	}

	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	return 0, false
}
