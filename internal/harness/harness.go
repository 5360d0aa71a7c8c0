package harness

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/ldapfilter"
	"github.com/roach88/criteria/internal/querybuilder"
	"github.com/roach88/criteria/internal/querysql"
	"github.com/roach88/criteria/internal/sqlfrag"
	"github.com/roach88/criteria/internal/store"
)

// defaultTable is selected from by query renders that name no table.
const defaultTable = "items"

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the criteria tree
//  2. Produce each rendering and compare it with its expectation
//  3. Create a fresh in-memory database and run the setup statements
//  4. Evaluate assertions in order
//
// A returned error means the scenario could not be executed at all; failed
// expectations are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for database work.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	tree, err := scenario.Criteria.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build criteria: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Renders {
		if err := executeRender(tree, step, result); err != nil {
			return nil, fmt.Errorf("renders[%d]: %w", i, err)
		}
	}

	if len(scenario.Assertions) == 0 {
		return result, nil
	}

	st, err := store.OpenSQLite(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	for i, stmt := range scenario.Setup {
		if _, err := st.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	slog.Debug("scenario setup complete", "scenario", scenario.Name, "statements", len(scenario.Setup))

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
		Tree:  tree,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeRender produces one rendering, records it and checks expectations.
func executeRender(tree criteria.Node, step RenderStep, result *Result) error {
	event := TraceEvent{Type: EventRender, Target: step.Target}

	switch step.Target {
	case TargetSQL:
		event.Output = sqlfrag.Render(tree)
	case TargetWhere:
		event.Output = sqlfrag.RenderWhere(tree)
	case TargetLDAP:
		event.Output = ldapfilter.Render(tree)
	case TargetQuery:
		dialect, err := querybuilder.ParseDialect(defaultString(step.Dialect, string(querybuilder.SQLite)))
		if err != nil {
			return err
		}
		mode, err := querysql.ParseWhereMode(step.WhereMode)
		if err != nil {
			return err
		}
		qb := querybuilder.New(dialect).Select().From(defaultString(step.Table, defaultTable), "")
		query, args := querysql.Render(tree, qb, mode).SQL()
		event.Dialect = string(dialect)
		event.Output = query
		event.Args = unwrapArgs(args)
	default:
		return fmt.Errorf("unknown target %q", step.Target)
	}

	result.AddTrace(event)

	if step.Expect != nil && event.Output != *step.Expect {
		result.AddError(fmt.Sprintf("render %s: expected %q, got %q", step.Target, *step.Expect, event.Output))
	}
	if step.Args != nil && !argsEqual(step.Args, event.Args) {
		result.AddError(fmt.Sprintf("render %s: expected args %v, got %v", step.Target, step.Args, event.Args))
	}
	return nil
}

// unwrapArgs strips sql.NamedArg wrappers so traces hold plain values.
func unwrapArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if named, ok := arg.(sql.NamedArg); ok {
			arg = named.Value
		}
		out[i] = arg
	}
	return out
}

func argsEqual(expected, actual []any) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if !valuesEqual(expected[i], actual[i]) {
			return false
		}
	}
	return true
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
