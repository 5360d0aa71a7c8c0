package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/criteria/internal/document"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Criteria is the tree under test, in document form.
	Criteria document.Node `yaml:"criteria"`

	// Renders lists the renderings to produce, in order.
	Renders []RenderStep `yaml:"renders,omitempty"`

	// Setup contains SQL statements run against the scenario database
	// before any assertion. They typically create and seed tables.
	Setup []string `yaml:"setup,omitempty"`

	// Assertions validate inspection results and database behaviour.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RenderStep renders the tree for one target.
type RenderStep struct {
	// Target is one of sql, where, ldap or query.
	Target string `yaml:"target"`

	// Dialect, Table and WhereMode apply to the query target only.
	// Dialect defaults to sqlite and Table to "items".
	Dialect   string `yaml:"dialect,omitempty"`
	Table     string `yaml:"table,omitempty"`
	WhereMode string `yaml:"where_mode,omitempty"`

	// Expect is the expected output. If nil, the output is only traced.
	Expect *string `yaml:"expect,omitempty"`

	// Args are the expected bound values of a query, in placeholder order.
	// If nil, arguments are only traced.
	Args []any `yaml:"args,omitempty"`
}

// Assertion validates inspection or database state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "inspect_clean": No inspection warnings
	// - "inspect_warns": Some warning contains Contains
	// - "fetch": Rows of Table matching the tree
	// - "count": Number of rows of Table matching the tree
	// - "delete": Number of rows of Table removed by the tree
	Type string `yaml:"type"`

	// Table is the table name (used by fetch, count, delete).
	Table string `yaml:"table,omitempty"`

	// Count is the expected number of rows (fetch, count, delete).
	Count *int64 `yaml:"count,omitempty"`

	// Rows are the expected fetched rows, in order (used by fetch).
	// Subset match - only specified columns are validated.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Contains is the expected warning text (used by inspect_warns).
	Contains string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertInspectClean = "inspect_clean"
	AssertInspectWarns = "inspect_warns"
	AssertFetch        = "fetch"
	AssertCount        = "count"
	AssertDelete       = "delete"
)

// Render targets.
const (
	TargetSQL   = "sql"
	TargetWhere = "where"
	TargetLDAP  = "ldap"
	TargetQuery = "query"
)

var validTargets = []string{TargetSQL, TargetWhere, TargetLDAP, TargetQuery}

var validAssertions = []string{AssertInspectClean, AssertInspectWarns, AssertFetch, AssertCount, AssertDelete}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Renders) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one render or assertion is required")
	}

	for i, r := range s.Renders {
		if !slices.Contains(validTargets, r.Target) {
			return fmt.Errorf("renders[%d]: target must be one of %v, got %q", i, validTargets, r.Target)
		}
		if r.Target != TargetQuery && (r.Dialect != "" || r.Table != "" || r.WhereMode != "" || r.Args != nil) {
			return fmt.Errorf("renders[%d]: dialect, table, where_mode and args apply to the query target only", i)
		}
	}

	for i, a := range s.Assertions {
		if !slices.Contains(validAssertions, a.Type) {
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		switch a.Type {
		case AssertFetch, AssertCount, AssertDelete:
			if a.Table == "" {
				return fmt.Errorf("assertions[%d]: %s requires table", i, a.Type)
			}
		case AssertInspectWarns:
			if a.Contains == "" {
				return fmt.Errorf("assertions[%d]: inspect_warns requires contains", i)
			}
		}
		if (a.Type == AssertCount || a.Type == AssertDelete) && a.Count == nil {
			return fmt.Errorf("assertions[%d]: %s requires count", i, a.Type)
		}
	}

	return nil
}
