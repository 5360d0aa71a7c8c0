package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"value vs nil", "x", nil, false},
		{"yaml int vs sqlite int64", 3, int64(3), true},
		{"int mismatch", 3, int64(4), false},
		{"int vs string", 3, "3", false},
		{"string", "adm%", "adm%", true},
		{"string mismatch", "a", "b", false},
		{"bool vs int64", true, int64(1), true},
		{"false vs zero", false, int64(0), true},
		{"int vs bool", 1, true, true},
		{"float", 1.5, 1.5, true},
		{"float vs int64", 2.0, int64(2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestRowMatches_Subset(t *testing.T) {
	actual := map[string]any{"uid": int64(1), "uname": "admin", "ip": nil}

	assert.True(t, rowMatches(map[string]any{"uid": 1}, actual))
	assert.True(t, rowMatches(map[string]any{"ip": nil, "uname": "admin"}, actual))
	assert.False(t, rowMatches(map[string]any{"uid": 2}, actual))
	assert.False(t, rowMatches(map[string]any{"missing": 1}, actual))
}

func TestFormatRow_Sorted(t *testing.T) {
	assert.Equal(t, "{a=1, b=x, c=<nil>}", formatRow(map[string]any{"c": nil, "b": "x", "a": 1}))
}

func TestAssertionError_Format(t *testing.T) {
	n := int64(2)
	err := &AssertionError{
		Type:     AssertCount,
		Expected: "3 rows",
		Actual:   "2 rows",
		Trace: []TraceEvent{
			{Type: EventRender, Target: TargetSQL, Output: "a = '1'", Seq: 1},
			{Type: EventCount, Table: "t", Count: &n, Seq: 2},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: count\n")
	assert.Contains(t, msg, "  Expected: 3 rows\n")
	assert.Contains(t, msg, "  Actual: 2 rows\n")
	assert.Contains(t, msg, "  [1] render sql: a = '1'\n")
	assert.Contains(t, msg, "  [2] count t (2)\n")
}

func TestAssertionError_NoTrace(t *testing.T) {
	err := &AssertionError{Type: AssertInspectClean, Expected: "no warnings", Actual: "w"}
	assert.NotContains(t, err.Error(), "Full trace")
}
