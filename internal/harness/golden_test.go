package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.AddTrace(TraceEvent{Type: EventRender, Target: TargetSQL, Output: "a > '1'"})
	n := int64(0)
	result.AddTrace(TraceEvent{Type: EventFetch, Table: "t", Rows: []map[string]any{}, Count: &n})

	data, err := Snapshot("snap", result)
	require.NoError(t, err)

	assert.Equal(t,
		`{"scenario_name":"snap","trace":[{"output":"a > '1'","seq":1,"target":"sql","type":"render"},{"count":0,"seq":2,"table":"t","type":"fetch"}]}`,
		string(data))
}

func TestSnapshot_EmptyTrace(t *testing.T) {
	data, err := Snapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","trace":[]}`, string(data))
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}
