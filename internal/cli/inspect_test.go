package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Clean(t *testing.T) {
	out, err := execute(t, NewInspectCommand(newTestRootOpts(t, "text")), filepath.Join("testdata", "directory.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "✓ No issues found\n", out)
}

func TestInspect_WarningsExitFailure(t *testing.T) {
	out, err := execute(t, NewInspectCommand(newTestRootOpts(t, "text")), membersDoc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "⚠ 1 warning(s)")
	assert.Contains(t, out, "root[1][0] (uid): IN list is interpolated, not parameter-bound")
}

func TestInspect_JSON(t *testing.T) {
	dir := t.TempDir()
	doc := writeTestFile(t, dir, "odd.yaml", "elements:\n  - column: a\n    operator: SOUNDS LIKE\n    value: x\n    sort: a\n  - column: b\n    value: '  '\n    limit: 5\n")

	out, err := execute(t, NewInspectCommand(newTestRootOpts(t, "json")), doc)
	require.Error(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   InspectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Data.Clean)
	assert.Equal(t, []string{
		`root[0] (a): unrecognized operator "SOUNDS LIKE" is passed through literally`,
		"root[1] (b): blank value - predicate renders an empty SQL fragment",
		"modifiers set on 2 nodes (root[0], root[1]) - parameterized rendering keeps the last applied",
	}, resp.Data.Warnings)
}

func TestInspect_MissingDocument(t *testing.T) {
	out, err := execute(t, NewInspectCommand(newTestRootOpts(t, "text")), filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
