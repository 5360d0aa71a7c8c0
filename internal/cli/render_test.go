package cli

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var membersDoc = filepath.Join("testdata", "members.yaml")

const membersFragment = "((status = '1') OR (((uid IN (1,2,3)) AND LOWER(u.name) LIKE 'adm%') AND deleted IS NULL))"

func TestRender_SQLTarget(t *testing.T) {
	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")), membersDoc, "--target", "sql")
	require.NoError(t, err)
	assert.Equal(t, membersFragment+"\n", out)
}

func TestRender_WhereTarget(t *testing.T) {
	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")), membersDoc, "--target", "where")
	require.NoError(t, err)
	assert.Equal(t, "WHERE "+membersFragment+"\n", out)
}

func TestRender_DefaultTargetFromConfig(t *testing.T) {
	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")), membersDoc)
	require.NoError(t, err)
	assert.Equal(t, membersFragment+"\n", out)
}

func TestRender_QuerySQLiteText(t *testing.T) {
	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")), membersDoc, "-t", "query", "--dialect", "sqlite")
	require.NoError(t, err)

	expected := "SELECT * FROM items WHERE ((status = :p1) OR (uid IN (1,2,3))) AND (LOWER(u.name) LIKE :p2) AND (deleted IS NULL) ORDER BY uname DESC LIMIT 20 OFFSET 40\n" +
		"  :p1 = 1\n" +
		"  :p2 = adm%\n"
	assert.Equal(t, expected, out)
}

func TestRender_QueryPostgresJSON(t *testing.T) {
	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "json")),
		membersDoc, "--target", "query", "--dialect", "postgres", "--table", "users")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render_query_postgres", []byte(out))
}

func TestRender_QueryMySQLWhereModeAnd(t *testing.T) {
	dir := t.TempDir()
	doc := writeTestFile(t, dir, "one.yaml", "column: uid\nvalue: 7\n")

	out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")),
		doc, "--target", "query", "--dialect", "mysql", "--where-mode", "and")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM items WHERE uid = ?\n  ? = 7\n", out)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := writeTestFile(t, dir, "bad.yaml", "column: a\nelements:\n  - column: b\n")
	unsupported := writeTestFile(t, dir, "filter.toml", "column = 'a'\n")

	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"missing document", []string{filepath.Join(dir, "absent.yaml")}, ErrCodeNotFound, ExitCommandError},
		{"invalid document", []string{invalid}, ErrCodeInvalidDocument, ExitCommandError},
		{"unsupported format", []string{unsupported}, ErrCodeUnsupported, ExitCommandError},
		{"unknown target", []string{membersDoc, "--target", "xml"}, ErrCodeInvalidFlag, ExitCommandError},
		{"unknown dialect", []string{membersDoc, "--target", "query", "--dialect", "oracle"}, ErrCodeInvalidFlag, ExitCommandError},
		{"unknown where mode", []string{membersDoc, "--target", "query", "--where-mode", "none"}, ErrCodeInvalidFlag, ExitCommandError},
		{"empty table", []string{membersDoc, "--target", "query", "--table", ""}, ErrCodeInvalidFlag, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewRenderCommand(newTestRootOpts(t, "text")), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestRenderResult_String(t *testing.T) {
	r := RenderResult{Target: "query", Output: "SELECT 1", Args: []RenderArg{{Placeholder: "$1", Value: "x"}}}
	assert.Equal(t, "SELECT 1\n  $1 = x", r.String())
}
