package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/sqlfrag"
)

const membersFragment = "((status = '1') OR (((uid IN (1,2,3)) AND LOWER(u.name) LIKE 'adm%') AND deleted IS NULL))"

func TestLoadCriteria_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"members.yaml", "members.cue", "members.json"} {
		t.Run(name, func(t *testing.T) {
			n, err := LoadCriteria(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, membersFragment, sqlfrag.Render(n))
			assert.Equal(t, "uname", n.Sort())
			assert.Equal(t, criteria.Desc, n.Order())
			assert.Equal(t, 20, n.Limit())
			assert.Equal(t, 40, n.Start())

			root, ok := n.(*criteria.Composite)
			require.True(t, ok)
			elements := root.Elements()
			require.Len(t, elements, 2)
			assert.Equal(t, criteria.Or, elements[1].Connector)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.toml")
	require.NoError(t, os.WriteFile(path, []byte("column = 'a'"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseYAML_Predicate(t *testing.T) {
	doc, err := ParseYAML([]byte("column: level\noperator: '>'\nvalue: 3\ngroup_by: module\n"))
	require.NoError(t, err)

	n, err := doc.Build()
	require.NoError(t, err)

	p, ok := n.(*criteria.Predicate)
	require.True(t, ok)
	assert.Equal(t, "level", p.Column)
	assert.Equal(t, ">", p.Operator)
	assert.Equal(t, "3", p.Value)
	assert.Equal(t, "module", p.GroupBy())
}

func TestParseYAML_DefaultOperator(t *testing.T) {
	doc, err := ParseYAML([]byte("column: a\nvalue: x\n"))
	require.NoError(t, err)

	n, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "=", n.(*criteria.Predicate).Operator)
}

func TestParseYAML_NullValue(t *testing.T) {
	doc, err := ParseYAML([]byte("column: a\nvalue: null\n"))
	require.NoError(t, err)
	assert.Equal(t, Scalar(""), doc.Value)
}

func TestParseYAML_UnknownField(t *testing.T) {
	_, err := ParseYAML([]byte("colum: a\nvalue: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colum")
}

func TestParseYAML_NonScalarValue(t *testing.T) {
	_, err := ParseYAML([]byte("column: a\nvalue: [1, 2]\n"))
	assert.Error(t, err)
}

func TestParseYAML_Empty(t *testing.T) {
	_, err := ParseYAML(nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParseCUE_UnknownField(t *testing.T) {
	_, err := ParseCUE([]byte(`colum: "a"`), "bad.cue")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParseCUE_WrongType(t *testing.T) {
	_, err := ParseCUE([]byte(`column: "a", limit: "ten"`), "bad.cue")
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParseCUE_Syntax(t *testing.T) {
	_, err := ParseCUE([]byte(`column: `), "bad.cue")
	assert.Error(t, err)
}

func TestParseCUE_BoolValue(t *testing.T) {
	doc, err := ParseCUE([]byte(`column: "active", value: true`), "flag.cue")
	require.NoError(t, err)
	assert.Equal(t, Scalar("true"), doc.Value)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{
			name: "column and elements",
			yaml: "column: a\nelements:\n  - column: b\n",
			path: "root",
		},
		{
			name: "neither column nor elements",
			yaml: "sort: a\n",
			path: "root",
		},
		{
			name: "predicate keys on composite",
			yaml: "operator: '='\nelements:\n  - column: b\n",
			path: "root",
		},
		{
			name: "bad condition",
			yaml: "elements:\n  - column: a\n  - column: b\n    condition: XOR\n",
			path: "root.elements[1]",
		},
		{
			name: "bad order",
			yaml: "column: a\norder: sideways\n",
			path: "root",
		},
		{
			name: "negative limit",
			yaml: "column: a\nlimit: -1\n",
			path: "root",
		},
		{
			name: "negative start in nested node",
			yaml: "elements:\n  - elements:\n      - column: a\n        start: -5\n",
			path: "root.elements[0].elements[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseYAML([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = doc.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)

			var docErr *Error
			require.ErrorAs(t, err, &docErr)
			assert.Equal(t, tt.path, docErr.Path)
		})
	}
}

func TestBuild_ConditionCaseInsensitive(t *testing.T) {
	doc, err := ParseYAML([]byte("elements:\n  - column: a\n    value: 1\n  - column: b\n    value: 2\n    condition: or\n"))
	require.NoError(t, err)

	n, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "((a = '1') OR b = '2')", sqlfrag.Render(n))
}
