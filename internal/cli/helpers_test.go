package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestRootOpts returns options reading an empty config file, so tests
// see the built-in defaults.
func newTestRootOpts(t *testing.T, format string) *RootOptions {
	t.Helper()
	cfg := writeTestFile(t, t.TempDir(), "criteria.yaml", "render:\n  target: sql\n")
	return &RootOptions{Format: format, ConfigFile: cfg}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
