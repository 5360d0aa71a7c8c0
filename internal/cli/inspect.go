package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/criteria"
)

// InspectResult is the output of the inspect command.
type InspectResult struct {
	Clean    bool     `json:"clean"`
	Warnings []string `json:"warnings"`
}

func (r InspectResult) String() string {
	if r.Clean {
		return "✓ No issues found"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠ %d warning(s)", len(r.Warnings))
	for _, w := range r.Warnings {
		sb.WriteString("\n  - " + w)
	}
	return sb.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Report suspicious constructs in a criteria document",
		Long: `Inspect a criteria tree without rendering it.

Warns about unrecognized operators, blank values and columns, interpolated
IN lists, empty composites, nodes shared across the tree, and modifiers set
on more than one node. Exits 1 when any warning is reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	n, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}

	inspection := criteria.Inspect(n)
	result := InspectResult{Clean: inspection.Clean, Warnings: inspection.Warnings}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Clean {
		// Warnings = exit code 1 (inspection failure)
		return NewExitError(ExitFailure, fmt.Sprintf("inspection found %d warning(s)", len(result.Warnings)))
	}
	return nil
}
