package cli

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/config"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/ldapfilter"
	"github.com/roach88/criteria/internal/querybuilder"
	"github.com/roach88/criteria/internal/querysql"
	"github.com/roach88/criteria/internal/sqlfrag"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Target    string
	Table     string
	Dialect   string
	WhereMode string
}

// RenderResult is the output of the render command.
type RenderResult struct {
	Target string      `json:"target"`
	Output string      `json:"output"`
	Args   []RenderArg `json:"args,omitempty"`
}

// RenderArg is one bound parameter of a parameterized query.
type RenderArg struct {
	Placeholder string `json:"placeholder"`
	Value       any    `json:"value"`
}

func (r RenderResult) String() string {
	var sb strings.Builder
	sb.WriteString(r.Output)
	for _, a := range r.Args {
		fmt.Fprintf(&sb, "\n  %s = %v", a.Placeholder, a.Value)
	}
	return sb.String()
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a criteria document",
		Long: `Render the criteria tree in a YAML, CUE or JSON document.

Targets:
  sql    SQL fragment with values inlined and single-quoted
  where  the same fragment prefixed with WHERE (empty when there is no condition)
  ldap   LDAP filter string
  query  parameterized SELECT for --table in the configured dialect

Target and dialect default to the render section of the config.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "render target (sql|where|ldap|query)")
	cmd.Flags().StringVar(&opts.Table, "table", "items", "table selected from by the query target")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "placeholder dialect for the query target (sqlite|postgres|mysql)")
	cmd.Flags().StringVar(&opts.WhereMode, "where-mode", "", "how the root condition joins the query (and|or, default replaces)")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	cfg, err := rootOpts.Config()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	rc := cfg.Render
	if opts.Target != "" {
		rc.Target = opts.Target
	}
	if opts.Dialect != "" {
		rc.Dialect = opts.Dialect
	}
	if opts.WhereMode != "" {
		rc.WhereMode = opts.WhereMode
	}
	if err := (&config.Config{Database: cfg.Database, Render: rc}).Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	n, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}

	result := RenderResult{Target: rc.Target}
	switch rc.Target {
	case config.TargetSQL:
		result.Output = sqlfrag.Render(n)
	case config.TargetWhere:
		result.Output = sqlfrag.RenderWhere(n)
	case config.TargetLDAP:
		result.Output = ldapfilter.Render(n)
	case config.TargetQuery:
		result, err = renderQuery(n, rc, opts.Table)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
		}
	}

	formatter.VerboseLog("Rendered %s target", rc.Target)
	return formatter.Success(result)
}

func renderQuery(n criteria.Node, rc config.RenderConfig, table string) (RenderResult, error) {
	dialect, err := querybuilder.ParseDialect(rc.Dialect)
	if err != nil {
		return RenderResult{}, err
	}
	mode, err := querysql.ParseWhereMode(rc.WhereMode)
	if err != nil {
		return RenderResult{}, err
	}
	if table == "" {
		return RenderResult{}, fmt.Errorf("--table is required for the query target")
	}

	qb := querysql.Render(n, querybuilder.New(dialect).Select().From(table, ""), mode)
	query, args := qb.SQL()

	result := RenderResult{Target: config.TargetQuery, Output: query}
	for i, arg := range args {
		result.Args = append(result.Args, renderArg(dialect, i, arg))
	}
	return result, nil
}

func renderArg(dialect querybuilder.Dialect, i int, arg any) RenderArg {
	switch dialect {
	case querybuilder.SQLite:
		if named, ok := arg.(sql.NamedArg); ok {
			return RenderArg{Placeholder: ":" + named.Name, Value: named.Value}
		}
	case querybuilder.Postgres:
		return RenderArg{Placeholder: fmt.Sprintf("$%d", i+1), Value: arg}
	}
	return RenderArg{Placeholder: "?", Value: arg}
}
