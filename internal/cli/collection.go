package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/store"
)

// CollectionOptions holds flags shared by fetch, count and delete.
type CollectionOptions struct {
	Table  string
	Driver string
	DSN    string
}

// FetchResult is the output of the fetch command.
type FetchResult struct {
	Table string         `json:"table"`
	Count int            `json:"count"`
	Rows  []store.Record `json:"rows"`
}

func (r FetchResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d row(s) from %s", r.Count, r.Table)
	for _, row := range r.Rows {
		sb.WriteString("\n  ")
		sb.WriteString(formatRecord(row))
	}
	return sb.String()
}

// CountResult is the output of the count command.
type CountResult struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

func (r CountResult) String() string {
	return fmt.Sprintf("%d row(s) in %s", r.Count, r.Table)
}

// DeleteResult is the output of the delete command.
type DeleteResult struct {
	Table   string `json:"table"`
	Deleted int64  `json:"deleted"`
}

func (r DeleteResult) String() string {
	return fmt.Sprintf("✓ Deleted %d row(s) from %s", r.Deleted, r.Table)
}

// formatRecord prints columns in name order as col=value pairs.
func formatRecord(r store.Record) string {
	cols := make([]string, 0, len(r))
	for col := range r {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	parts := make([]string, len(cols))
	for i, col := range cols {
		v := r[col]
		if v == nil {
			parts[i] = col + "=NULL"
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", col, v)
	}
	return strings.Join(parts, " ")
}

type collectionOp func(ctx context.Context, c *store.Collection, filter criteria.Node) (any, error)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	return newCollectionCommand(rootOpts, "fetch", "Fetch the rows of a table matching a criteria document",
		func(ctx context.Context, c *store.Collection, filter criteria.Node) (any, error) {
			rows, err := c.Fetch(ctx, filter)
			if err != nil {
				return nil, err
			}
			return FetchResult{Table: c.Name(), Count: len(rows), Rows: rows}, nil
		})
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return newCollectionCommand(rootOpts, "count", "Count the rows of a table matching a criteria document",
		func(ctx context.Context, c *store.Collection, filter criteria.Node) (any, error) {
			n, err := c.Count(ctx, filter)
			if err != nil {
				return nil, err
			}
			return CountResult{Table: c.Name(), Count: n}, nil
		})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return newCollectionCommand(rootOpts, "delete", "Delete the rows of a table matching a criteria document",
		func(ctx context.Context, c *store.Collection, filter criteria.Node) (any, error) {
			n, err := c.Delete(ctx, filter)
			if err != nil {
				return nil, err
			}
			return DeleteResult{Table: c.Name(), Deleted: n}, nil
		})
}

func newCollectionCommand(rootOpts *RootOptions, name, short string, op collectionOp) *cobra.Command {
	opts := &CollectionOptions{}

	cmd := &cobra.Command{
		Use:   name + " <document>",
		Short: short,
		Long: short + `.

The database defaults to the database section of the config and can be
overridden with --driver and --dsn. Supported drivers: sqlite3, postgres,
mysql.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollection(rootOpts, opts, args[0], cmd, op)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table to query (required)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "database driver (overrides config)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "data source name (overrides config)")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runCollection(rootOpts *RootOptions, opts *CollectionOptions, path string, cmd *cobra.Command, op collectionOp) error {
	formatter := rootOpts.formatter(cmd)

	cfg, err := rootOpts.Config()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	driver, dsn := cfg.Database.Driver, cfg.Database.DSN
	if opts.Driver != "" {
		driver = opts.Driver
	}
	if opts.DSN != "" {
		dsn = opts.DSN
	}

	filter, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}

	formatter.VerboseLog("Opening %s database", driver)
	s, err := store.Open(driver, dsn)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer s.Close()

	c, err := s.Collection(opts.Table)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	result, err := op(cmd.Context(), c, filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	return formatter.Success(result)
}
