package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bawdo/quarry/connection"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [query.yaml]",
		Short: "Run a YAML query document against the configured database",
		Long: `Run a YAML query document against the database named by --dsn or
DATABASE_URL. Result sets are printed as a table; other statements print
the number of affected rows.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runExec(cmd.Context(), rootOpts, data, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runExec(ctx context.Context, opts *RootOptions, data []byte, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}
	conn, err := connection.Open(ctx, opts.cfg, opts.logger)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	b, err := doc.build(conn)
	if err != nil {
		return err
	}
	stmt, err := b.Execute(ctx)
	if err != nil {
		return err
	}
	result, err := formatStatement(stmt)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, result)
	return nil
}
