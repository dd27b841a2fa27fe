package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/visitors"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Positional bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [query.yaml]",
		Short: "Render a YAML query document to SQL",
		Long: `Render a YAML query document to SQL for the configured dialect and
print the bound values. The document is read from stdin when no file, or
"-", is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runRender(opts, data, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.Positional, "positional", "p", false, "rewrite placeholders into the driver's positional form")

	return cmd
}

func runRender(opts *RenderOptions, data []byte, out io.Writer) error {
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}
	conn, err := opts.renderer()
	if err != nil {
		return err
	}
	b, err := doc.build(conn)
	if err != nil {
		return err
	}
	sql, err := b.SQL()
	if err != nil {
		return err
	}
	opts.logger.Debug().Str("dialect", conn.DialectName()).Str("sql", sql).Msg("rendered")

	if !opts.Positional {
		_, _ = fmt.Fprintln(out, sql)
		writeBindings(out, b.ValueBinder().Bindings(), nil)
		return nil
	}
	d, err := conn.Dialect(nil)
	if err != nil {
		return err
	}
	native, bindings, err := visitors.Positional(sql, b.ValueBinder(), d.Placeholder)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, native)
	writeBindings(out, bindings, d.Placeholder)
	return nil
}

// writeBindings prints one binding per line. With a placeholder function
// the bindings are labelled by position instead of by name.
func writeBindings(out io.Writer, bindings []binder.Binding, placeholder func(int) string) {
	for i, b := range bindings {
		label := b.Param
		if placeholder != nil {
			label = placeholder(i + 1)
			if label == "?" {
				label = fmt.Sprintf("?%d", i+1)
			}
		}
		if b.Type != "" {
			_, _ = fmt.Fprintf(out, "%s = %v [%s]\n", label, b.Value, b.Type)
		} else {
			_, _ = fmt.Fprintf(out, "%s = %v\n", label, b.Value)
		}
	}
}

func readDocument(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	//nolint:gosec // G304: the path is the command argument.
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
