package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/parser"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fmt <file>...",
		Short:         "Parse and re-serialize SPARQL queries",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreeCommand(rootOpts, args, cmd, parser.Format)
		},
	}
	return cmd
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "explain <file>...",
		Short:         "Print the syntax tree of SPARQL queries",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreeCommand(rootOpts, args, cmd, parser.Explain)
		},
	}
	return cmd
}

// runTreeCommand parses every file and prints render of its tree.
func runTreeCommand(opts *RootOptions, files []string, cmd *cobra.Command, render func(ast.Request) string) error {
	traceID := newTraceID()
	formatter := opts.formatter(cmd)

	results, err := processFiles(cmd.Context(), opts, files, func(ctx context.Context, query string) (any, error) {
		req, err := parser.ParseString(ctx, query)
		if err != nil {
			return nil, err
		}
		return render(req), nil
	})
	if err != nil {
		return opts.reportCommandError(formatter, traceID, err)
	}

	if err := formatter.Results(traceID, results, func(w io.Writer, v any) {
		fmt.Fprintln(w, v)
	}); err != nil {
		return err
	}
	return failed(results)
}
