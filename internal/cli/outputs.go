package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewOutputsCommand creates the outputs command.
func NewOutputsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "outputs <file>...",
		Short:         "List the result columns of SELECT queries",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutputs(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runOutputs(opts *RootOptions, files []string, cmd *cobra.Command) error {
	traceID := newTraceID()
	formatter := opts.formatter(cmd)
	engine := opts.engine(traceID)

	results, err := processFiles(cmd.Context(), opts, files, func(ctx context.Context, query string) (any, error) {
		return engine.DetectOutputColumns(ctx, query)
	})
	if err != nil {
		return opts.reportCommandError(formatter, traceID, err)
	}

	if err := formatter.Results(traceID, results, func(w io.Writer, v any) {
		for _, column := range v.([]string) {
			fmt.Fprintln(w, column)
		}
	}); err != nil {
		return err
	}
	return failed(results)
}
