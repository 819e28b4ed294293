package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kyleconroy/sparqlparam/params"
)

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params <file>...",
		Short: "List the parameter slots of SPARQL queries",
		Long: `List the VALUES parameter groups and the LIMIT/OFFSET placeholders of
each query file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runParams(opts *RootOptions, files []string, cmd *cobra.Command) error {
	traceID := newTraceID()
	formatter := opts.formatter(cmd)
	engine := opts.engine(traceID)

	formatter.VerboseLog("Detecting parameters in %d file(s)", len(files))
	results, err := processFiles(cmd.Context(), opts, files, func(ctx context.Context, query string) (any, error) {
		return engine.DetectParameters(ctx, query)
	})
	if err != nil {
		return opts.reportCommandError(formatter, traceID, err)
	}

	if err := formatter.Results(traceID, results, renderParams); err != nil {
		return err
	}
	return failed(results)
}

func renderParams(w io.Writer, v any) {
	detected := v.(params.DetectedParameters)
	if len(detected.ValuesParameters) == 0 && len(detected.LimitParameters) == 0 && len(detected.OffsetParameters) == 0 {
		fmt.Fprintln(w, "no parameters")
		return
	}
	for _, group := range detected.ValuesParameters {
		vars := make([]string, len(group))
		for i, name := range group {
			vars[i] = "?" + name
		}
		fmt.Fprintf(w, "VALUES %s\n", strings.Join(vars, " "))
	}
	for _, id := range detected.LimitParameters {
		fmt.Fprintf(w, "LIMIT %s\n", id)
	}
	for _, id := range detected.OffsetParameters {
		fmt.Fprintf(w, "OFFSET %s\n", id)
	}
}

// reportCommandError writes err and returns it as a command-level failure.
func (o *RootOptions) reportCommandError(formatter *OutputFormatter, traceID string, err error) error {
	o.reportError(formatter, traceID, ErrCodeReadFailed, err.Error())
	if GetExitCode(err) == ExitCommandError {
		return err
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}
