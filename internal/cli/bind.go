package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kyleconroy/sparqlparam/params"
)

// BindOptions holds flags for the bind command.
type BindOptions struct {
	*RootOptions
	Bindings string            // path to a JSON binding set
	Limit    map[string]string // LIMIT placeholder id -> value
	Offset   map[string]string // OFFSET placeholder id -> value
}

// BindResult is the JSON payload of the bind command.
type BindResult struct {
	Query string `json:"query"`
}

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bind <file>",
		Short: "Fill the parameter slots of a SPARQL query",
		Long: `Fill VALUES parameter groups from a JSON binding set and replace
LIMIT/OFFSET placeholders with numbers.

The binding set has the shape of a SPARQL JSON results document:

  {"head": {"vars": ["s"]},
   "arguments": {"bindings": [{"s": {"type": "uri", "value": "http://ex/a"}}]}}

Placeholder values come from the pagination section of the config file and
from --limit/--offset, flags taking precedence.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Bindings, "bindings", "b", "", "path to JSON binding set")
	cmd.Flags().StringToStringVar(&opts.Limit, "limit", nil, "LIMIT placeholder values (id=n,...)")
	cmd.Flags().StringToStringVar(&opts.Offset, "offset", nil, "OFFSET placeholder values (id=n,...)")

	return cmd
}

func runBind(opts *BindOptions, file string, cmd *cobra.Command) error {
	traceID := newTraceID()
	formatter := opts.formatter(cmd)
	engine := opts.engine(traceID)

	var bindings *params.BindingSet
	if opts.Bindings != "" {
		var err error
		bindings, err = loadBindings(opts.Bindings)
		if err != nil {
			opts.reportError(formatter, traceID, ErrCodeBadBindings, err.Error())
			return WrapExitError(ExitCommandError, "loading bindings", err)
		}
	}

	pagination, err := opts.pagination()
	if err != nil {
		opts.reportError(formatter, traceID, ErrCodeBadFlag, err.Error())
		return WrapExitError(ExitCommandError, "parsing pagination flags", err)
	}

	if bindings == nil && len(pagination.Limit) == 0 && len(pagination.Offset) == 0 {
		err := fmt.Errorf("nothing to bind: pass --bindings, --limit or --offset")
		opts.reportError(formatter, traceID, ErrCodeBadFlag, err.Error())
		return WrapExitError(ExitCommandError, "bind", err)
	}

	results, err := processFiles(cmd.Context(), opts.RootOptions, []string{file}, func(ctx context.Context, query string) (any, error) {
		out := query
		var err error
		if bindings != nil {
			formatter.VerboseLog("Applying %d binding row(s)", len(bindings.Rows()))
			out, err = engine.ApplyBindings(ctx, out, bindings)
			if err != nil {
				return nil, err
			}
		}
		if len(pagination.Limit) > 0 || len(pagination.Offset) > 0 {
			out, err = engine.ApplyPagination(ctx, out, pagination)
			if err != nil {
				return nil, err
			}
		}
		return BindResult{Query: out}, nil
	})
	if err != nil {
		return opts.reportCommandError(formatter, traceID, err)
	}

	if err := formatter.Results(traceID, results, func(w io.Writer, v any) {
		fmt.Fprintln(w, v.(BindResult).Query)
	}); err != nil {
		return err
	}
	return failed(results)
}

func loadBindings(path string) (*params.BindingSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}
	var bindings params.BindingSet
	if err := json.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("decoding bindings: %w", err)
	}
	return &bindings, nil
}

// pagination merges config defaults with flag values.
func (o *BindOptions) pagination() (params.Pagination, error) {
	cfg := o.config().Pagination
	p := params.Pagination{
		Limit:  make(map[string]uint64),
		Offset: make(map[string]uint64),
	}
	for id, n := range cfg.Limit {
		p.Limit[id] = n
	}
	for id, n := range cfg.Offset {
		p.Offset[id] = n
	}
	if err := mergeFlagValues(p.Limit, "limit", o.Limit); err != nil {
		return params.Pagination{}, err
	}
	if err := mergeFlagValues(p.Offset, "offset", o.Offset); err != nil {
		return params.Pagination{}, err
	}
	return p, nil
}

func mergeFlagValues(dst map[string]uint64, flag string, values map[string]string) error {
	for id, raw := range values {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("--%s %s=%s: not a non-negative integer", flag, id, raw)
		}
		dst[id] = n
	}
	return nil
}
