package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kyleconroy/sparqlparam/params"
	"github.com/kyleconroy/sparqlparam/parser"
)

// FileResult is the outcome of running one engine call on one file.
type FileResult struct {
	File   string    `json:"file"`
	Result any       `json:"result,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// queryFunc runs one engine call on query text.
type queryFunc func(ctx context.Context, query string) (any, error)

// processFiles reads every file and runs fn on its contents concurrently.
// Results keep the order of files. Engine failures are recorded per file;
// an unreadable file aborts the whole run.
func processFiles(ctx context.Context, opts *RootOptions, files []string, fn queryFunc) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	timeout := opts.config().GetTimeout()
	log := opts.logger()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s: reading %s", ErrCodeReadFailed, file), err)
			}

			callCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			value, err := fn(callCtx, string(data))
			log.Debug("processed file",
				zap.String("file", file),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))

			results[i] = FileResult{File: file}
			if err != nil {
				results[i].Error = toCLIError(err)
				return nil
			}
			results[i].Result = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// toCLIError maps an engine or parser error to its response form.
func toCLIError(err error) *CLIError {
	var pe *params.Error
	if errors.As(err, &pe) {
		details := map[string]string{}
		if pe.Variable != "" {
			details["variable"] = pe.Variable
		}
		if pe.Clause != "" {
			details["clause"] = pe.Clause
		}
		cliErr := &CLIError{Code: string(pe.Code), Message: pe.Message}
		if len(details) > 0 {
			cliErr.Details = details
		}
		return cliErr
	}
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return &CLIError{Code: string(params.ErrCodeSyntax), Message: se.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CLIError{Code: ErrCodeTimeout, Message: "limits.timeout exceeded"}
	}
	return &CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}
