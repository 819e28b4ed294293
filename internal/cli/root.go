package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kyleconroy/sparqlparam/internal/config"
	"github.com/kyleconroy/sparqlparam/params"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Populated by the root command before any subcommand runs.
	Config *config.Config
	Logger *zap.Logger
}

// NewRootCommand creates the root command for the sparqlparam CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sparqlparam",
		Short: "Discover and fill parameters of stored SPARQL queries",
		Long: `sparqlparam finds the parameter slots of SPARQL queries and fills them.

A VALUES clause with a row of only UNDEF is a parameter group. LIMIT and
OFFSET clauses written as 000<id> are pagination placeholders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")

	// Add subcommands
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewOutputsCommand(opts))
	cmd.AddCommand(NewBindCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))

	return cmd
}

// setup loads the config, applies flag overrides and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	// Flags override file values
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = o.Format
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.Format = cfg.Output.Format
	o.Config = cfg
	o.Logger = newLogger(cmd, cfg.GetLogLevel())
	return nil
}

// newLogger builds a production-style JSON logger writing to the command's
// error stream, so diagnostics never mix with command output.
func newLogger(cmd *cobra.Command, level zapcore.Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Named("sparqlparam")
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return config.DefaultConfig()
	}
	return o.Config
}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// engine returns a params engine whose diagnostics carry traceID.
func (o *RootOptions) engine(traceID string) *params.Engine {
	return params.New(params.WithLogger(o.logger().With(zap.String("trace_id", traceID))))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Indent:    o.config().Output.Indent,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// reportError writes an error response. The command fails either way, so a
// write failure is only logged.
func (o *RootOptions) reportError(formatter *OutputFormatter, traceID, code, message string) {
	if err := formatter.Error(traceID, code, message, nil); err != nil {
		o.logger().Debug("writing error response failed",
			zap.String("trace_id", traceID),
			zap.String("code", code),
			zap.Error(err))
	}
}

// failed returns the error a command should exit with after writing results.
func failed(results []FileResult) error {
	n := 0
	for _, r := range results {
		if r.Error != nil {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", n, len(results)))
}
