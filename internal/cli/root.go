package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/config"
	"github.com/roach88/balancedraw/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Store       string
	Backend     string // "json" | "sqlite"
	MetricsFile string

	// TraceID identifies this invocation in logs and JSON responses.
	TraceID string

	// Logger is configured by the root command. Commands built directly,
	// as in tests, fall back to a discarding logger.
	Logger *slog.Logger

	logLevel slog.Level
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the balancedraw CLI.
// Flag defaults come from the BALANCEDRAW_* environment.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	env, envErr := config.LoadEnv()
	if envErr != nil {
		env = config.Env{Store: config.DefaultStorePath, Backend: string(store.BackendJSON), LogLevel: "info"}
	}

	cmd := &cobra.Command{
		Use:   "balancedraw",
		Short: "balancedraw - fair weighted random draws",
		Long: `Draw ids from a range, a list or a grid so that every id is picked
about equally often over time. Draw history is persisted between runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(store.ValidBackends, store.Backend(opts.Backend)) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, store.ValidBackends)
			}

			level, err := env.Level()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid environment", err)
			}
			opts.logLevel = level

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate trace id: %w", err)
			}
			opts.TraceID = id.String()
			opts.Logger = newLogger(opts, cmd.ErrOrStderr())
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", env.Store, "path to the snapshot store (BALANCEDRAW_STORE)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", env.Backend, "store backend (json|sqlite) (BALANCEDRAW_BACKEND)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", env.MetricsFile, "write Prometheus metrics to this textfile after the command (BALANCEDRAW_METRICS_FILE)")

	// Add subcommands
	cmd.AddCommand(NewDrawCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewBlacklistCommand(opts))
	cmd.AddCommand(NewWhitelistCommand(opts))
	cmd.AddCommand(NewSnapshotsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger writes to w at Info, or Debug with --verbose. JSON output gets
// JSON logs so both streams stay machine-readable.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := opts.logLevel
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.New(handler).With("trace_id", opts.TraceID)
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		TraceID:   o.TraceID,
	}
}
