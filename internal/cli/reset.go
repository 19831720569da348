package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Target TargetOptions
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero all draw counts",
		Long: `Zero draw counts and rounds for the target and save the result.
Blacklist, whitelist and tuning are kept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	addTargetFlags(cmd, &opts.Target)
	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) error {
	return withSession(cmd, opts.RootOptions, &opts.Target, func(ctx context.Context, s *session) error {
		s.eng.ResetDrawCounts()
		if err := s.save(ctx); err != nil {
			return err
		}

		if opts.Format == "json" {
			return s.formatter.Success(map[string]any{
				"engine": s.eng.ID(),
				"reset":  true,
			})
		}
		s.formatter.Printf("✓ Reset %s\n", s.eng.ID())
		return nil
	})
}
