package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/store"
)

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Target TargetOptions
	Count  int
	NoSave bool
}

// DrawResult is the draw command payload.
type DrawResult struct {
	Engine     string   `json:"engine"`
	Drawn      []string `json:"drawn"`
	Round      int      `json:"round"`
	TotalDraws int      `json:"total_draws"`
	PoolSize   int      `json:"pool_size"`
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw one or more ids",
		Long: `Draw ids from the target, favoring ids drawn least often.

The engine state is restored from the store before drawing and saved
afterwards unless --no-save is given. Grid targets print cells as ROW:COL.

Examples:
  balancedraw draw --range 1:49 --count 6
  balancedraw draw --ids 3,5,9
  balancedraw draw --grid 3x4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(opts, cmd)
		},
	}

	addTargetFlags(cmd, &opts.Target)
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of ids to draw")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "do not persist the new state")

	return cmd
}

func runDraw(opts *DrawOptions, cmd *cobra.Command) error {
	return withSession(cmd, opts.RootOptions, &opts.Target, func(ctx context.Context, s *session) error {
		var st store.Store = s.store
		if opts.NoSave {
			st = nil
		}

		drawn, err := drawLabels(ctx, s, opts.Count, st)
		if err != nil {
			var extra map[string]string
			if len(drawn) > 0 {
				extra = map[string]string{"drawn": strings.Join(drawn, " ")}
			}
			return s.formatter.FailWith("draw failed", err, extra)
		}

		result := DrawResult{
			Engine:     s.eng.ID(),
			Drawn:      drawn,
			Round:      s.eng.CurrentRound(),
			TotalDraws: s.eng.TotalDraws(),
			PoolSize:   len(s.eng.Pool()),
		}
		if opts.Format == "json" {
			return s.formatter.Success(result)
		}

		s.formatter.Printf("%s\n", strings.Join(drawn, " "))
		s.formatter.VerboseLog("engine %s: round %d, %d total draws, pool of %d",
			result.Engine, result.Round, result.TotalDraws, result.PoolSize)
		return nil
	})
}

// drawLabels draws count ids through the plane for grid targets so that
// results come back as cells. A batch that fails part way returns the labels
// drawn before the failure alongside the error.
func drawLabels(ctx context.Context, s *session, count int, st store.Store) ([]string, error) {
	if s.plane != nil {
		if count == 1 {
			pos, err := s.plane.DrawPosition(ctx, st)
			if err != nil {
				return nil, err
			}
			return []string{pos.String()}, nil
		}
		positions, err := s.plane.DrawPositions(ctx, count, st)
		out := make([]string, len(positions))
		for i, pos := range positions {
			out[i] = pos.String()
		}
		return out, err
	}

	if count == 1 {
		id, err := s.eng.Draw(ctx, st)
		if err != nil {
			return nil, err
		}
		return []string{s.label(id)}, nil
	}
	ids, err := s.eng.DrawMultiple(ctx, count, st)
	return s.labels(ids), err
}
