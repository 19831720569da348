package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Target TargetOptions
}

// StatEntry is one id in the stats output.
type StatEntry struct {
	ID            string  `json:"id"`
	DrawCount     int     `json:"draw_count"`
	LastDrawRound int     `json:"last_draw_round"`
	Probability   float64 `json:"probability"`
	InPool        bool    `json:"in_pool"`
	Blacklisted   bool    `json:"blacklisted,omitempty"`
	Whitelisted   bool    `json:"whitelisted,omitempty"`
}

// StatsResult is the stats command payload.
type StatsResult struct {
	Engine           string      `json:"engine"`
	Kind             string      `json:"kind"`
	Restored         bool        `json:"restored"`
	Round            int         `json:"round"`
	TotalDraws       int         `json:"total_draws"`
	AverageDrawCount float64     `json:"average_draw_count"`
	MaxDrawCountGap  int         `json:"max_draw_count_gap"`
	WhitelistOnly    bool        `json:"whitelist_only"`
	Pool             []string    `json:"pool"`
	Entries          []StatEntry `json:"entries"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show draw counts and probabilities",
		Long: `Show the stored state of the target: per-id draw counts, last draw
round, current selection probability and pool membership.

Examples:
  balancedraw stats --range 1:49
  balancedraw stats --grid 3x4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	addTargetFlags(cmd, &opts.Target)
	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	return withSession(cmd, opts.RootOptions, &opts.Target, func(ctx context.Context, s *session) error {
		result := collectStats(s)
		if opts.Format == "json" {
			return s.formatter.Success(result)
		}
		writeStatsText(s.formatter, result)
		return nil
	})
}

func collectStats(s *session) StatsResult {
	result := StatsResult{
		Engine:           s.eng.ID(),
		Kind:             string(s.eng.Kind()),
		Restored:         s.restored,
		Round:            s.eng.CurrentRound(),
		TotalDraws:       s.eng.TotalDraws(),
		AverageDrawCount: s.eng.AverageDrawCount(),
		MaxDrawCountGap:  s.eng.MaxDrawCountGap(),
		WhitelistOnly:    s.eng.WhitelistOnly(),
		Pool:             s.labels(s.eng.Pool()),
	}
	if s.plane != nil {
		result.Kind = string(s.plane.Kind())
	}

	for _, st := range s.eng.Statistics() {
		result.Entries = append(result.Entries, StatEntry{
			ID:            s.label(st.ID),
			DrawCount:     st.DrawCount,
			LastDrawRound: st.LastDrawRound,
			Probability:   st.Probability,
			InPool:        st.InPool,
			Blacklisted:   st.Blacklisted,
			Whitelisted:   st.Whitelisted,
		})
	}
	return result
}

func writeStatsText(f *OutputFormatter, r StatsResult) {
	f.Printf("Engine: %s\n", r.Engine)
	f.Printf("Round %d, %d total draws, average %.2f, max gap %d\n",
		r.Round, r.TotalDraws, r.AverageDrawCount, r.MaxDrawCountGap)
	if r.WhitelistOnly {
		f.Printf("Whitelist-only mode\n")
	}
	f.Printf("Pool: %s\n\n", strings.Join(r.Pool, " "))

	f.Printf("%-8s %8s %6s %11s %s\n", "ID", "DRAWS", "LAST", "PROBABILITY", "FLAGS")
	for _, e := range r.Entries {
		var flags []string
		if e.InPool {
			flags = append(flags, "pool")
		}
		if e.Blacklisted {
			flags = append(flags, "blacklist")
		}
		if e.Whitelisted {
			flags = append(flags, "whitelist")
		}
		f.Printf("%-8s %8d %6d %11.4f %s\n", e.ID, e.DrawCount, e.LastDrawRound, e.Probability, strings.Join(flags, ","))
	}
}
