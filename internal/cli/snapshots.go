package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/store"
)

// SnapshotEntry summarizes one stored engine.
type SnapshotEntry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Round       int       `json:"round"`
	TotalDraws  int       `json:"total_draws"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored engines",
		Long: `List every engine snapshot in the store with its kind, round and
total draw count. Each distinct target and tuning has its own snapshot.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshots(rootOpts, cmd)
		},
	}
	return cmd
}

func runSnapshots(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(store.Backend(opts.Backend), opts.Store)
	if err != nil {
		return f.FailCode(ErrCodeStore, ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing store", "error", closeErr)
		}
	}()

	snaps, err := st.Load(ctx)
	if err != nil {
		return f.FailCode(ErrCodeStore, ExitFailure, "failed to load store", err)
	}

	entries := make([]SnapshotEntry, 0, len(snaps))
	for _, id := range store.SortedIDs(snaps) {
		snap := snaps[id]
		entries = append(entries, SnapshotEntry{
			ID:          id,
			Kind:        string(snap.DataType),
			Round:       snap.CurrentRound,
			TotalDraws:  snap.TotalDraws,
			LastUpdated: snap.LastUpdated,
		})
	}

	if opts.Format == "json" {
		return f.Success(entries)
	}
	if len(entries) == 0 {
		f.Printf("No snapshots in %s\n", opts.Store)
		return nil
	}
	for _, e := range entries {
		f.Printf("%s  %s  round %d  %d draws  %s\n",
			e.ID, e.Kind, e.Round, e.TotalDraws, e.LastUpdated.Format(time.RFC3339))
	}
	return nil
}
