package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/engine"
	"github.com/roach88/balancedraw/internal/observability"
	"github.com/roach88/balancedraw/internal/plane"
	"github.com/roach88/balancedraw/internal/store"
)

// session is one engine restored from the store for the duration of a
// command.
type session struct {
	root      *RootOptions
	formatter *OutputFormatter
	store     store.ClosableStore
	eng       *engine.Engine
	plane     *plane.Plane
	collector *observability.Collector
	restored  bool
}

// openSession resolves the target, opens the store and restores the
// engine. Errors are already reported through the formatter.
func openSession(ctx context.Context, cmd *cobra.Command, root *RootOptions, target *TargetOptions) (*session, error) {
	f := root.formatter(cmd)
	logger := root.logger()

	profile, err := target.resolve(cmd)
	if err != nil {
		return nil, f.FailCode(ErrCodeInvalidTarget, ExitCommandError, "invalid target", err)
	}

	opts := []engine.Option{engine.WithLogger(logger)}

	var collector *observability.Collector
	if root.MetricsFile != "" {
		if collector, err = observability.NewCollector(prometheus.NewRegistry()); err != nil {
			return nil, f.FailCode(ErrCodeGeneric, ExitCommandError, "failed to set up metrics", err)
		}
		opts = append(opts, engine.WithObserver(collector))
	}

	eng, pl, err := profile.Build(opts...)
	if err != nil {
		return nil, f.Fail("invalid target", err)
	}

	st, err := store.Open(store.Backend(root.Backend), root.Store)
	if err != nil {
		return nil, f.FailCode(ErrCodeStore, ExitCommandError, "failed to open store", err)
	}

	s := &session{
		root:      root,
		formatter: f,
		store:     st,
		eng:       eng,
		plane:     pl,
		collector: collector,
	}

	if s.restored, err = eng.Load(ctx, st); err != nil {
		_ = st.Close()
		return nil, f.Fail("failed to load snapshot", err)
	}
	logger.Debug("session opened",
		"engine", eng.ID(),
		"store", root.Store,
		"backend", root.Backend,
		"restored", s.restored,
	)
	return s, nil
}

// save persists the engine explicitly.
func (s *session) save(ctx context.Context) error {
	if err := s.eng.Save(ctx, s.store); err != nil {
		return s.formatter.Fail("failed to save snapshot", err)
	}
	return nil
}

// close writes the metrics textfile, if any, and releases the store.
func (s *session) close() error {
	var errs []error
	if s.collector != nil {
		errs = append(errs, s.collector.WriteTextfile(s.root.MetricsFile))
	}
	errs = append(errs, s.store.Close())
	if err := errors.Join(errs...); err != nil {
		s.root.logger().Error("closing session", "error", err)
		return err
	}
	return nil
}

func (s *session) label(id int) string {
	if s.plane != nil {
		return s.plane.ToPosition(id).String()
	}
	return strconv.Itoa(id)
}

func (s *session) labels(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.label(id)
	}
	return out
}

// withSession runs fn against an opened session and closes it afterwards.
func withSession(cmd *cobra.Command, root *RootOptions, target *TargetOptions, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, cmd, root, target)
	if err != nil {
		return err
	}

	runErr := fn(ctx, s)
	closeErr := s.close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return WrapExitError(ExitFailure, "failed to close session", closeErr)
	}
	return nil
}
