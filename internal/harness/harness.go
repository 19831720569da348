package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/balancedraw/internal/config"
	"github.com/roach88/balancedraw/internal/engine"
	"github.com/roach88/balancedraw/internal/store"
	"github.com/roach88/balancedraw/internal/testutil"
)

// Harness executes one scenario. Every run gets a fresh in-memory store.
type Harness struct {
	target  config.Profile
	source  engine.Source
	store   *store.Memory
	clock   *testutil.FixedClock
	logger  *slog.Logger
	subject *subject
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Build the target engine with a deterministic source and clock
//  2. Execute setup steps, then the main steps, tracing each one
//  3. Evaluate assertions against the final engine state
//
// A returned error means the scenario could not run at all; step and
// assertion failures are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		target: scenario.Target,
		source: newSource(scenario.Source),
		store:  store.NewMemory(),
		clock:  testutil.NewFixedClock(time.Time{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	sub, err := h.build()
	if err != nil {
		return nil, fmt.Errorf("failed to build target: %w", err)
	}
	h.subject = sub

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Setup {
		h.execute(ctx, "setup", i, step, result)
	}
	for i, step := range scenario.Steps {
		h.execute(ctx, "step", i, step, result)
	}

	result.EngineID = h.subject.eng.ID()
	result.Final = h.subject.final()

	for _, errMsg := range EvaluateAssertions(h.subject, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

func newSource(src Source) engine.Source {
	if src.Seed != nil {
		return engine.NewSeededSource(*src.Seed)
	}
	if src.Fixed != nil {
		return testutil.NewFixedSource(*src.Fixed)
	}
	return testutil.NewFixedSource(0)
}

func (h *Harness) build() (*subject, error) {
	eng, pl, err := h.target.Build(
		engine.WithSource(h.source),
		engine.WithLogger(h.logger),
		engine.WithNow(h.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	return &subject{eng: eng, plane: pl}, nil
}

// execute runs one step, appends its trace event and checks its
// expectation.
func (h *Harness) execute(ctx context.Context, phase string, i int, step Step, result *Result) {
	out, err := h.apply(ctx, step)

	event := TraceEvent{
		Seq:    len(result.Trace) + 1,
		Phase:  phase,
		Op:     step.Op,
		Input:  stepInput(step),
		Output: out,
		Round:  h.subject.eng.CurrentRound(),
		Pool:   h.subject.pool(),
	}
	if err != nil {
		event.Error = errorCode(err)
	}
	result.Trace = append(result.Trace, event)

	h.logger.Debug("step executed", "phase", phase, "index", i, "op", step.Op, "error", err)

	where := fmt.Sprintf("%s %d (%s)", phase, i+1, step.Op)
	switch {
	case step.Expect != nil && step.Expect.Error != "":
		if err == nil {
			result.AddError(fmt.Sprintf("%s: expected error %s, got success", where, step.Expect.Error))
		} else if code := errorCode(err); code != step.Expect.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %s", where, step.Expect.Error, code))
		}
	case err != nil:
		result.AddError(fmt.Sprintf("%s: unexpected error: %v", where, err))
	case step.Expect != nil:
		want := h.subject.expected(step.Expect.IDs, step.Expect.Cells)
		if len(want) > 0 && !slices.Equal(out, want) {
			result.AddError(fmt.Sprintf("%s: expected %v, got %v", where, want, out))
		}
	}
}

func (h *Harness) apply(ctx context.Context, step Step) ([]string, error) {
	switch step.Op {
	case OpDraw:
		return h.subject.draw(ctx)
	case OpDrawMultiple:
		return h.subject.drawMultiple(ctx, step.Count)
	case OpReset:
		h.subject.eng.ResetDrawCounts()
		return nil, nil
	case OpBlacklistSet, OpBlacklistAdd, OpBlacklistRemove, OpBlacklistClear,
		OpWhitelistSet, OpWhitelistAdd, OpWhitelistRemove, OpWhitelistClear:
		return nil, h.subject.list(step)
	case OpWhitelistOnly:
		h.subject.eng.SetWhitelistOnly(step.Enabled)
		return nil, nil
	case OpSave:
		return nil, h.subject.save(ctx, h.store)
	case OpReload:
		sub, err := h.build()
		if err != nil {
			return nil, err
		}
		found, err := sub.load(ctx, h.store)
		if err != nil {
			return nil, err
		}
		h.subject = sub
		if found {
			return []string{"restored"}, nil
		}
		return []string{"empty"}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

// stepInput renders the step arguments for the trace.
func stepInput(step Step) string {
	switch step.Op {
	case OpDrawMultiple:
		return strconv.Itoa(step.Count)
	case OpWhitelistOnly:
		if step.Enabled {
			return "on"
		}
		return "off"
	}
	if len(step.Cells) > 0 {
		return strings.Join(step.Cells, " ")
	}
	parts := make([]string, len(step.IDs))
	for i, id := range step.IDs {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

// errorCode returns the engine error code of err, or its message for
// errors raised by the harness itself.
func errorCode(err error) string {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return string(engErr.Code)
	}
	return err.Error()
}
