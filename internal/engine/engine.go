package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/balancedraw/internal/space"
	"github.com/roach88/balancedraw/internal/store"
)

// neverDrawn marks an id that has not been drawn since the last reset.
const neverDrawn = -1

// Observer receives engine events. Implemented by observability.Collector.
type Observer interface {
	ObserveDraw(engineID string, poolSize int)
	ObserveReset(engineID string)
	ObserveSaveFailure(engineID string)
}

type nopObserver struct{}

func (nopObserver) ObserveDraw(string, int)   {}
func (nopObserver) ObserveReset(string)       {}
func (nopObserver) ObserveSaveFailure(string) {}

// Engine is a fairness-balanced weighted draw engine over one universe.
//
// INVARIANTS:
//   - counts and lastRound hold a key for every universe and whitelist id
//   - every blacklist entry belongs to the universe
//   - pool and probabilities are recomputed after every mutation
type Engine struct {
	space *space.Space
	cfg   Config
	id    string

	counts        map[int]int
	lastRound     map[int]int
	clock         *Clock
	totalDraws    int
	probabilities map[int]float64

	blacklist     map[int]struct{}
	whitelist     map[int]struct{}
	whitelistOnly bool

	pool []int

	source   Source
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	stamp    func(*store.Snapshot)
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithSource sets the random source. Default: CryptoSource.
// Use NewSeededSource for reproducible runs.
func WithSource(src Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver registers an event observer, e.g. a metrics collector.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// WithNow overrides the wall clock used to stamp snapshots.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIdentity stores the engine under id instead of the derived ID and lets
// stamp adjust every snapshot before it is persisted. Wrappers that project
// the universe (such as the 2D plane) use it to keep their own history.
func WithIdentity(id string, stamp func(*store.Snapshot)) Option {
	return func(e *Engine) {
		e.id = id
		e.stamp = stamp
	}
}

// NewFromRange creates an engine over the inclusive range [start, end].
func NewFromRange(start, end int, cfg Config, opts ...Option) (*Engine, error) {
	sp, err := space.NewRange(start, end)
	if err != nil {
		return nil, NewInvalidConfigurationError("invalid range universe", err)
	}
	return New(sp, cfg, opts...)
}

// NewFromList creates an engine over an explicit id list.
func NewFromList(ids []int, cfg Config, opts ...Option) (*Engine, error) {
	sp, err := space.NewList(ids)
	if err != nil {
		return nil, NewInvalidConfigurationError("invalid list universe", err)
	}
	return New(sp, cfg, opts...)
}

// New creates an engine over sp with every id at count 0 and never drawn.
// Nothing is loaded; call Load to restore persisted state.
func New(sp *space.Space, cfg Config, opts ...Option) (*Engine, error) {
	if sp == nil {
		return nil, NewInvalidConfigurationError("identifier space is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := append(sp.Params(), cfg.Params()...)
	e := &Engine{
		space:     sp,
		cfg:       cfg,
		id:        space.GenerateID(sp.Kind(), params...),
		counts:    make(map[int]int, sp.Len()),
		lastRound: make(map[int]int, sp.Len()),
		clock:     NewClock(),
		blacklist: make(map[int]struct{}),
		whitelist: make(map[int]struct{}),
		source:    CryptoSource{},
		logger:    slog.Default(),
		observer:  nopObserver{},
		now:       time.Now,
	}
	for _, id := range sp.IDs() {
		e.counts[id] = 0
		e.lastRound[id] = neverDrawn
	}

	for _, opt := range opts {
		opt(e)
	}

	e.refresh()
	return e, nil
}

// ID returns the deterministic snapshot ID.
func (e *Engine) ID() string { return e.id }

// Kind returns the universe declaration tag.
func (e *Engine) Kind() space.Kind { return e.space.Kind() }

// Config returns the active tuning parameters.
func (e *Engine) Config() Config { return e.cfg }

// Universe returns the canonical universe ids.
func (e *Engine) Universe() []int { return e.space.IDs() }

// Draw selects one id, updates state and, when st is non-nil, persists the
// new snapshot. Persistence failures are logged and do not fail the draw.
func (e *Engine) Draw(ctx context.Context, st store.Store) (int, error) {
	id, err := e.drawOne()
	if err != nil {
		return 0, err
	}
	if st != nil {
		e.autoSave(ctx, st)
	}
	return id, nil
}

// DrawMultiple performs n sequential draws, persisting once after the last.
//
// The pool-size check runs once against the pool as it stands before the
// batch; the pool is recomputed after every draw. If a draw inside the batch
// fails or ctx is cancelled between draws, the ids drawn so far are returned
// with the error and nothing is persisted.
func (e *Engine) DrawMultiple(ctx context.Context, n int, st store.Store) ([]int, error) {
	if n <= 0 {
		return nil, NewInvalidCountError(e.id, n)
	}
	if n > len(e.pool) {
		return nil, NewPoolTooSmallError(e.id, n, len(e.pool))
	}

	drawn := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return drawn, err
		}
		id, err := e.drawOne()
		if err != nil {
			return drawn, err
		}
		drawn = append(drawn, id)
	}

	if st != nil {
		e.autoSave(ctx, st)
	}
	return drawn, nil
}

// ResetDrawCounts zeroes counts and rounds for the universe and whitelist and
// restarts the round clock.
func (e *Engine) ResetDrawCounts() {
	for _, id := range e.space.IDs() {
		e.counts[id] = 0
		e.lastRound[id] = neverDrawn
	}
	for id := range e.whitelist {
		e.counts[id] = 0
		e.lastRound[id] = neverDrawn
	}
	e.totalDraws = 0
	e.clock.Reset()
	e.refresh()

	e.observer.ObserveReset(e.id)
	e.logger.Info("draw counts reset", "engine", e.id)
}

func (e *Engine) drawOne() (int, error) {
	if len(e.pool) == 0 {
		// Circuit breaker: an exhausted pool would otherwise never refill.
		e.logger.Warn("candidate pool empty, resetting draw counts", "engine", e.id)
		e.ResetDrawCounts()
	}

	round := e.clock.Peek()
	id, err := e.pick(e.weights(round))
	if err != nil {
		return 0, err
	}

	e.clock.Next()
	e.counts[id]++
	e.lastRound[id] = round
	e.totalDraws++
	e.refresh()

	e.observer.ObserveDraw(e.id, len(e.pool))
	e.logger.Debug("drew id",
		"engine", e.id,
		"id", id,
		"round", round,
		"pool_size", len(e.pool),
	)
	return id, nil
}

func (e *Engine) autoSave(ctx context.Context, st store.Store) {
	if err := e.Save(ctx, st); err != nil {
		e.observer.ObserveSaveFailure(e.id)
		e.logger.Error("auto-save failed", "engine", e.id, "error", err)
	}
}

// refresh recomputes the candidate pool and the probability snapshot.
func (e *Engine) refresh() {
	e.updatePool()
	e.updateProbabilities()
}
