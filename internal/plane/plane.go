package plane

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/balancedraw/internal/engine"
	"github.com/roach88/balancedraw/internal/space"
	"github.com/roach88/balancedraw/internal/store"
)

// ErrSnapshotNotFound is returned by the store readers when no grid snapshot
// of the requested dimensions exists.
var ErrSnapshotNotFound = errors.New("plane snapshot not found")

// Plane draws grid cells through an engine over the linear ids
// [0, rows*cols). Ids map row-major: index = (row-1)*cols + (col-1).
type Plane struct {
	eng  *engine.Engine
	rows int
	cols int
}

// CellStat is the per-cell statistics entry. Blacklisted cells report
// 0 draws, probability 0 and round -1.
type CellStat struct {
	DrawCount     int     `json:"draw_count"`
	Probability   float64 `json:"probability"`
	LastDrawRound int     `json:"last_draw_round"`
}

// New creates a plane of rows x cols cells. The engine is stored under
// BalancedRandPlane_{rows}_{cols}_{pool}_{gap}_{boost}_{decay}.
func New(rows, cols int, cfg engine.Config, opts ...engine.Option) (*Plane, error) {
	if rows <= 0 || cols <= 0 {
		return nil, engine.NewInvalidConfigurationError(
			fmt.Sprintf("grid must have at least one row and column, got %dx%d", rows, cols), nil)
	}

	id := ID(rows, cols, cfg)
	stamp := func(s *store.Snapshot) {
		s.DataType = space.KindPlane
		s.Rows = rows
		s.Cols = cols
		s.Numbers = []int{}
		s.NumberRangeStart = 0
		s.NumberRangeEnd = rows*cols - 1
	}

	opts = append(opts, engine.WithIdentity(id, stamp))
	eng, err := engine.NewFromRange(0, rows*cols-1, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Plane{eng: eng, rows: rows, cols: cols}, nil
}

// ID returns the deterministic snapshot ID of a plane.
func ID(rows, cols int, cfg engine.Config) string {
	params := append([]string{strconv.Itoa(rows), strconv.Itoa(cols)}, cfg.Params()...)
	return space.GenerateID(space.KindPlane, params...)
}

func (p *Plane) ID() string { return p.eng.ID() }
func (p *Plane) Rows() int { return p.rows }
func (p *Plane) Cols() int { return p.cols }
func (p *Plane) Config() engine.Config { return p.eng.Config() }
func (p *Plane) Kind() space.Kind { return space.KindPlane }
func (p *Plane) Engine() *engine.Engine { return p.eng }
func (p *Plane) Snapshot() store.Snapshot { return p.eng.Snapshot() }

// ToIndex converts an in-grid position to its linear id.
func (p *Plane) ToIndex(pos Position) (int, bool) {
	if pos.Row < 1 || pos.Row > p.rows || pos.Col < 1 || pos.Col > p.cols {
		return 0, false
	}
	return p.index(pos), true
}

// ToPosition converts a linear id to its position. Ids past the grid map to
// rows below it.
func (p *Plane) ToPosition(index int) Position {
	return Position{Row: index/p.cols + 1, Col: index%p.cols + 1}
}

func (p *Plane) index(pos Position) int {
	return (pos.Row-1)*p.cols + (pos.Col - 1)
}

// Positions returns every grid cell in row-major order.
func (p *Plane) Positions() []Position {
	out := make([]Position, 0, p.rows*p.cols)
	for r := 1; r <= p.rows; r++ {
		for c := 1; c <= p.cols; c++ {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}

// DrawPosition draws one cell, persisting to st when non-nil.
func (p *Plane) DrawPosition(ctx context.Context, st store.Store) (Position, error) {
	id, err := p.eng.Draw(ctx, st)
	if err != nil {
		return Position{}, err
	}
	return p.ToPosition(id), nil
}

// DrawPositions draws n cells. On a mid-batch failure the cells drawn so far
// are returned with the error.
func (p *Plane) DrawPositions(ctx context.Context, n int, st store.Store) ([]Position, error) {
	ids, err := p.eng.DrawMultiple(ctx, n, st)
	if ids == nil {
		return nil, err
	}
	return p.toPositions(ids), err
}

func (p *Plane) toPositions(ids []int) []Position {
	out := make([]Position, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.ToPosition(id))
	}
	return out
}

// Blacklist positions outside the grid are dropped.

func (p *Plane) SetBlacklist(positions []Position) {
	p.eng.SetBlacklist(p.gridIDs(positions))
}

func (p *Plane) AddToBlacklist(positions []Position) {
	p.eng.AddToBlacklist(p.gridIDs(positions))
}

func (p *Plane) RemoveFromBlacklist(positions []Position) {
	p.eng.RemoveFromBlacklist(p.gridIDs(positions))
}

func (p *Plane) ClearBlacklist() { p.eng.ClearBlacklist() }

func (p *Plane) InBlacklist(pos Position) bool {
	id, ok := p.ToIndex(pos)
	return ok && p.eng.InBlacklist(id)
}

func (p *Plane) Blacklist() []Position { return p.toPositions(p.eng.Blacklist()) }

// Whitelist positions may lie below the last row; they become extension ids.
// Non-positive coordinates and columns past the grid are dropped.

func (p *Plane) SetWhitelist(positions []Position) {
	p.eng.SetWhitelist(p.extensionIDs(positions))
}

func (p *Plane) AddToWhitelist(positions []Position) {
	p.eng.AddToWhitelist(p.extensionIDs(positions))
}

func (p *Plane) RemoveFromWhitelist(positions []Position) {
	p.eng.RemoveFromWhitelist(p.extensionIDs(positions))
}

func (p *Plane) ClearWhitelist() { p.eng.ClearWhitelist() }

func (p *Plane) InWhitelist(pos Position) bool {
	if !p.extensionOK(pos) {
		return false
	}
	return p.eng.InWhitelist(p.index(pos))
}

func (p *Plane) Whitelist() []Position { return p.toPositions(p.eng.Whitelist()) }

func (p *Plane) SetWhitelistOnly(only bool) { p.eng.SetWhitelistOnly(only) }

func (p *Plane) WhitelistOnly() bool { return p.eng.WhitelistOnly() }

// Reset zeroes every draw count and restarts the round clock.
func (p *Plane) Reset() { p.eng.ResetDrawCounts() }

// Pool returns the candidate cells in selection order.
func (p *Plane) Pool() []Position { return p.toPositions(p.eng.Pool()) }

// Probabilities returns the selection probability of every grid cell.
func (p *Plane) Probabilities() map[Position]float64 {
	probs := p.eng.Probabilities()
	out := make(map[Position]float64, p.rows*p.cols)
	for _, pos := range p.Positions() {
		id := p.index(pos)
		if p.eng.InBlacklist(id) {
			out[pos] = 0
			continue
		}
		out[pos] = probs[id]
	}
	return out
}

// DrawCounts returns the draw count of every grid cell.
func (p *Plane) DrawCounts() map[Position]int {
	out := make(map[Position]int, p.rows*p.cols)
	for _, pos := range p.Positions() {
		id := p.index(pos)
		if p.eng.InBlacklist(id) {
			out[pos] = 0
			continue
		}
		out[pos] = p.eng.DrawCount(id)
	}
	return out
}

// Statistics returns draw count, probability and last round per grid cell.
func (p *Plane) Statistics() map[Position]CellStat {
	out := make(map[Position]CellStat, p.rows*p.cols)
	for _, pos := range p.Positions() {
		id := p.index(pos)
		if p.eng.InBlacklist(id) {
			out[pos] = CellStat{LastDrawRound: -1}
			continue
		}
		out[pos] = CellStat{
			DrawCount:     p.eng.DrawCount(id),
			Probability:   p.eng.Probability(id),
			LastDrawRound: p.eng.LastDrawRound(id),
		}
	}
	return out
}

func (p *Plane) AverageDrawCount() float64 { return p.eng.AverageDrawCount() }

func (p *Plane) MaxDrawCountGap() int { return p.eng.MaxDrawCountGap() }

// Load restores the plane's stored snapshot, if any.
func (p *Plane) Load(ctx context.Context, st store.Store) (bool, error) {
	return p.eng.Load(ctx, st)
}

// Save persists the plane under its own ID.
func (p *Plane) Save(ctx context.Context, st store.Store) error {
	return p.eng.Save(ctx, st)
}

func (p *Plane) gridIDs(positions []Position) []int {
	ids := make([]int, 0, len(positions))
	for _, pos := range positions {
		if id, ok := p.ToIndex(pos); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p *Plane) extensionOK(pos Position) bool {
	return pos.Row >= 1 && pos.Col >= 1 && pos.Col <= p.cols
}

func (p *Plane) extensionIDs(positions []Position) []int {
	ids := make([]int, 0, len(positions))
	for _, pos := range positions {
		if p.extensionOK(pos) {
			ids = append(ids, p.index(pos))
		}
	}
	return ids
}
