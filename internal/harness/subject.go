package harness

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/balancedraw/internal/engine"
	"github.com/roach88/balancedraw/internal/plane"
	"github.com/roach88/balancedraw/internal/store"
)

// subject is the engine under test. Grid targets go through the plane so
// that coordinate validation is exercised the way callers see it.
type subject struct {
	eng   *engine.Engine
	plane *plane.Plane
}

func (s *subject) label(id int) string {
	if s.plane != nil {
		return s.plane.ToPosition(id).String()
	}
	return strconv.Itoa(id)
}

func (s *subject) labels(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.label(id)
	}
	return out
}

// expected renders the labels a step or assertion names, in the subject's
// addressing scheme.
func (s *subject) expected(ids []int, cells []string) []string {
	if s.plane != nil {
		return cells
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}

func (s *subject) positions(step Step) ([]plane.Position, error) {
	if len(step.IDs) > 0 {
		return nil, fmt.Errorf("grid targets take cells, not ids")
	}
	return plane.ParsePositions(step.Cells)
}

func (s *subject) ids(step Step) ([]int, error) {
	if len(step.Cells) > 0 {
		return nil, fmt.Errorf("line targets take ids, not cells")
	}
	return step.IDs, nil
}

func (s *subject) draw(ctx context.Context) ([]string, error) {
	if s.plane != nil {
		pos, err := s.plane.DrawPosition(ctx, nil)
		if err != nil {
			return nil, err
		}
		return []string{pos.String()}, nil
	}
	id, err := s.eng.Draw(ctx, nil)
	if err != nil {
		return nil, err
	}
	return []string{strconv.Itoa(id)}, nil
}

func (s *subject) drawMultiple(ctx context.Context, n int) ([]string, error) {
	if s.plane != nil {
		positions, err := s.plane.DrawPositions(ctx, n, nil)
		out := make([]string, len(positions))
		for i, pos := range positions {
			out[i] = pos.String()
		}
		return out, err
	}
	ids, err := s.eng.DrawMultiple(ctx, n, nil)
	return s.labels(ids), err
}

// list applies one blacklist or whitelist operation.
func (s *subject) list(step Step) error {
	if s.plane != nil {
		positions, err := s.positions(step)
		if err != nil {
			return err
		}
		switch step.Op {
		case OpBlacklistSet:
			s.plane.SetBlacklist(positions)
		case OpBlacklistAdd:
			s.plane.AddToBlacklist(positions)
		case OpBlacklistRemove:
			s.plane.RemoveFromBlacklist(positions)
		case OpBlacklistClear:
			s.plane.ClearBlacklist()
		case OpWhitelistSet:
			s.plane.SetWhitelist(positions)
		case OpWhitelistAdd:
			s.plane.AddToWhitelist(positions)
		case OpWhitelistRemove:
			s.plane.RemoveFromWhitelist(positions)
		case OpWhitelistClear:
			s.plane.ClearWhitelist()
		}
		return nil
	}

	ids, err := s.ids(step)
	if err != nil {
		return err
	}
	switch step.Op {
	case OpBlacklistSet:
		s.eng.SetBlacklist(ids)
	case OpBlacklistAdd:
		s.eng.AddToBlacklist(ids)
	case OpBlacklistRemove:
		s.eng.RemoveFromBlacklist(ids)
	case OpBlacklistClear:
		s.eng.ClearBlacklist()
	case OpWhitelistSet:
		s.eng.SetWhitelist(ids)
	case OpWhitelistAdd:
		s.eng.AddToWhitelist(ids)
	case OpWhitelistRemove:
		s.eng.RemoveFromWhitelist(ids)
	case OpWhitelistClear:
		s.eng.ClearWhitelist()
	}
	return nil
}

// count returns the draw count of the id a label names.
func (s *subject) count(label string) (int, error) {
	if s.plane != nil {
		pos, err := plane.ParsePosition(label)
		if err != nil {
			return 0, err
		}
		id, ok := s.plane.ToIndex(pos)
		if !ok {
			return 0, fmt.Errorf("cell %s is outside the grid", label)
		}
		return s.eng.DrawCount(id), nil
	}
	id, err := strconv.Atoi(label)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", label, err)
	}
	return s.eng.DrawCount(id), nil
}

func (s *subject) pool() []string {
	return s.labels(s.eng.Pool())
}

func (s *subject) final() []FinalEntry {
	if s.plane != nil {
		stats := s.plane.Statistics()
		out := make([]FinalEntry, 0, len(stats))
		for _, pos := range s.plane.Positions() {
			st := stats[pos]
			out = append(out, FinalEntry{Label: pos.String(), Count: st.DrawCount, LastRound: st.LastDrawRound})
		}
		return out
	}

	stats := s.eng.Statistics()
	out := make([]FinalEntry, 0, len(stats))
	for _, st := range stats {
		out = append(out, FinalEntry{Label: strconv.Itoa(st.ID), Count: st.DrawCount, LastRound: st.LastDrawRound})
	}
	return out
}

func (s *subject) load(ctx context.Context, st store.Store) (bool, error) {
	if s.plane != nil {
		return s.plane.Load(ctx, st)
	}
	return s.eng.Load(ctx, st)
}

func (s *subject) save(ctx context.Context, st store.Store) error {
	if s.plane != nil {
		return s.plane.Save(ctx, st)
	}
	return s.eng.Save(ctx, st)
}
