package space

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags how a universe was declared. The values are persisted verbatim.
type Kind string

const (
	KindRange Kind = "BalancedRand_Range"
	KindList  Kind = "BalancedRand_List"
	KindPlane Kind = "BalancedRandPlane"
)

// MaxRangeLen caps how many ids a range universe may hold.
const MaxRangeLen = 1 << 24

// MaxListIDParams caps how many list ids take part in a deterministic ID.
const MaxListIDParams = 10

// ErrInvalidSpace is returned for universes that cannot be drawn from.
var ErrInvalidSpace = errors.New("invalid identifier space")

// Space is an immutable, canonical identifier universe.
type Space struct {
	kind  Kind
	start int
	end   int
	ids   []int
	index map[int]struct{}
}

// NewRange builds the universe [start, end].
func NewRange(start, end int) (*Space, error) {
	if start > end {
		return nil, fmt.Errorf("%w: range start %d is greater than end %d", ErrInvalidSpace, start, end)
	}
	// end-start wraps negative when the span exceeds MaxInt.
	if span := end - start; span < 0 || span >= MaxRangeLen {
		return nil, fmt.Errorf("%w: range %d..%d holds more than %d ids", ErrInvalidSpace, start, end, MaxRangeLen)
	}
	ids := make([]int, end-start+1)
	for i := range ids {
		ids[i] = start + i
	}
	return newSpace(KindRange, start, end, ids), nil
}

// NewList builds a universe from an explicit id list. Duplicates are dropped
// and the result is sorted ascending.
func NewList(ids []int) (*Space, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: id list is empty", ErrInvalidSpace)
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return newSpace(KindList, 0, 0, sorted), nil
}

func newSpace(kind Kind, start, end int, ids []int) *Space {
	index := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		index[id] = struct{}{}
	}
	return &Space{kind: kind, start: start, end: end, ids: ids, index: index}
}

// Kind returns the declaration tag.
func (s *Space) Kind() Kind { return s.kind }

// IDs returns a copy of the canonical id sequence.
func (s *Space) IDs() []int { return slices.Clone(s.ids) }

// Len returns the universe size.
func (s *Space) Len() int { return len(s.ids) }

// Contains reports whether id belongs to the universe.
func (s *Space) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Bounds returns the declared range bounds. List universes report 0, 0.
func (s *Space) Bounds() (start, end int) { return s.start, s.end }

// List returns the explicit id list for list universes and nil otherwise.
func (s *Space) List() []int {
	if s.kind != KindList {
		return nil
	}
	return s.IDs()
}

// Params returns the universe's contribution to the deterministic ID. Lists
// contribute only their first MaxListIDParams ids, so two lists sharing that
// prefix share an ID.
func (s *Space) Params() []string {
	if s.kind == KindList {
		n := min(len(s.ids), MaxListIDParams)
		parts := make([]string, n)
		for i, id := range s.ids[:n] {
			parts[i] = strconv.Itoa(id)
		}
		return []string{strings.Join(parts, ",")}
	}
	return []string{strconv.Itoa(s.start), strconv.Itoa(s.end)}
}

// GenerateID joins a kind tag and ordered parameters into a store key.
func GenerateID(kind Kind, params ...string) string {
	return string(kind) + "_" + strings.Join(params, "_")
}

// FormatFloat renders a tuning parameter for use in a deterministic ID, using
// the shortest decimal that round-trips (2.0 -> "2", 0.7 -> "0.7").
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
