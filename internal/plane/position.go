package plane

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a 1-based grid cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String renders the position as "ROW:COL".
func (p Position) String() string {
	return strconv.Itoa(p.Row) + ":" + strconv.Itoa(p.Col)
}

// MarshalText lets positions key JSON objects.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "ROW:COL".
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePosition parses "ROW:COL". Range checks against a grid happen where
// the position is used.
func ParsePosition(s string) (Position, error) {
	row, col, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, fmt.Errorf("position %q: expected ROW:COL", s)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: invalid row: %w", s, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: invalid column: %w", s, err)
	}
	return Position{Row: r, Col: c}, nil
}

// ParsePositions parses a list of "ROW:COL" arguments.
func ParsePositions(args []string) ([]Position, error) {
	positions := make([]Position, 0, len(args))
	for _, arg := range args {
		p, err := ParsePosition(arg)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}
