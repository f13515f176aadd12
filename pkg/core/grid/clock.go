package grid

import (
	"fmt"
	"strings"
)

// ClockPosition is one of the six slots around a hexagonal cell.
type ClockPosition int

// Clock positions in canonical clockwise order.
const (
	BottomMiddle ClockPosition = iota
	BottomLeft
	TopLeft
	TopMiddle
	TopRight
	BottomRight
)

// NumPositions is the number of clock positions around a cell.
const NumPositions = 6

var positionNames = [NumPositions]string{
	"bottom_middle",
	"bottom_left",
	"top_left",
	"top_middle",
	"top_right",
	"bottom_right",
}

// Positions returns all clock positions in canonical order.
func Positions() [NumPositions]ClockPosition {
	return [NumPositions]ClockPosition{BottomMiddle, BottomLeft, TopLeft, TopMiddle, TopRight, BottomRight}
}

// Valid reports whether p is one of the six defined positions.
func (p ClockPosition) Valid() bool {
	return p >= BottomMiddle && p <= BottomRight
}

// Inverse returns the opposite position: if B is at p relative to A, then A
// is at p.Inverse() relative to B.
func (p ClockPosition) Inverse() ClockPosition {
	return (p + 3) % NumPositions
}

// String returns the snake_case name used in wire formats.
func (p ClockPosition) String() string {
	if !p.Valid() {
		return fmt.Sprintf("ClockPosition(%d)", int(p))
	}
	return positionNames[p]
}

// MarshalText implements encoding.TextMarshaler so positions can be map keys.
func (p ClockPosition) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid clock position %d", int(p))
	}
	return []byte(positionNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ClockPosition) UnmarshalText(b []byte) error {
	v, err := ParseClockPosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseClockPosition parses a snake_case or kebab-case position name, or one
// of the short aliases bm, bl, tl, tm, tr, br.
func ParseClockPosition(s string) (ClockPosition, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range positionNames {
		if norm == name || norm == shortName(name) {
			return ClockPosition(i), nil
		}
	}
	return 0, fmt.Errorf("unknown clock position %q", s)
}

func shortName(name string) string {
	parts := strings.SplitN(name, "_", 2)
	return parts[0][:1] + parts[1][:1]
}
