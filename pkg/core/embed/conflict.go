package embed

import (
	"fmt"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Conflict records two cells claiming one coordinate.
type Conflict struct {
	Kind     errors.Code `json:"kind"`
	At       Coord       `json:"at"`
	Existing grid.Cell   `json:"existing"`
	Incoming grid.Cell   `json:"incoming"`
}

// String describes the conflict.
func (c Conflict) String() string {
	return fmt.Sprintf("%s at %s: %s kept, %s rejected", c.Kind, c.At, c.Existing, c.Incoming)
}

// Check decides whether placing incoming at a coordinate already holding
// existing is consistent. It returns the conflict and true when the cells
// differ.
func Check(at Coord, existing, incoming grid.Cell) (Conflict, bool) {
	if existing == incoming {
		return Conflict{}, false
	}
	return Conflict{
		Kind:     errors.ErrCodeLayoutConflict,
		At:       at,
		Existing: existing,
		Incoming: incoming,
	}, true
}
