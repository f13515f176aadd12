package ladder

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/grid/gridtest"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

func TestBuildProperties(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(orb.Point{10, 45})

	for _, cell := range []grid.Cell{gridtest.Cell(9, 3, -2), gridtest.Cell(0, 0, 0), gridtest.Cell(15, 7, 7)} {
		t.Run(string(cell), func(t *testing.T) {
			lad, err := Build(ctx, l, cell)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			res := l.Resolution(cell)
			if lad.At(res) != cell {
				t.Errorf("ladder[%d] = %s, want %s", res, lad.At(res), cell)
			}
			for r := 0; r < grid.NumResolutions; r++ {
				if lad[r] == "" {
					t.Fatalf("ladder[%d] is empty", r)
				}
				if got := l.Resolution(lad[r]); got != r {
					t.Errorf("resolution of ladder[%d] = %d", r, got)
				}
			}
			for r := 0; r < res; r++ {
				parent, err := l.Parent(ctx, lad[r+1], r)
				if err != nil {
					t.Fatal(err)
				}
				if parent != lad[r] {
					t.Errorf("ladder[%d] = %s, want parent of ladder[%d] = %s", r, lad[r], r+1, parent)
				}
			}
		})
	}
}

func TestBuildFinerContainsCentroid(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(orb.Point{10, 45})
	cell := gridtest.Cell(9, 1, 1)
	lad, err := Build(ctx, l, cell)
	if err != nil {
		t.Fatal(err)
	}
	center, _ := l.Centroid(ctx, cell)
	for r := 10; r < grid.NumResolutions; r++ {
		want, _ := l.PointToCell(ctx, center, r)
		if lad[r] != want {
			t.Errorf("ladder[%d] = %s, want %s", r, lad[r], want)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(orb.Point{10, 45})

	if _, err := Build(ctx, l, "bogus"); !errors.Is(err, errors.ErrCodeInvalidCell) {
		t.Errorf("Build(bogus) error = %v, want INVALID_CELL", err)
	}

	l.Fail = func(op string, c grid.Cell) error {
		if op == "parent" {
			return fmt.Errorf("parent lookup failed")
		}
		return nil
	}
	lad, err := Build(ctx, l, gridtest.Cell(9, 0, 0))
	if !errors.Is(err, errors.ErrCodeGeometryUnavailable) {
		t.Errorf("Build() error = %v, want GEOMETRY_UNAVAILABLE", err)
	}
	if lad != (Ladder{}) {
		t.Error("failed Build() should return an empty ladder")
	}
}

func TestAtOutOfRange(t *testing.T) {
	var lad Ladder
	lad[3] = "x"
	if lad.At(3) != "x" || lad.At(-1) != "" || lad.At(16) != "" {
		t.Error("At() bounds handling wrong")
	}
}
