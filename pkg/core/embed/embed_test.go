package embed

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/grid/gridtest"
	"github.com/matzehuels/hexglobe/pkg/core/neighbors"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

var (
	north = orb.Point{10, 45}
	south = orb.Point{-70, -33}
)

func TestEmbedThreeByThree(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	center := gridtest.Cell(9, 0, 0)

	e, err := Embed(ctx, l, center, 3, 3)
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if e.Strategy != StrategyPrimary {
		t.Errorf("Strategy = %v, want %v", e.Strategy, StrategyPrimary)
	}
	if len(e.Pentagons) != 0 || len(e.Conflicts) != 0 {
		t.Errorf("Pentagons = %v, Conflicts = %v, want none", e.Pentagons, e.Conflicts)
	}
	if e.At(Origin) != center {
		t.Errorf("At(0,0) = %s, want %s", e.At(Origin), center)
	}

	// The first ring holds the center's six distinct neighbors.
	nb, err := neighbors.Position(ctx, l, center)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[grid.Cell]bool{center: true}
	for _, p := range grid.Positions() {
		got := e.At(Origin.Step(p))
		if got != nb.At(p) || seen[got] {
			t.Errorf("At(%v) = %s, want distinct %s", p, got, nb.At(p))
		}
		seen[got] = true
	}

	// The two northern corners are second-ring cells.
	if e.Radius != 2 || e.Len() != 9 {
		t.Errorf("Radius = %d, Len() = %d, want 2 and 9", e.Radius, e.Len())
	}
	if want := (Bounds{-1, 1, -1, 1}); e.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", e.Bounds, want)
	}
}

func TestEmbedMatchesLattice(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		width, height int
	}{
		{3, 3},
		{5, 5},
		{4, 6},
		{7, 7},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.width, tt.height), func(t *testing.T) {
			l := gridtest.New(north)
			e, err := Embed(ctx, l, gridtest.Cell(9, 0, 0), tt.width, tt.height)
			if err != nil {
				t.Fatal(err)
			}
			window := Window(tt.width, tt.height)
			for row := window.MinRow; row <= window.MaxRow; row++ {
				for q := window.MinCol; q <= window.MaxCol; q++ {
					at := Coord{row, q}
					if got := e.At(at); got != gridtest.Cell(9, q, row) {
						t.Errorf("At(%v) = %s, want %s", at, got, gridtest.Cell(9, q, row))
					}
				}
			}
			if want := tt.width * tt.height; e.Len() != want {
				t.Errorf("Len() = %d, want %d", e.Len(), want)
			}
			if e.Bounds != window {
				t.Errorf("Bounds = %+v, want %+v", e.Bounds, window)
			}
		})
	}
}

func TestRadius(t *testing.T) {
	tests := []struct {
		width, height, maxRings, want int
	}{
		{1, 1, DefaultMaxRings, 0},
		{2, 1, DefaultMaxRings, 1},
		{3, 3, DefaultMaxRings, 2},
		{5, 5, DefaultMaxRings, 3},
		{7, 7, DefaultMaxRings, 5},
		{5, 5, 1, 1},
		{64, 64, DefaultMaxRings, DefaultMaxRings},
	}
	for _, tt := range tests {
		if got := Radius(tt.width, tt.height, tt.maxRings); got != tt.want {
			t.Errorf("Radius(%d, %d, %d) = %d, want %d", tt.width, tt.height, tt.maxRings, got, tt.want)
		}
	}
}

// TestRoundTrip checks that every placed pair of lattice neighbors agrees
// with the positioner, in both hemispheres and from both column parities.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		origin orb.Point
		center grid.Cell
	}{
		{north, gridtest.Cell(9, 0, 0)},
		{north, gridtest.Cell(9, 1, 0)},
		{south, gridtest.Cell(9, 0, 0)},
		{south, gridtest.Cell(9, -3, 2)},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v/%s", tc.origin, tc.center), func(t *testing.T) {
			l := gridtest.New(tc.origin)
			e, err := Embed(ctx, l, tc.center, 7, 7)
			if err != nil {
				t.Fatal(err)
			}
			if len(e.Conflicts) != 0 {
				t.Fatalf("Conflicts = %v, want none", e.Conflicts)
			}
			seen := map[grid.Cell]Coord{}
			for at, cell := range e.Cells {
				if prev, dup := seen[cell]; dup {
					t.Errorf("%s placed at %v and %v", cell, prev, at)
				}
				seen[cell] = at

				nb, err := neighbors.Position(ctx, l, cell)
				if err != nil {
					t.Fatal(err)
				}
				for _, p := range grid.Positions() {
					placed, ok := e.Cells[at.Step(p)]
					if ok && placed != nb.At(p) {
						t.Errorf("%v of %s at %v holds %s, want %s", p, cell, at, placed, nb.At(p))
					}
				}
			}
		})
	}
}

func TestEmbedMaxRings(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	e, err := Embed(ctx, l, gridtest.Cell(9, 0, 0), 5, 5, WithMaxRings(1))
	if err != nil {
		t.Fatal(err)
	}
	if e.Radius != 1 || e.Len() != 7 {
		t.Errorf("Radius = %d, Len() = %d, want 1 and 7", e.Radius, e.Len())
	}
}

func TestEmbedSingleCell(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	e, err := Embed(ctx, l, gridtest.Cell(9, 4, 4), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if e.Len() != 1 || e.At(Origin) != gridtest.Cell(9, 4, 4) {
		t.Errorf("Cells = %v, want only the center", e.Cells)
	}
}

func TestEmbedFallbackNearPentagon(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	center := gridtest.Cell(9, 0, 0)
	l.AddPentagon(gridtest.Cell(9, 2, 0))

	e, err := Embed(ctx, l, center, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if e.Strategy != StrategyFallback {
		t.Errorf("Strategy = %v, want %v", e.Strategy, StrategyFallback)
	}
	if e.At(Origin) != center {
		t.Errorf("At(0,0) = %s, want %s", e.At(Origin), center)
	}
	if e.CenterCorrected {
		t.Error("CenterCorrected should be false")
	}

	window := Window(5, 5)
	var pentagons []Coord
	seen := map[grid.Cell]bool{}
	for _, at := range e.Coords() {
		cell := e.At(at)
		if !window.Contains(at) {
			t.Errorf("%v outside window", at)
		}
		if seen[cell] {
			t.Errorf("%s placed twice", cell)
		}
		seen[cell] = true
		if l.IsPentagon(cell) {
			pentagons = append(pentagons, at)
		}
	}
	if fmt.Sprint(pentagons) != fmt.Sprint(e.Pentagons) {
		t.Errorf("Pentagons = %v, want %v", e.Pentagons, pentagons)
	}
}

func TestEmbedPentagonCenter(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	center := gridtest.Cell(9, 0, 0)
	l.AddPentagon(center)

	e, err := Embed(ctx, l, center, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if e.Strategy != StrategyFallback {
		t.Errorf("Strategy = %v, want %v", e.Strategy, StrategyFallback)
	}
	if len(e.Pentagons) != 1 || e.Pentagons[0] != Origin {
		t.Errorf("Pentagons = %v, want [0,0]", e.Pentagons)
	}
}

// ringWithoutCenter drops the center from ring queries so the fallback
// cannot find it.
type ringWithoutCenter struct {
	*gridtest.Lattice
}

func (r ringWithoutCenter) Ring(ctx context.Context, c grid.Cell, k int) ([]grid.Cell, error) {
	cells, err := r.Lattice.Ring(ctx, c, k)
	if err != nil {
		return nil, err
	}
	out := cells[:0:0]
	for _, x := range cells {
		if x != c {
			out = append(out, x)
		}
	}
	return out, nil
}

func TestEmbedCenterMismatchIsCorrected(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	center := gridtest.Cell(9, 0, 0)
	l.AddPentagon(gridtest.Cell(9, 1, 0))

	e, err := Embed(ctx, ringWithoutCenter{l}, center, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if e.At(Origin) != center {
		t.Errorf("At(0,0) = %s, want %s", e.At(Origin), center)
	}
	if !e.CenterCorrected {
		t.Error("CenterCorrected should be true")
	}
	found := false
	for _, c := range e.Conflicts {
		if c.Kind == errors.ErrCodeCenterMismatch && c.At == Origin && c.Incoming == center {
			found = true
		}
	}
	if !found {
		t.Errorf("Conflicts = %v, want a CENTER_MISMATCH at 0,0", e.Conflicts)
	}
}

func TestEmbedConflictStopsPropagation(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	center := gridtest.Cell(9, 0, 0)
	liar := gridtest.Cell(9, 0, 1)

	// The cell north of the center reports a bogus southern neighbor.
	position := func(ctx context.Context, idx grid.Index, c grid.Cell) (neighbors.Neighbors, error) {
		nb, err := neighbors.Position(ctx, idx, c)
		if c == liar {
			nb.Slots[grid.BottomMiddle] = gridtest.Cell(9, 9, 9)
		}
		return nb, err
	}

	e, err := Embed(ctx, l, center, 5, 5, WithPositioner(position))
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Conflicts) == 0 {
		t.Fatal("expected a conflict")
	}
	c := e.Conflicts[0]
	if c.Kind != errors.ErrCodeLayoutConflict || c.At != Origin || c.Existing != center || c.Incoming != gridtest.Cell(9, 9, 9) {
		t.Errorf("Conflicts[0] = %+v", c)
	}
	if e.At(Origin) != center {
		t.Error("conflict must not overwrite the center")
	}
}

func TestEmbedErrors(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)

	if _, err := Embed(ctx, l, "nope", 3, 3); !errors.Is(err, errors.ErrCodeInvalidCell) {
		t.Errorf("invalid center error = %v, want INVALID_CELL", err)
	}
	if _, err := Embed(ctx, l, gridtest.Cell(9, 0, 0), 0, 3); !errors.Is(err, errors.ErrCodeInvalidExtent) {
		t.Errorf("zero width error = %v, want INVALID_EXTENT", err)
	}
}

func TestEmbedPartialOnGeometryFailure(t *testing.T) {
	ctx := context.Background()
	l := gridtest.New(north)
	l.Fail = func(op string, c grid.Cell) error {
		if op == "boundary" && c == gridtest.Cell(9, 0, 1) {
			return fmt.Errorf("tile server down")
		}
		return nil
	}
	e, err := Embed(ctx, l, gridtest.Cell(9, 0, 0), 5, 5)
	if !errors.Is(err, errors.ErrCodeGeometryUnavailable) {
		t.Fatalf("Embed() error = %v, want GEOMETRY_UNAVAILABLE", err)
	}
	if e == nil || e.Len() < 7 || e.At(Origin) != gridtest.Cell(9, 0, 0) {
		t.Errorf("partial embedding = %+v, want at least the first ring", e)
	}
}

func TestEmbedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := gridtest.New(north)
	e, err := Embed(ctx, l, gridtest.Cell(9, 0, 0), 5, 5)
	if err != context.Canceled {
		t.Errorf("Embed() error = %v, want context.Canceled", err)
	}
	if e == nil || e.At(Origin) != gridtest.Cell(9, 0, 0) {
		t.Error("canceled embedding should still hold the center")
	}
}

func TestBandCount(t *testing.T) {
	tests := []struct {
		n, h, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{7, 5, 3},
		{19, 5, 4},
		{19, 3, 3},
		{100, 20, 10},
	}
	for _, tt := range tests {
		if got := BandCount(tt.n, tt.h); got != tt.want {
			t.Errorf("BandCount(%d, %d) = %d, want %d", tt.n, tt.h, got, tt.want)
		}
	}
}

func TestAssignBandsOverlap(t *testing.T) {
	// Two clusters with one straggler that equal-count splitting puts in the
	// wrong band.
	lats := []float64{0, 0.1, 0.2, 0.9, 1.0, 1.1, 1.2, 1.3}
	locs := make([]located, len(lats))
	for i, lat := range lats {
		locs[i] = located{cell: grid.Cell(fmt.Sprint(i)), lat: lat}
	}
	assignBands(locs, 2)
	want := []int{0, 0, 0, 1, 1, 1, 1, 1}
	for i, l := range locs {
		if l.band != want[i] {
			t.Errorf("band of lat %v = %d, want %d", l.lat, l.band, want[i])
		}
	}
}
