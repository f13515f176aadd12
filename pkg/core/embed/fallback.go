package embed

import (
	"context"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/sphere"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

type located struct {
	cell grid.Cell
	lat  float64
	lng  float64 // unwrapped around the center's longitude
	band int
}

// BandCount returns the number of latitude bands for n cells: the rounded
// square root of n, capped by height and never below one.
func BandCount(n, height int) int {
	b := int(math.Round(math.Sqrt(float64(n))))
	b = min(b, height, n)
	return max(b, 1)
}

// bands lays out cells in latitude bands ordered west to east.
func (e *Embedding) bands(ctx context.Context, idx grid.Index, cells []grid.Cell) error {
	centerPt, err := idx.Centroid(ctx, e.Center)
	if err != nil {
		return errors.Geometry(err, "centroid", string(e.Center))
	}

	locs := make([]located, 0, len(cells))
	for _, c := range cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		var p orb.Point
		if c == e.Center {
			p = centerPt
		} else if p, err = idx.Centroid(ctx, c); err != nil {
			return errors.Geometry(err, "centroid", string(c))
		}
		locs = append(locs, located{
			cell: c,
			lat:  p.Lat(),
			lng:  sphere.UnwrapLongitude(p.Lon(), centerPt.Lon()),
		})
	}

	sort.SliceStable(locs, func(i, j int) bool {
		if locs[i].lat != locs[j].lat {
			return locs[i].lat < locs[j].lat
		}
		return locs[i].cell < locs[j].cell
	})
	count := BandCount(len(locs), e.Height)
	assignBands(locs, count)

	rows := make([][]located, count)
	for _, l := range locs {
		rows[l.band] = append(rows[l.band], l)
	}
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			if row[i].lng != row[j].lng {
				return row[i].lng < row[j].lng
			}
			return row[i].cell < row[j].cell
		})
	}

	centerBand, centerCol := -1, 0
	for b, row := range rows {
		for i, l := range row {
			if l.cell == e.Center {
				centerBand, centerCol = b, i
			}
		}
	}
	centerFound := centerBand >= 0
	if !centerFound {
		// Anchor on the middle band; finish() restores the center.
		centerBand = count / 2
	}

	e.Cells = make(map[Coord]grid.Cell, len(locs))
	window := Window(e.Width, e.Height)
	for b, row := range rows {
		shift := centerCol
		if b != centerBand || !centerFound {
			shift = westOf(row, centerPt.Lon())
		}
		for i, l := range row {
			at := Coord{Row: b - centerBand, Col: i - shift}
			if !window.Contains(at) {
				continue
			}
			if existing, ok := e.Cells[at]; ok {
				if c, bad := Check(at, existing, l.cell); bad {
					e.Conflicts = append(e.Conflicts, c)
				}
				continue
			}
			e.Cells[at] = l.cell
		}
	}
	return nil
}

// assignBands splits latitude-sorted cells into count equal-sized bands,
// then lets cells near each boundary move to the neighboring band when its
// mean latitude is closer.
func assignBands(locs []located, count int) {
	n := len(locs)
	if n == 0 {
		return
	}
	starts := make([]int, count+1)
	for b := 0; b <= count; b++ {
		starts[b] = b * n / count
	}
	means := make([]float64, count)
	for b := 0; b < count; b++ {
		sum := 0.0
		for i := starts[b]; i < starts[b+1]; i++ {
			locs[i].band = b
			sum += locs[i].lat
		}
		if size := starts[b+1] - starts[b]; size > 0 {
			means[b] = sum / float64(size)
		}
	}

	buffer := max(1, (n/count)/4)
	for b := 0; b+1 < count; b++ {
		edge := starts[b+1]
		for i := max(starts[b], edge-buffer); i < edge; i++ {
			if nearer(locs[i].lat, means[b+1], means[b]) {
				locs[i].band = b + 1
			}
		}
		for i := edge; i < min(starts[b+2], edge+buffer); i++ {
			if nearer(locs[i].lat, means[b], means[b+1]) {
				locs[i].band = b
			}
		}
	}
}

func nearer(lat, candidate, current float64) bool {
	return math.Abs(lat-candidate) < math.Abs(lat-current)
}

// westOf counts the cells in a longitude-sorted row lying west of lng.
func westOf(row []located, lng float64) int {
	return sort.Search(len(row), func(i int) bool { return row[i].lng >= lng })
}
