package layout

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
)

// ToGeoJSON returns one polygon feature per placed cell. Each feature
// carries the cell id, its row and column, and center/pentagon flags.
func ToGeoJSON(ctx context.Context, idx grid.Index, l Layout) (*geojson.FeatureCollection, error) {
	placements, err := l.Placements()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, p := range placements {
		boundary, err := idx.Boundary(ctx, grid.Cell(p.Cell))
		if err != nil {
			return nil, err
		}
		ring := append(orb.Ring{}, boundary...)
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = p.Cell
		f.Properties["cell"] = p.Cell
		f.Properties["row"] = p.Coord.Row
		f.Properties["col"] = p.Coord.Col
		f.Properties["center"] = p.Cell == l.Center
		f.Properties["pentagon"] = p.Pentagon
		fc.Append(f)
	}
	return fc, nil
}
