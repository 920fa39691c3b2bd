package parser

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geos"
)

// buildMask subtracts every inner ring from the outer ring and repairs the
// result (MakeValid followed by a zero-width buffer). The returned geometry is
// a *geom.Polygon or *geom.MultiPolygon in 2D.
func buildMask(outer Part, inners []Part) (geom.T, error) {
	mask, err := ringGeos(outer)
	if err != nil {
		return nil, fmt.Errorf("outer boundary: %w", err)
	}
	for i, inner := range inners {
		hole, err := ringGeos(inner)
		if err != nil {
			return nil, fmt.Errorf("inner boundary %d: %w", i+1, err)
		}
		mask = mask.Difference(hole)
	}
	mask = mask.MakeValid().Buffer(0, 1)

	g, err := wkt.Unmarshal(mask.ToWKT())
	if err != nil {
		return nil, fmt.Errorf("repaired boundary: %w", err)
	}
	return g, nil
}

// ringGeos converts a closed 2D ring into a single-ring GEOS polygon.
func ringGeos(ring Part) (*geos.Geom, error) {
	flat := make([]float64, 0, 2*len(ring))
	for _, v := range ring {
		flat = append(flat, v.X, v.Y)
	}
	text, err := wkt.Marshal(geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}))
	if err != nil {
		return nil, err
	}
	return geos.NewGeomFromWKT(text)
}
