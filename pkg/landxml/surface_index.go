package landxml

import (
	"log/slog"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geos"
)

// rectEpsilon is the minimum rectangle side; rtreego rejects zero lengths.
const rectEpsilon = 1e-9

// SurfaceIndex answers elevation queries on a reconstructed surface.
//
// Faces are held in an R-tree keyed by their XY bounding boxes. Faces are
// independent triangles; where they overlap the first face in document
// order wins.
type SurfaceIndex struct {
	surface *Surface
	rtree   *rtreego.Rtree
	mask    *geos.Geom
	bounds  Envelope
}

// indexedFace wraps a face for R-tree storage.
type indexedFace struct {
	index int
	face  *Face
	env   Envelope
}

// Bounds implements rtreego.Spatial.
func (f *indexedFace) Bounds() rtreego.Rect {
	return rect(f.env)
}

func rect(e Envelope) rtreego.Rect {
	point := rtreego.Point{e.MinX, e.MinY}
	lengths := []float64{
		math.Max(e.MaxX-e.MinX, rectEpsilon),
		math.Max(e.MaxY-e.MinY, rectEpsilon),
	}
	r, _ := rtreego.NewRect(point, lengths)
	return r
}

// NewSurfaceIndex builds the spatial index of a surface. A mask GEOS cannot
// read is dropped with a warning on logger; nil uses slog.Default().
func NewSurfaceIndex(s *Surface, logger *slog.Logger) *SurfaceIndex {
	if logger == nil {
		logger = slog.Default()
	}
	idx := &SurfaceIndex{
		surface: s,
		rtree:   rtreego.NewTree(2, 25, 50),
	}
	for i := range s.Faces {
		f := &s.Faces[i]
		env := faceEnvelope(f)
		if i == 0 {
			idx.bounds = env
		} else {
			idx.bounds = idx.bounds.Extend(env)
		}
		idx.rtree.Insert(&indexedFace{index: i, face: f, env: env})
	}
	if s.Mask != nil {
		mask, err := maskGeos(s.Mask)
		if err != nil {
			logger.Warn("surface mask ignored for sampling", "surface", s.Name, "error", err)
		} else {
			idx.mask = mask
		}
	}
	return idx
}

func faceEnvelope(f *Face) Envelope {
	e := Envelope{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, v := range f.Vertices {
		e = e.Extend(Envelope{MinX: v.X, MinY: v.Y, MaxX: v.X, MaxY: v.Y})
	}
	return e
}

func maskGeos(mask geom.T) (*geos.Geom, error) {
	text, err := wkt.Marshal(mask)
	if err != nil {
		return nil, err
	}
	return geos.NewGeomFromWKT(text)
}

// Surface returns the indexed surface.
func (idx *SurfaceIndex) Surface() *Surface { return idx.surface }

// Bounds returns the XY extent of all faces. Zero for a surface without faces.
func (idx *SurfaceIndex) Bounds() Envelope { return idx.bounds }

// InMask reports whether (x, y) lies inside or on the boundary mask.
// Surfaces without a mask contain every location.
func (idx *SurfaceIndex) InMask(x, y float64) bool {
	if idx.mask == nil {
		return true
	}
	text, err := wkt.Marshal(geom.NewPointFlat(geom.XY, []float64{x, y}))
	if err != nil {
		return false
	}
	pt, err := geos.NewGeomFromWKT(text)
	if err != nil {
		return false
	}
	return idx.mask.Intersects(pt)
}

// FaceAt returns the first face containing (x, y), ignoring the mask.
func (idx *SurfaceIndex) FaceAt(x, y float64) (*Face, bool) {
	hits := idx.rtree.SearchIntersect(rect(Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y}))
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].(*indexedFace).index < hits[j].(*indexedFace).index
	})
	for _, h := range hits {
		f := h.(*indexedFace).face
		if f.Contains(x, y) {
			return f, true
		}
	}
	return nil, false
}

// ElevationAt evaluates the plane of the face containing (x, y). It reports
// false outside every face and outside the boundary mask.
func (idx *SurfaceIndex) ElevationAt(x, y float64) (float64, bool) {
	if !idx.InMask(x, y) {
		return 0, false
	}
	f, ok := idx.FaceAt(x, y)
	if !ok {
		return 0, false
	}
	return f.Plane.ZAt(x, y), true
}
