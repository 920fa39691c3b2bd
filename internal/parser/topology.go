package parser

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/twpayne/go-geom"
)

// topology.go - TIN surface reconstruction
// A LandXML Surface carries its vertices (Definition/Pnts), triangles
// (Definition/Faces) and source data (boundaries, breaklines). Faces are rebuilt
// independently: no adjacency is derived and no face is clipped by the boundary.

// Face is a reconstructed triangle.
type Face struct {
	// IDs are the vertex ids as referenced by the F element.
	IDs [3]string
	// Vertices are the resolved 3D vertices (all carry elevations).
	Vertices [3]Vertex
	// Plane is fitted through Vertices.
	Plane Plane
}

// Ring returns the closed triangle ring with every elevation re-derived from
// the fitted plane.
func (f Face) Ring() Part {
	ring := make(Part, 4)
	for i := 0; i < 4; i++ {
		v := f.Vertices[i%3]
		ring[i] = Vertex{X: v.X, Y: v.Y, Z: f.Plane.ZAt(v.X, v.Y), HasZ: true}
	}
	return ring
}

// Contains reports whether (x, y) lies inside the triangle or on its edges.
func (f Face) Contains(x, y float64) bool {
	a, b, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
	d1 := edgeSide(x, y, a, b)
	d2 := edgeSide(x, y, b, c)
	d3 := edgeSide(x, y, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edgeSide(x, y float64, a, b Vertex) float64 {
	return (x-b.X)*(a.Y-b.Y) - (a.X-b.X)*(y-b.Y)
}

// Surface is a reconstructed TIN.
type Surface struct {
	Name string
	// Points maps vertex id to coordinates; PointOrder keeps document order.
	Points     map[string]Vertex
	PointOrder []string
	Faces      []Face
	// BoundaryOuter is the closed 2D outer ring, nil when absent.
	BoundaryOuter Part
	// BoundaryInners are closed 2D hole rings.
	BoundaryInners []Part
	// Mask is the outer ring minus the holes after repair, nil without an
	// outer boundary. It is informational: faces are not clipped by it.
	Mask       geom.T
	Breaklines []Part
}

// Empty reports whether the surface produced no output at all.
func (s *Surface) Empty() bool {
	return len(s.Points) == 0 && len(s.Faces) == 0 &&
		s.BoundaryOuter == nil && len(s.Breaklines) == 0
}

// surfaceBuilder reconstructs Surface elements with a shared axis mapping.
type surfaceBuilder struct {
	mapXY  AxisMapper
	logger *slog.Logger
}

// buildSurfaces reconstructs every Surfaces/Surface element. Surfaces that
// yield nothing are omitted.
func (b *surfaceBuilder) buildSurfaces(root *etree.Element) []Surface {
	var out []Surface
	for _, el := range findAll(root, pathSurface) {
		s := b.buildSurface(el)
		if s.Empty() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (b *surfaceBuilder) buildSurface(el *etree.Element) Surface {
	name := attrValue(el, "name", "desc")
	if name == "" {
		name = "Surface"
	}
	s := Surface{Name: name, Points: make(map[string]Vertex)}

	b.readBoundaries(el, &s)
	b.readPoints(el, &s)
	b.readFaces(el, &s)
	for _, bl := range findAll(el, pathSurfaceBreakline) {
		s.Breaklines = append(s.Breaklines, partsFromPntList(bl, b.mapXY)...)
	}
	return s
}

// readBoundaries reads the outer and inner rings and derives the mask.
// Only the first point list of each Boundary element forms its ring.
func (b *surfaceBuilder) readBoundaries(el *etree.Element, s *Surface) {
	ringOf := func(bnd *etree.Element) Part {
		parts := partsFromPntList(bnd, b.mapXY)
		if len(parts) == 0 {
			return nil
		}
		ring := closeRing(parts[0])
		if ValidateRing(ring) != nil {
			return nil
		}
		return ring
	}

	if outer := findFirst(el, pathBoundaryOuter); outer != nil {
		s.BoundaryOuter = ringOf(outer)
	}
	for _, inner := range findAll(el, pathBoundaryInner) {
		if ring := ringOf(inner); ring != nil {
			s.BoundaryInners = append(s.BoundaryInners, ring)
		}
	}
	if s.BoundaryOuter == nil {
		return
	}
	mask, err := buildMask(s.BoundaryOuter, s.BoundaryInners)
	if err != nil {
		b.logger.Warn("surface boundary mask not built", "surface", s.Name, "error", err)
		return
	}
	s.Mask = mask
}

// readPoints builds the vertex dictionary from P children, or from the
// line-oriented "id x y z" text of Pnts when there are no P children.
func (b *surfaceBuilder) readPoints(el *etree.Element, s *Surface) {
	pnts := findFirst(el, pathPnts)
	if pnts == nil {
		return
	}
	add := func(id string, v Vertex) {
		if _, seen := s.Points[id]; !seen {
			s.PointOrder = append(s.PointOrder, id)
		}
		s.Points[id] = v
	}

	if ps := findAll(pnts, pathP); len(ps) > 0 {
		for _, p := range ps {
			id := attrValue(p, "id", "name")
			if id == "" {
				continue
			}
			v, ok := vertexFromValues(ParseFloats(textOf(p)), b.mapXY)
			if !ok {
				continue
			}
			add(id, v)
		}
		return
	}

	for _, line := range strings.Split(textOf(pnts), "\n") {
		toks := strings.Fields(line)
		if len(toks) < 4 {
			continue
		}
		vals := ParseFloats(strings.Join(toks[1:4], " "))
		if len(vals) != 3 {
			continue
		}
		v, _ := vertexFromValues(vals, b.mapXY)
		add(toks[0], v)
	}
}

// readFaces resolves every F element against the vertex dictionary. Faces
// with an unknown id or a vertex lacking elevation are skipped.
func (b *surfaceBuilder) readFaces(el *etree.Element, s *Surface) {
	faces := findFirst(el, pathFaces)
	if faces == nil {
		return
	}
	for _, f := range findAll(faces, pathF) {
		ids, ok := faceIDs(f)
		if !ok {
			continue
		}
		face := Face{IDs: ids}
		resolved := true
		for i, id := range ids {
			v, found := s.Points[id]
			if !found || !v.HasZ {
				resolved = false
				break
			}
			face.Vertices[i] = v
		}
		if !resolved {
			continue
		}
		face.Plane = FitPlane(face.Vertices[0], face.Vertices[1], face.Vertices[2])
		s.Faces = append(s.Faces, face)
	}
	if len(s.Faces) > 0 {
		b.logger.Info("TIN faces reconstructed without clipping", "surface", s.Name, "faces", len(s.Faces))
	}
}

// faceIDs reads vertex ids from the p1/p2/p3 attributes, falling back to
// the first three tokens of the element text.
func faceIDs(f *etree.Element) ([3]string, bool) {
	p1, p2, p3 := f.SelectAttrValue("p1", ""), f.SelectAttrValue("p2", ""), f.SelectAttrValue("p3", "")
	if p1 != "" && p2 != "" && p3 != "" {
		return [3]string{p1, p2, p3}, true
	}
	toks := strings.Fields(textOf(f))
	if len(toks) < 3 {
		return [3]string{}, false
	}
	return [3]string{toks[0], toks[1], toks[2]}, true
}
