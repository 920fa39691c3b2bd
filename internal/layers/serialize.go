package layers

import (
	"github.com/beetlebugorg/landxml/internal/parser"
	"github.com/twpayne/go-geom"
)

// Serializer builds go-geom geometries from decoded vertices.
//
// The 2D/3D decision is made once per collection by the caller and passed in
// as hasZ. In a 3D collection, vertices without elevation take MissingZ.
type Serializer struct {
	MissingZ float64
	SRID     int
}

func (s Serializer) layout(hasZ bool) geom.Layout {
	if hasZ {
		return geom.XYZ
	}
	return geom.XY
}

func (s Serializer) appendVertex(flat []float64, v parser.Vertex, hasZ bool) []float64 {
	flat = append(flat, v.X, v.Y)
	if hasZ {
		if v.HasZ {
			flat = append(flat, v.Z)
		} else {
			flat = append(flat, s.MissingZ)
		}
	}
	return flat
}

// Point builds a point.
func (s Serializer) Point(v parser.Vertex, hasZ bool) *geom.Point {
	flat := s.appendVertex(make([]float64, 0, 3), v, hasZ)
	p := geom.NewPointFlat(s.layout(hasZ), flat)
	p.SetSRID(s.SRID)
	return p
}

// Polygon builds a polygon from closed rings; the first ring is the shell.
func (s Serializer) Polygon(rings []parser.Part, hasZ bool) *geom.Polygon {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, ring := range rings {
		for _, v := range ring {
			flat = s.appendVertex(flat, v, hasZ)
		}
		ends = append(ends, len(flat))
	}
	p := geom.NewPolygonFlat(s.layout(hasZ), flat, ends)
	p.SetSRID(s.SRID)
	return p
}

// MultiLineString builds one multi-part polyline from parts.
func (s Serializer) MultiLineString(parts []parser.Part, hasZ bool) *geom.MultiLineString {
	var flat []float64
	ends := make([]int, 0, len(parts))
	for _, part := range parts {
		for _, v := range part {
			flat = s.appendVertex(flat, v, hasZ)
		}
		ends = append(ends, len(flat))
	}
	m := geom.NewMultiLineStringFlat(s.layout(hasZ), flat, ends)
	m.SetSRID(s.SRID)
	return m
}
