package parser

// Vertex is a single decoded coordinate after axis mapping.
// Elevation is optional: HasZ is false when the source supplied only two values.
type Vertex struct {
	X, Y float64
	Z    float64
	HasZ bool
}

// XY returns the vertex with its elevation dropped.
func (v Vertex) XY() Vertex {
	return Vertex{X: v.X, Y: v.Y}
}

// SamePosition reports whether two vertices share x and y.
func (v Vertex) SamePosition(o Vertex) bool {
	return v.X == o.X && v.Y == o.Y
}

// Part is an ordered polyline or ring.
type Part []Vertex

// HasElevation reports whether any vertex of the part carries an elevation.
func (p Part) HasElevation() bool {
	for _, v := range p {
		if v.HasZ {
			return true
		}
	}
	return false
}

// PartsHaveElevation reports whether any vertex of any part carries an
// elevation. This is the 2D/3D decision for a whole collection.
func PartsHaveElevation(parts []Part) bool {
	for _, p := range parts {
		if p.HasElevation() {
			return true
		}
	}
	return false
}

// closeRing returns a 2D ring closed on its first vertex.
// Rings with fewer than three vertices cannot bound an area and yield nil.
func closeRing(part Part) Part {
	if len(part) < 3 {
		return nil
	}
	ring := make(Part, 0, len(part)+1)
	for _, v := range part {
		ring = append(ring, v.XY())
	}
	if !ring[0].SamePosition(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}
