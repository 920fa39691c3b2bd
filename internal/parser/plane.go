package parser

// Plane is z = A·x + B·y + C.
type Plane struct {
	A, B, C float64
}

// ZAt evaluates the plane at (x, y).
func (p Plane) ZAt(x, y float64) float64 {
	return p.A*x + p.B*y + p.C
}

// FitPlane solves the plane through three 3D vertices with Cramer's rule.
//
// When the planar determinant is zero (collinear or repeated vertices) the
// plane degrades to a flat plane at the first vertex's elevation.
func FitPlane(a, b, c Vertex) Plane {
	x1, y1, z1 := a.X, a.Y, a.Z
	x2, y2, z2 := b.X, b.Y, b.Z
	x3, y3, z3 := c.X, c.Y, c.Z

	det := x1*(y2-y3) - y1*(x2-x3) + (x2*y3 - x3*y2)
	if det == 0 {
		return Plane{C: z1}
	}
	return Plane{
		A: (z1*(y2-y3) - y1*(z2-z3) + (z2*y3 - z3*y2)) / det,
		B: (x1*(z2-z3) - z1*(x2-x3) + (x2*z3 - x3*z2)) / det,
		C: (x1*(y2*z3-y3*z2) - y1*(x2*z3-x3*z2) + z1*(x2*y3-x3*y2)) / det,
	}
}
