package parser

import (
	"fmt"
	"math"
)

// ValidatePart checks that a polyline has at least two vertices with finite
// planar coordinates. Elevation is not validated; NaN heights are legal.
func ValidatePart(part Part) error {
	if len(part) < 2 {
		return &ErrInvalidGeometry{
			Kind:   "line",
			Reason: fmt.Sprintf("need at least 2 vertices, got %d", len(part)),
		}
	}
	return validateVertices("line", part)
}

// ValidateRing checks that a ring is closed and has at least four vertices
// (three distinct corners plus the closing vertex).
func ValidateRing(ring Part) error {
	if len(ring) < 4 {
		return &ErrInvalidGeometry{
			Kind:   "ring",
			Reason: fmt.Sprintf("need at least 4 vertices, got %d", len(ring)),
		}
	}
	if !ring[0].SamePosition(ring[len(ring)-1]) {
		return &ErrInvalidGeometry{Kind: "ring", Reason: "ring is not closed"}
	}
	return validateVertices("ring", ring)
}

func validateVertices(kind string, part Part) error {
	for i, v := range part {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
			return &ErrInvalidGeometry{
				Kind:   kind,
				Reason: fmt.Sprintf("vertex %d has non-finite coordinates (%v, %v)", i, v.X, v.Y),
			}
		}
	}
	return nil
}
