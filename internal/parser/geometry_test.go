package parser

import (
	"testing"
)

// TestFitPlane tests plane fitting through triangle vertices
func TestFitPlane(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vertex
		want    Plane
	}{
		{
			name: "sloped in y",
			a:    Vertex{X: 0, Y: 0, Z: 0, HasZ: true},
			b:    Vertex{X: 10, Y: 0, Z: 0, HasZ: true},
			c:    Vertex{X: 0, Y: 10, Z: 5, HasZ: true},
			want: Plane{A: 0, B: 0.5, C: 0},
		},
		{
			name: "flat",
			a:    Vertex{X: 0, Y: 0, Z: 3, HasZ: true},
			b:    Vertex{X: 1, Y: 0, Z: 3, HasZ: true},
			c:    Vertex{X: 0, Y: 1, Z: 3, HasZ: true},
			want: Plane{C: 3},
		},
		{
			name: "collinear degrades to first elevation",
			a:    Vertex{X: 0, Y: 0, Z: 1, HasZ: true},
			b:    Vertex{X: 1, Y: 1, Z: 2, HasZ: true},
			c:    Vertex{X: 2, Y: 2, Z: 3, HasZ: true},
			want: Plane{C: 1},
		},
		{
			name: "repeated vertex",
			a:    Vertex{X: 4, Y: 4, Z: 9, HasZ: true},
			b:    Vertex{X: 4, Y: 4, Z: 2, HasZ: true},
			c:    Vertex{X: 7, Y: 1, Z: 3, HasZ: true},
			want: Plane{C: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitPlane(tt.a, tt.b, tt.c)
			if !approx(got.A, tt.want.A) || !approx(got.B, tt.want.B) || !approx(got.C, tt.want.C) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFitPlanePassesThroughVertices(t *testing.T) {
	a := Vertex{X: 3, Y: -2, Z: 7.5, HasZ: true}
	b := Vertex{X: 11, Y: 4, Z: -1, HasZ: true}
	c := Vertex{X: -5, Y: 9, Z: 2.25, HasZ: true}
	p := FitPlane(a, b, c)
	for i, v := range []Vertex{a, b, c} {
		if got := p.ZAt(v.X, v.Y); !approx(got, v.Z) {
			t.Errorf("vertex %d: expected z=%v, got %v", i, v.Z, got)
		}
	}
}

func TestFaceRing(t *testing.T) {
	f := Face{
		IDs: [3]string{"a", "b", "c"},
		Vertices: [3]Vertex{
			{X: 0, Y: 0, Z: 0, HasZ: true},
			{X: 10, Y: 0, Z: 0, HasZ: true},
			{X: 0, Y: 10, Z: 5, HasZ: true},
		},
	}
	f.Plane = FitPlane(f.Vertices[0], f.Vertices[1], f.Vertices[2])

	ring := f.Ring()
	if len(ring) != 4 {
		t.Fatalf("Expected closed ring of 4 vertices, got %d", len(ring))
	}
	if ring[0] != ring[3] {
		t.Errorf("Ring not closed: %+v != %+v", ring[0], ring[3])
	}
	if ring[2].Z != 5 || !ring[2].HasZ {
		t.Errorf("Expected plane elevation 5 at third vertex, got %+v", ring[2])
	}
}

func TestFaceContains(t *testing.T) {
	f := Face{Vertices: [3]Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 2, 2, true},
		{"vertex", 0, 0, true},
		{"edge", 5, 5, true},
		{"outside hypotenuse", 6, 6, false},
		{"outside negative", -1, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCloseRing(t *testing.T) {
	open := Part{{X: 0, Y: 0, Z: 1, HasZ: true}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	ring := closeRing(open)
	if len(ring) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(ring))
	}
	if ring.HasElevation() {
		t.Error("Closed ring should be 2D")
	}

	closed := Part{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	if got := closeRing(closed); len(got) != 4 {
		t.Errorf("Already closed ring grew to %d vertices", len(got))
	}

	if got := closeRing(Part{{X: 0, Y: 0}, {X: 1, Y: 1}}); got != nil {
		t.Errorf("Expected nil for two vertices, got %v", got)
	}
}

func TestPartsHaveElevation(t *testing.T) {
	flat := Part{{X: 0, Y: 0}, {X: 1, Y: 1}}
	mixed := Part{{X: 0, Y: 0}, {X: 1, Y: 1, Z: 2, HasZ: true}}
	if PartsHaveElevation([]Part{flat}) {
		t.Error("Expected 2D for flat parts")
	}
	if !PartsHaveElevation([]Part{flat, mixed}) {
		t.Error("One elevated vertex should promote the collection")
	}
	if PartsHaveElevation(nil) {
		t.Error("Expected 2D for no parts")
	}
}

func TestBuildMask(t *testing.T) {
	outer := closeRing(Part{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	inner := closeRing(Part{{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}})

	mask, err := buildMask(outer, []Part{inner})
	if err != nil {
		t.Fatalf("buildMask: %v", err)
	}
	if area := maskArea(mask); !approx(area, 96) {
		t.Errorf("Expected area 96, got %v", area)
	}

	bowtie := Part{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	repaired, err := buildMask(bowtie, nil)
	if err != nil {
		t.Fatalf("buildMask(bowtie): %v", err)
	}
	if area := maskArea(repaired); !approx(area, 50) {
		t.Errorf("Expected repaired bow-tie area 50, got %v", area)
	}
}
