package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/landxml/pkg/landxml"
)

func main() {
	// Parse survey with surfaces
	doc, err := landxml.NewParser().Parse("survey.xml")
	if err != nil {
		log.Fatal(err)
	}

	surface, ok := doc.Surface("DGM")
	if !ok {
		log.Fatal("surface DGM not found")
	}

	// Index faces in an R-tree for O(log n) lookups
	idx := landxml.NewSurfaceIndex(surface, nil)
	b := idx.Bounds()
	fmt.Printf("Extent: [%.2f,%.2f] to [%.2f,%.2f]\n", b.MinX, b.MinY, b.MaxX, b.MaxY)

	// Sample a 5x5 grid across the extent
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			x := b.MinX + (b.MaxX-b.MinX)*float64(i)/4
			y := b.MinY + (b.MaxY-b.MinY)*float64(j)/4
			if z, ok := idx.ElevationAt(x, y); ok {
				fmt.Printf("  (%.2f, %.2f) -> %.3f\n", x, y, z)
			} else {
				fmt.Printf("  (%.2f, %.2f) -> outside\n", x, y)
			}
		}
	}
}
