package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/landxml/pkg/landxml"
)

func main() {
	// Create parser
	parser := landxml.NewParser()

	// Parse survey file
	doc, err := parser.Parse("survey.xml")
	if err != nil {
		log.Fatal(err)
	}

	// Print survey info
	fmt.Printf("CRS: EPSG:%d (%s)\n", doc.EPSG(), doc.CRSMessage())
	fmt.Printf("Points: %d in %d code groups\n", len(doc.Points()), len(doc.Groups()))
	fmt.Printf("Linear features: %d\n", len(doc.LinearFeatures()))

	for _, s := range doc.Surfaces() {
		fmt.Printf("Surface %s: %d faces, %d breaklines\n",
			s.Name, len(s.Faces), len(s.Breaklines))
	}
}
