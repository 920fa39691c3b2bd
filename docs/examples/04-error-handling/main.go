package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/landxml/pkg/landxml"
)

func safeParse(path string) (*landxml.Document, error) {
	doc, err := landxml.NewParser().Parse(path)
	if err != nil {
		var inputErr *landxml.ErrInputFile
		if errors.As(err, &inputErr) && errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("survey file not found: %s", path)
		}

		var docErr *landxml.ErrInvalidDocument
		if errors.As(err, &docErr) {
			log.Printf("Not a LandXML document: %s", docErr.Reason)
		}
		return nil, err
	}

	// Content problems are skipped, not reported as errors
	if len(doc.Points()) == 0 && len(doc.Surfaces()) == 0 {
		log.Printf("Warning: %s contains no points or surfaces", path)
	}
	if doc.DeclaredEPSG() == 0 {
		log.Printf("Warning: %s declares no CRS, using EPSG:%d", path, doc.EPSG())
	}
	return doc, nil
}

func main() {
	doc, err := safeParse("survey.xml")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Loaded %s: %d points\n", doc.Source(), len(doc.Points()))

	// Try to parse a missing file
	if _, err := safeParse("missing.xml"); err != nil {
		log.Printf("Expected error: %v", err)
	}
}
