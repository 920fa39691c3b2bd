package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/landxml/pkg/landxml"
)

func main() {
	// Collect every table the import produces
	var tables landxml.Collector
	opts := landxml.DefaultImportOptions()
	opts.ProjectEPSG = 25832
	if _, err := landxml.Import("survey.xml", opts, &tables); err != nil {
		log.Fatal(err)
	}

	// Export a selection; site.gpkg becomes site__1.gpkg if it exists
	selected, err := landxml.SelectTables(tables.Tables, []string{landxml.PointsTable, landxml.LinesTable})
	if err != nil {
		log.Fatal(err)
	}
	res, err := landxml.Export(context.Background(), selected, "site.gpkg", landxml.ExportOptions{
		Registrar: func(info *landxml.TableInfo) error {
			fmt.Printf("  %s: %s, %d features\n", info.Name, info.GeometryType, info.Features)
			return nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %d tables to %s\n", len(res.Written), res.Path)
}
