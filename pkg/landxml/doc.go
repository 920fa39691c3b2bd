// Package landxml imports LandXML survey files and exports them as GeoPackage
// layers.
//
// A LandXML file carries survey points (CgPoints), linear features (plan
// features, breaklines, alignments) and triangulated terrain surfaces (TINs).
// This package decodes all of them into a Document, turns the document into
// named output tables, and writes a selection of those tables into a single
// GeoPackage container.
//
// # Basic Usage
//
//	parser := landxml.NewParser()
//	doc, err := parser.Parse("survey.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d points in EPSG:%d\n", len(doc.Points()), doc.EPSG())
//
// # Import and Export
//
// Import parses a file and hands every output table to a Sink in a fixed
// order: point code groups, the full point table, linear features, then per
// surface its boundary, vertices, faces and breaklines.
//
//	var tables landxml.Collector
//	doc, err := landxml.Import("survey.xml", landxml.DefaultImportOptions(), &tables)
//
//	res, err := landxml.Export(ctx, tables.Tables, "site.gpkg", landxml.ExportOptions{})
//	fmt.Println("written to", res.Path) // site.gpkg, or site__1.gpkg if it existed
//
// # Coordinate Reference Systems
//
// Every table of a run is stamped with one EPSG code. The code declared in the
// file wins by default; when it disagrees with the host project's CRS, or when
// neither exists, a Resolver is asked. Without a Resolver the documented
// defaults apply (keep the file CRS, use the fallback CRS).
//
//	opts := landxml.DefaultParseOptions()
//	opts.ProjectEPSG = 4326
//	opts.Resolver = landxml.NewPromptResolver(os.Stdin, os.Stderr)
//
// # Terrain Sampling
//
// Surfaces are reconstructed face by face. A SurfaceIndex answers elevation
// queries from the fitted face planes:
//
//	dgm, _ := doc.Surface("DGM")
//	idx := landxml.NewSurfaceIndex(dgm, nil)
//	if z, ok := idx.ElevationAt(412345.2, 5712345.8); ok {
//	    fmt.Printf("z=%.3f\n", z)
//	}
//
// Faces are not clipped by the surface boundary. ElevationAt reports no
// elevation outside the boundary mask when the surface has one.
package landxml
