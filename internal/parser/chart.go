package parser

// Document is the normalized model decoded from one LandXML file.
// It is built once per run and not mutated afterwards.
type Document struct {
	// Source is the path the document was read from ("" for streams).
	Source string
	// CRS is what the document declared.
	CRS CRSInfo
	// EPSG is the resolved code applied to every output collection.
	EPSG int

	// Points is the full point table in document order.
	Points []Point
	// Groups are the points bucketed by base code, in order of first appearance.
	Groups []CodeGroup
	// Index resolves point ids for cross-references.
	Index PointIndex

	LinearFeatures []LinearFeature
	Surfaces       []Surface
}

// PointCount returns the number of points in the full point table.
func (d *Document) PointCount() int {
	return len(d.Points)
}

// Group returns the code group for a base code.
func (d *Document) Group(code string) (*CodeGroup, bool) {
	for i := range d.Groups {
		if d.Groups[i].Code == code {
			return &d.Groups[i], true
		}
	}
	return nil, false
}

// Surface returns the surface with the given name.
func (d *Document) Surface(name string) (*Surface, bool) {
	for i := range d.Surfaces {
		if d.Surfaces[i].Name == name {
			return &d.Surfaces[i], true
		}
	}
	return nil, false
}
