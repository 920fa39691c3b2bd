package parser

import (
	"strings"

	"github.com/beevik/etree"
)

// FeatureKind tags the origin of a linear feature.
type FeatureKind int

const (
	// KindPlanFeature is a PlanFeatures/PlanFeature element.
	KindPlanFeature FeatureKind = iota
	// KindBreakline is a Breaklines/Breakline element.
	KindBreakline
	// KindAlignment is an Alignments/Alignment element.
	KindAlignment
)

// String returns the LandXML element name of the kind.
func (k FeatureKind) String() string {
	switch k {
	case KindPlanFeature:
		return "PlanFeature"
	case KindBreakline:
		return "Breakline"
	case KindAlignment:
		return "Alignment"
	default:
		return "Unknown"
	}
}

// LinearFeature is a named set of polylines.
type LinearFeature struct {
	Kind  FeatureKind
	Name  string
	Desc  string
	Parts []Part
}

// partsFromPntList decodes the first PntList3D and the first PntList2D below
// e, in that order. Trailing values that do not complete a tuple are ignored,
// and lists yielding fewer than two valid vertices are dropped.
func partsFromPntList(e *etree.Element, mapXY AxisMapper) []Part {
	var out []Part
	if p3 := findFirst(e, pathPntList3D); hasText(p3) {
		if part := tuples(ParseFloats(textOf(p3)), 3, mapXY); ValidatePart(part) == nil {
			out = append(out, part)
		}
	}
	if p2 := findFirst(e, pathPntList2D); hasText(p2) {
		if part := tuples(ParseFloats(textOf(p2)), 2, mapXY); ValidatePart(part) == nil {
			out = append(out, part)
		}
	}
	return out
}

// tuples groups a flat value run into vertices of the given stride (2 or 3).
func tuples(vals []float64, stride int, mapXY AxisMapper) Part {
	part := make(Part, 0, len(vals)/stride)
	for i := 0; i+stride <= len(vals); i += stride {
		v, _ := vertexFromValues(vals[i:i+stride], mapXY)
		part = append(part, v)
	}
	return part
}

// parseEndpoint decodes a CoordGeom Start or End element. Text with at least
// two numbers is a literal coordinate; otherwise the first text token, or the
// pntRef attribute when the text is empty, is looked up in index.
func parseEndpoint(e *etree.Element, mapXY AxisMapper, index PointIndex) (Vertex, bool) {
	if e == nil {
		return Vertex{}, false
	}
	text := strings.TrimSpace(textOf(e))
	if text == "" {
		ref := strings.TrimSpace(e.SelectAttrValue("pntRef", ""))
		if ref == "" {
			return Vertex{}, false
		}
		return index.Lookup(ref)
	}
	if v, ok := vertexFromValues(ParseFloats(text), mapXY); ok {
		return v, true
	}
	return index.Lookup(strings.Fields(text)[0])
}

// partsFromCoordGeom turns every CoordGeom/Line below e into a two-vertex
// part. Segments with an unresolved endpoint are dropped.
func partsFromCoordGeom(e *etree.Element, mapXY AxisMapper, index PointIndex) []Part {
	var parts []Part
	for _, ln := range findAll(e, pathCoordGeomLine) {
		start, ok := parseEndpoint(findFirst(ln, pathStart), mapXY, index)
		if !ok {
			continue
		}
		end, ok := parseEndpoint(findFirst(ln, pathEnd), mapXY, index)
		if !ok {
			continue
		}
		parts = append(parts, Part{start, end})
	}
	return parts
}

// extractLinearFeatures collects plan features, breaklines and alignments.
//
// Plan features read both inline lists and CoordGeom segments, breaklines
// read inline lists only and alignments read CoordGeom only: alignment
// profiles carry PntList2D data in station/elevation space, not plan space.
// Features without any parts are omitted.
func extractLinearFeatures(root *etree.Element, mapXY AxisMapper, index PointIndex) []LinearFeature {
	var out []LinearFeature
	add := func(kind FeatureKind, el *etree.Element, parts []Part) {
		if len(parts) == 0 {
			return
		}
		out = append(out, LinearFeature{
			Kind:  kind,
			Name:  attrValue(el, "name", "id"),
			Desc:  el.SelectAttrValue("desc", ""),
			Parts: parts,
		})
	}

	for _, el := range findAll(root, pathPlanFeature) {
		parts := partsFromPntList(el, mapXY)
		parts = append(parts, partsFromCoordGeom(el, mapXY, index)...)
		add(KindPlanFeature, el, parts)
	}
	for _, el := range findAll(root, pathBreakline) {
		add(KindBreakline, el, partsFromPntList(el, mapXY))
	}
	for _, el := range findAll(root, pathAlignment) {
		add(KindAlignment, el, partsFromCoordGeom(el, mapXY, index))
	}
	return out
}
