package parser

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Point is a surveyed point from a CgPoints block.
type Point struct {
	// ID is the point name (or id attribute); it keys cross-references.
	ID         string
	X, Y       float64
	Z          float64
	HasZ       bool
	CodeFull   string
	CodeBase   string
	CodeSuffix string
	Desc       string
	// Properties are joined from the Feature whose code matches the
	// point's featureRef. Empty, never nil.
	Properties map[string]string
}

// Vertex returns the point's coordinates.
func (p Point) Vertex() Vertex {
	return Vertex{X: p.X, Y: p.Y, Z: p.Z, HasZ: p.HasZ}
}

// FeatureProperties maps a feature code to its Property label/value pairs.
type FeatureProperties map[string]map[string]string

// CodeGroup is every point sharing a base code.
type CodeGroup struct {
	Code   string
	Points []Point
	// Labels is the sorted union of property labels seen across Points.
	Labels []string
}

// HasElevation reports whether any member carries an elevation.
func (g *CodeGroup) HasElevation() bool {
	for _, p := range g.Points {
		if p.HasZ {
			return true
		}
	}
	return false
}

// PointIndex resolves point ids to coordinates. Later duplicates win.
type PointIndex map[string]Vertex

// Lookup returns the coordinates of id and whether it exists.
func (idx PointIndex) Lookup(id string) (Vertex, bool) {
	v, ok := idx[id]
	return v, ok
}

// parseFeatureProperties collects CgPoints/Feature blocks keyed by code.
// Features without a code, and properties without a label, are ignored.
func parseFeatureProperties(root *etree.Element) FeatureProperties {
	out := make(FeatureProperties)
	for _, fe := range findAll(root, pathCgFeature) {
		code := attrValue(fe, "code")
		if code == "" {
			continue
		}
		props := make(map[string]string)
		for _, pr := range findAll(fe, pathProperty) {
			label := strings.TrimSpace(attrValue(pr, "label"))
			if label == "" {
				continue
			}
			props[label] = pr.SelectAttrValue("value", "")
		}
		out[code] = props
	}
	return out
}

// pointModel is the result of reading all CgPoint records.
type pointModel struct {
	points []Point
	groups []CodeGroup
	index  PointIndex
}

// buildPoints reads every CgPoint, dropping those with fewer than two numeric
// values, and groups them by base code in order of first appearance.
func buildPoints(root *etree.Element, props FeatureProperties, mapXY AxisMapper) pointModel {
	m := pointModel{index: make(PointIndex)}
	groupPos := make(map[string]int)
	labelSets := make([]map[string]struct{}, 0)

	for _, el := range findAll(root, pathCgPoint) {
		v, ok := vertexFromValues(ParseFloats(textOf(el)), mapXY)
		if !ok {
			continue
		}
		codeFull := el.SelectAttrValue("code", "")
		base, suffix := SplitCode(codeFull)

		joined := props[el.SelectAttrValue("featureRef", "")]
		pointProps := make(map[string]string, len(joined))
		for k, val := range joined {
			pointProps[k] = val
		}

		p := Point{
			ID:         attrValue(el, "name", "id"),
			X:          v.X,
			Y:          v.Y,
			Z:          v.Z,
			HasZ:       v.HasZ,
			CodeFull:   codeFull,
			CodeBase:   base,
			CodeSuffix: suffix,
			Desc:       el.SelectAttrValue("desc", ""),
			Properties: pointProps,
		}

		m.index[p.ID] = v
		m.points = append(m.points, p)

		pos, seen := groupPos[base]
		if !seen {
			pos = len(m.groups)
			groupPos[base] = pos
			m.groups = append(m.groups, CodeGroup{Code: base})
			labelSets = append(labelSets, make(map[string]struct{}))
		}
		m.groups[pos].Points = append(m.groups[pos].Points, p)
		for label := range pointProps {
			labelSets[pos][label] = struct{}{}
		}
	}

	for i := range m.groups {
		labels := make([]string, 0, len(labelSets[i]))
		for label := range labelSets[i] {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		m.groups[i].Labels = labels
	}
	return m
}
