package parser

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseFloats splits text on whitespace and parses every token as a float64.
//
// Tokens that do not parse are dropped rather than replaced, so a malformed run
// such as "1 2 x 3" yields [1 2 3]. Callers that consume fixed-size tuples must
// check the resulting length themselves.
func ParseFloats(text string) []float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	out := make([]float64, 0, len(fields))
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// SplitCode splits a raw survey code at its first whitespace character.
//
// "TREE 12" yields ("TREE", "12"); "TREE" yields ("TREE", "").
// Surrounding whitespace is trimmed from both halves.
func SplitCode(code string) (base, suffix string) {
	s := strings.TrimSpace(code)
	if s == "" {
		return "", ""
	}
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// AxisMapper maps raw (first, second) coordinate values from the document
// to output (x, y).
type AxisMapper func(a, b float64) (x, y float64)

// AxisMapping returns the identity mapping, or the mapping that swaps the
// first two axes when swap is set (LandXML commonly stores Northing Easting).
func AxisMapping(swap bool) AxisMapper {
	if swap {
		return func(a, b float64) (float64, float64) { return b, a }
	}
	return func(a, b float64) (float64, float64) { return a, b }
}

// vertexFromValues builds a vertex from 2 or 3 decoded values.
// Returns false when fewer than two values are present.
func vertexFromValues(vals []float64, mapXY AxisMapper) (Vertex, bool) {
	if len(vals) < 2 {
		return Vertex{}, false
	}
	x, y := mapXY(vals[0], vals[1])
	v := Vertex{X: x, Y: y}
	if len(vals) > 2 {
		v.Z = vals[2]
		v.HasZ = true
	}
	return v, true
}
