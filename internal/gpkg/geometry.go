package gpkg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// GeoPackage binary geometry header (GeoPackage 1.3 §2.1.3): magic "GP",
// version 0, a flags byte, the int32 srs_id, an optional envelope, then the
// ISO WKB body.
const (
	headerSize = 8

	flagLittleEndian = 0x01
	flagEnvelopeXY   = 0x01 << 1
	flagEnvelopeMask = 0x07 << 1
	flagEmpty        = 0x01 << 4
)

// Envelope is a 2D extent.
type Envelope struct {
	MinX, MinY, MaxX, MaxY float64
}

// Extend grows e to cover o.
func (e Envelope) Extend(o Envelope) Envelope {
	return Envelope{
		MinX: math.Min(e.MinX, o.MinX),
		MinY: math.Min(e.MinY, o.MinY),
		MaxX: math.Max(e.MaxX, o.MaxX),
		MaxY: math.Max(e.MaxY, o.MaxY),
	}
}

// envelopeOf returns the XY extent of g and whether g has any coordinates.
func envelopeOf(g geom.T) (Envelope, bool) {
	if len(g.FlatCoords()) == 0 {
		return Envelope{}, false
	}
	b := g.Bounds()
	return Envelope{MinX: b.Min(0), MinY: b.Min(1), MaxX: b.Max(0), MaxY: b.Max(1)}, true
}

// EncodeGeometry serializes g as a GeoPackage binary geometry. Points carry no
// envelope; every other type carries its XY envelope.
func EncodeGeometry(g geom.T, srsID int) ([]byte, error) {
	body, err := wkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("gpkg: wkb: %w", err)
	}

	flags := byte(flagLittleEndian)
	env, ok := envelopeOf(g)
	_, isPoint := g.(*geom.Point)
	switch {
	case !ok:
		flags |= flagEmpty
	case !isPoint:
		flags |= flagEnvelopeXY
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + 32 + len(body))
	buf.Write([]byte{'G', 'P', 0, flags})
	binary.Write(&buf, binary.LittleEndian, int32(srsID))
	if flags&flagEnvelopeMask == flagEnvelopeXY {
		binary.Write(&buf, binary.LittleEndian, [4]float64{env.MinX, env.MaxX, env.MinY, env.MaxY})
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// DecodeGeometry parses a GeoPackage binary geometry.
func DecodeGeometry(blob []byte) (geom.T, int, error) {
	if len(blob) < headerSize || blob[0] != 'G' || blob[1] != 'P' {
		return nil, 0, errors.New("gpkg: not a GeoPackage geometry")
	}
	flags := blob[3]
	var order binary.ByteOrder = binary.BigEndian
	if flags&flagLittleEndian != 0 {
		order = binary.LittleEndian
	}
	srsID := int(int32(order.Uint32(blob[4:8])))

	var envSize int
	switch (flags & flagEnvelopeMask) >> 1 {
	case 0:
	case 1:
		envSize = 32
	case 2, 3:
		envSize = 48
	case 4:
		envSize = 64
	default:
		return nil, 0, fmt.Errorf("gpkg: invalid envelope indicator in flags %#x", flags)
	}
	if len(blob) < headerSize+envSize {
		return nil, 0, errors.New("gpkg: truncated geometry header")
	}

	g, err := wkb.Unmarshal(blob[headerSize+envSize:])
	if err != nil {
		return nil, 0, fmt.Errorf("gpkg: wkb: %w", err)
	}
	return g, srsID, nil
}
