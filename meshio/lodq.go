package meshio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/soypat/lodmesh/quant"
)

// LODQ is a little-endian binary container for quant.Geometry:
//
//	magic "LODQ" | version u16 | flags u16
//	vertexCount u32 | posBits u16 | uvBits u16 | bounds 6×f64
//	positions 3N×u16 | normals 2N×u16 | uvs 2N×u16
//	indexCount u32 | indices K×u32
//
// The normal, uv and index sections are present only when the matching
// flag bit is set.

var lodqMagic = [4]byte{'L', 'O', 'D', 'Q'}

const lodqVersion = 1

const (
	flagNormals = 1 << iota
	flagUVs
	flagIndices
)

// lodqHeader is the fixed-size portion of a LODQ record.
type lodqHeader struct {
	Magic       [4]byte
	Version     uint16
	Flags       uint16
	VertexCount uint32
	PosBits     uint16
	UVBits      uint16
	Bounds      quant.Bounds
}

// WriteLODQ writes a quantized geometry record to w.
func WriteLODQ(w io.Writer, g quant.Geometry) error {
	nv := len(g.Positions.Data) / 3
	if len(g.Positions.Data) != 3*nv {
		return fmt.Errorf("position buffer length %d is not a multiple of 3", len(g.Positions.Data))
	}
	h := lodqHeader{
		Magic:       lodqMagic,
		Version:     lodqVersion,
		VertexCount: uint32(nv),
		PosBits:     uint16(g.Positions.Bits),
		Bounds:      g.Positions.Bounds,
	}
	if g.Normals != nil {
		if len(g.Normals.Data) != 2*nv {
			return fmt.Errorf("normal buffer length %d for %d vertices", len(g.Normals.Data), nv)
		}
		h.Flags |= flagNormals
	}
	if g.UVs != nil {
		if len(g.UVs.Data) != 2*nv {
			return fmt.Errorf("uv buffer length %d for %d vertices", len(g.UVs.Data), nv)
		}
		h.Flags |= flagUVs
		h.UVBits = uint16(g.UVs.Bits)
	}
	if g.Indices != nil {
		h.Flags |= flagIndices
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, g.Positions.Data); err != nil {
		return err
	}
	if g.Normals != nil {
		if err := binary.Write(w, binary.LittleEndian, g.Normals.Data); err != nil {
			return err
		}
	}
	if g.UVs != nil {
		if err := binary.Write(w, binary.LittleEndian, g.UVs.Data); err != nil {
			return err
		}
	}
	if g.Indices != nil {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(g.Indices))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, g.Indices); err != nil {
			return err
		}
	}
	return nil
}

// ReadLODQ reads a quantized geometry record from r.
func ReadLODQ(r io.Reader) (quant.Geometry, error) {
	var h lodqHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return quant.Geometry{}, fmt.Errorf("LODQ header read failed: %w", err)
	}
	if h.Magic != lodqMagic {
		return quant.Geometry{}, errors.New("bad LODQ magic")
	}
	if h.Version != lodqVersion {
		return quant.Geometry{}, fmt.Errorf("unsupported LODQ version %d", h.Version)
	}
	if h.PosBits < 1 || h.PosBits > 16 || h.Flags&flagUVs != 0 && (h.UVBits < 1 || h.UVBits > 16) {
		return quant.Geometry{}, fmt.Errorf("%w in LODQ header", quant.ErrInvalidBits)
	}
	nv := int(h.VertexCount)
	g := quant.Geometry{
		Positions: quant.Positions{
			Data:   make([]uint16, 3*nv),
			Bounds: h.Bounds,
			Bits:   int(h.PosBits),
		},
	}
	if err := binary.Read(r, binary.LittleEndian, g.Positions.Data); err != nil {
		return quant.Geometry{}, fmt.Errorf("LODQ positions: %w", err)
	}
	if h.Flags&flagNormals != 0 {
		n := quant.Normals{Data: make([]uint16, 2*nv)}
		if err := binary.Read(r, binary.LittleEndian, n.Data); err != nil {
			return quant.Geometry{}, fmt.Errorf("LODQ normals: %w", err)
		}
		g.Normals = &n
	}
	if h.Flags&flagUVs != 0 {
		uv := quant.UVs{Data: make([]uint16, 2*nv), Bits: int(h.UVBits)}
		if err := binary.Read(r, binary.LittleEndian, uv.Data); err != nil {
			return quant.Geometry{}, fmt.Errorf("LODQ uvs: %w", err)
		}
		g.UVs = &uv
	}
	if h.Flags&flagIndices != 0 {
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return quant.Geometry{}, fmt.Errorf("LODQ index count: %w", err)
		}
		g.Indices = make([]uint32, count)
		if err := binary.Read(r, binary.LittleEndian, g.Indices); err != nil {
			return quant.Geometry{}, fmt.Errorf("LODQ indices: %w", err)
		}
	}
	return g, nil
}
