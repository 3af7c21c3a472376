// Package quant implements lossy quantization of mesh geometry for transfer:
// positions are mapped to fixed-width integers over the mesh bounding box,
// normals to 16-bit octahedral pairs and texture coordinates to fixed-width
// integers over the assumed [0,1] domain. Face indices pass through
// untouched. Dequantize inverts the transform up to the chosen bit
// precision.
package quant

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/lodmesh"
	"github.com/soypat/lodmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidBits signals an attribute bit depth outside [1,16]. It is
// returned before any buffer is allocated.
var ErrInvalidBits = errors.New("quantization bits outside [1,16]")

// Settings carries per-attribute quantization bit depths, mirroring a
// Draco-style attribute settings object. Every depth is validated to [1,16]
// before use. NormalBits is validated alongside the rest but the normal
// encoding itself is a fixed 16-bit octahedral pair.
type Settings struct {
	PositionBits int `yaml:"position_bits"`
	NormalBits   int `yaml:"normal_bits"`
	UVBits       int `yaml:"uv_bits"`
	GenericBits  int `yaml:"generic_bits"`
}

// DefaultSettings returns the bit depths used when no configuration is
// given: 14 position bits, 12 UV bits.
func DefaultSettings() Settings {
	return Settings{
		PositionBits: 14,
		NormalBits:   16,
		UVBits:       12,
		GenericBits:  12,
	}
}

func (s Settings) validate() error {
	for _, attr := range [...]struct {
		name string
		bits int
	}{
		{"position", s.PositionBits},
		{"normal", s.NormalBits},
		{"uv", s.UVBits},
		{"generic", s.GenericBits},
	} {
		if attr.bits < 1 || attr.bits > 16 {
			return fmt.Errorf("%w: %s bits = %d", ErrInvalidBits, attr.name, attr.bits)
		}
	}
	return nil
}

// Bounds is the axis-aligned domain positions were quantized over. Keeping
// min and range per axis makes the transform invertible.
type Bounds struct {
	MinX, MinY, MinZ       float64
	RangeX, RangeY, RangeZ float64
}

// Positions is the quantized position attribute, three values per vertex.
type Positions struct {
	Data   []uint16
	Bounds Bounds
	Bits   int
}

// Normals is the octahedral-encoded normal attribute, two values per vertex.
type Normals struct {
	Data []uint16
}

// UVs is the quantized texture coordinate attribute, two values per vertex.
type UVs struct {
	Data []uint16
	Bits int
}

// Geometry is a detached, compact mesh representation ready for transfer.
// Normals and UVs are nil when the source mesh lacks the attribute; Indices
// is nil for a mesh without faces.
type Geometry struct {
	Positions Positions
	Normals   *Normals
	UVs       *UVs
	Indices   []uint32
}

// Quantize converts a mesh into its compact transfer representation.
// The mesh is validated first; no partial output is produced on error.
// An empty mesh quantizes to an empty Geometry.
func Quantize(m lodmesh.Mesh, s Settings) (Geometry, error) {
	if err := s.validate(); err != nil {
		return Geometry{}, err
	}
	if err := m.Validate(); err != nil {
		return Geometry{}, err
	}
	g := Geometry{Positions: quantizePositions(m.Vertices, s.PositionBits)}
	if m.Normals != nil {
		n := Normals{Data: make([]uint16, 2*len(m.Normals))}
		for i, normal := range m.Normals {
			u, v := OctEncode(normal)
			n.Data[2*i] = u
			n.Data[2*i+1] = v
		}
		g.Normals = &n
	}
	if m.UV != nil {
		scale := float64(int(1)<<s.UVBits - 1)
		uv := UVs{Data: make([]uint16, 2*len(m.UV)), Bits: s.UVBits}
		for i, t := range m.UV {
			// UVs are assumed normalized to [0,1] already; no bounds kept.
			uv.Data[2*i] = quantizeUnit(t.X, scale)
			uv.Data[2*i+1] = quantizeUnit(t.Y, scale)
		}
		g.UVs = &uv
	}
	if len(m.Faces) > 0 {
		g.Indices = make([]uint32, 0, 3*len(m.Faces))
		for _, f := range m.Faces {
			g.Indices = append(g.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
		}
	}
	return g, nil
}

func quantizePositions(vertices []r3.Vec, bits int) Positions {
	p := Positions{Bits: bits}
	if len(vertices) == 0 {
		return p
	}
	bbMin, bbMax := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		bbMin = d3.MinElem(bbMin, v)
		bbMax = d3.MaxElem(bbMax, v)
	}
	rng := r3.Sub(bbMax, bbMin)
	p.Bounds = Bounds{
		MinX: bbMin.X, MinY: bbMin.Y, MinZ: bbMin.Z,
		RangeX: rng.X, RangeY: rng.Y, RangeZ: rng.Z,
	}
	scale := float64(int(1)<<bits - 1)
	p.Data = make([]uint16, 0, 3*len(vertices))
	for _, v := range vertices {
		p.Data = append(p.Data,
			quantizeAxis(v.X, bbMin.X, rng.X, scale),
			quantizeAxis(v.Y, bbMin.Y, rng.Y, scale),
			quantizeAxis(v.Z, bbMin.Z, rng.Z, scale),
		)
	}
	return p
}

// quantizeAxis maps value from [min, min+rng] onto [0, scale]. A zero range
// axis is degenerate: every vertex shares the coordinate and the normalized
// fraction is taken as 0 instead of dividing by zero.
func quantizeAxis(value, min, rng, scale float64) uint16 {
	var frac float64
	if rng != 0 {
		frac = (value - min) / rng
	}
	return clampRound(frac*scale, scale)
}

func quantizeUnit(value, scale float64) uint16 {
	return clampRound(value*scale, scale)
}

func clampRound(v, scale float64) uint16 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > scale {
		return uint16(scale)
	}
	return uint16(v)
}

// Dequantize reconstructs float buffers from a quantized record, returning
// them as a mesh ready for rendering. Empty input buffers produce empty
// outputs, not an error. The Indices buffer must hold whole triangles.
func Dequantize(g Geometry) (lodmesh.Mesh, error) {
	if g.Positions.Bits < 1 || g.Positions.Bits > 16 {
		return lodmesh.Mesh{}, fmt.Errorf("%w: position bits = %d", ErrInvalidBits, g.Positions.Bits)
	}
	if g.UVs != nil && (g.UVs.Bits < 1 || g.UVs.Bits > 16) {
		return lodmesh.Mesh{}, fmt.Errorf("%w: uv bits = %d", ErrInvalidBits, g.UVs.Bits)
	}
	if len(g.Indices)%3 != 0 {
		return lodmesh.Mesh{}, fmt.Errorf("%w: index count %d is not a multiple of 3", lodmesh.ErrInvalidTopology, len(g.Indices))
	}
	var m lodmesh.Mesh
	scale := float64(int(1)<<g.Positions.Bits - 1)
	b := g.Positions.Bounds
	m.Vertices = make([]r3.Vec, 0, len(g.Positions.Data)/3)
	for i := 0; i+2 < len(g.Positions.Data); i += 3 {
		m.Vertices = append(m.Vertices, r3.Vec{
			X: b.MinX + float64(g.Positions.Data[i])/scale*b.RangeX,
			Y: b.MinY + float64(g.Positions.Data[i+1])/scale*b.RangeY,
			Z: b.MinZ + float64(g.Positions.Data[i+2])/scale*b.RangeZ,
		})
	}
	if g.Normals != nil {
		m.Normals = make([]r3.Vec, 0, len(g.Normals.Data)/2)
		for i := 0; i+1 < len(g.Normals.Data); i += 2 {
			m.Normals = append(m.Normals, OctDecode(g.Normals.Data[i], g.Normals.Data[i+1]))
		}
	}
	if g.UVs != nil {
		uvScale := float64(int(1)<<g.UVs.Bits - 1)
		m.UV = make([]r2.Vec, 0, len(g.UVs.Data)/2)
		for i := 0; i+1 < len(g.UVs.Data); i += 2 {
			m.UV = append(m.UV, r2.Vec{
				X: float64(g.UVs.Data[i]) / uvScale,
				Y: float64(g.UVs.Data[i+1]) / uvScale,
			})
		}
	}
	if len(g.Indices) > 0 {
		m.Faces = make([][3]int, 0, len(g.Indices)/3)
		for i := 0; i+2 < len(g.Indices); i += 3 {
			m.Faces = append(m.Faces, [3]int{int(g.Indices[i]), int(g.Indices[i+1]), int(g.Indices[i+2])})
		}
	}
	return m, nil
}
