// Package meshio serializes meshes and quantized geometry records. It keeps
// all file-format concerns out of the core lodmesh and quant packages, which
// operate on in-memory buffers only.
package meshio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/lodmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteSTL writes the mesh faces to w in binary STL format. STL stores a
// triangle soup, so vertex indexing and per-vertex attributes are lost;
// each record carries the face normal computed from its vertices.
func WriteSTL(w io.Writer, m lodmesh.Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if len(m.Faces) == 0 {
		return errors.New("empty mesh")
	}
	header := stlHeader{Count: uint32(len(m.Faces))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var d stlTriangle
	var b [50]byte
	for _, f := range m.Faces {
		v1, v2, v3 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := r3.Cross(r3.Sub(v2, v1), r3.Sub(v3, v1))
		if r3.Norm2(n) > 0 {
			n = r3.Unit(n)
		}
		d.Normal = toF32(n)
		d.Vertex1 = toF32(v1)
		d.Vertex2 = toF32(v2)
		d.Vertex3 = toF32(v3)
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadSTL reads a binary STL stream and welds the triangle soup into an
// indexed mesh using the automatic vertex tolerance of
// lodmesh.FromTriangles.
func ReadSTL(r io.Reader) (lodmesh.Mesh, error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return lodmesh.Mesh{}, errors.New("encountered EOF while reading STL header")
		}
		return lodmesh.Mesh{}, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return lodmesh.Mesh{}, errors.New("STL header indicates 0 triangles present")
	}
	triangles := make([]r3.Triangle, 0, header.Count)
	var (
		buf [50]byte
		d   stlTriangle
	)
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return lodmesh.Mesh{}, fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			return lodmesh.Mesh{}, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		triangles = append(triangles, d.toTriangle())
	}
	return lodmesh.FromTriangles(triangles, 0)
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	return nil
}

func (t stlTriangle) toTriangle() r3.Triangle {
	return r3.Triangle{
		fromF32(t.Vertex1),
		fromF32(t.Vertex2),
		fromF32(t.Vertex3),
	}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func toF32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromF32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}
