// Package lodmesh implements level-of-detail reduction of triangle meshes
// by greedy shortest-edge collapse, along with the supporting mesh plumbing:
// per-vertex normal recomputation, vertex welding, compaction and
// simplification error measurement. Lossy geometry compression lives in the
// quant subpackage, file serialization in meshio.
//
// All operations are pure with respect to their inputs and hold no package
// state, so independent meshes may be processed concurrently without locking.
package lodmesh

import (
	"errors"
	"fmt"

	"github.com/soypat/lodmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidTopology signals a face referencing a non-existent vertex,
	// a degenerate face on input, or a collapse loop that exceeded its
	// iteration bound.
	ErrInvalidTopology = errors.New("invalid mesh topology")
	// ErrInvalidInput signals an argument outside its contract domain.
	ErrInvalidInput = errors.New("invalid input")
)

// Mesh is an indexed triangle mesh. Vertex order is significant: the index
// of a vertex is its identity, referenced by Faces and by the parallel
// attribute slices.
type Mesh struct {
	Vertices []r3.Vec
	// Faces are triples of indices into Vertices.
	Faces [][3]int
	// Normals is nil until computed. When present it is parallel to Vertices
	// and holds unit vectors, or the zero vector for vertices that no face
	// touches.
	Normals []r3.Vec
	// UV is an optional texture coordinate attribute parallel to Vertices,
	// assumed normalized to [0,1].
	UV []r2.Vec
}

// Validate checks the mesh invariants: face indices in range, no face with
// repeated indices, and attribute slices parallel to Vertices. A nil error
// means the mesh is safe to hand to Simplify or quant.Quantize.
func (m Mesh) Validate() error {
	nv := len(m.Vertices)
	for i, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= nv {
				return fmt.Errorf("%w: face %d references vertex %d of mesh with %d vertices", ErrInvalidTopology, i, vi, nv)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("%w: face %d is degenerate (%d,%d,%d)", ErrInvalidTopology, i, f[0], f[1], f[2])
		}
	}
	if m.Normals != nil && len(m.Normals) != nv {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidTopology, len(m.Normals), nv)
	}
	if m.UV != nil && len(m.UV) != nv {
		return fmt.Errorf("%w: %d UVs for %d vertices", ErrInvalidTopology, len(m.UV), nv)
	}
	return nil
}

// IsEmpty reports whether the mesh has no vertices and no faces.
func (m Mesh) IsEmpty() bool { return len(m.Vertices) == 0 && len(m.Faces) == 0 }

// Clone returns a deep copy of the mesh sharing no backing storage with m.
func (m Mesh) Clone() Mesh {
	out := Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	if m.Normals != nil {
		out.Normals = append([]r3.Vec(nil), m.Normals...)
	}
	if m.UV != nil {
		out.UV = append([]r2.Vec(nil), m.UV...)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// The zero box is returned for a mesh with no vertices.
func (m Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	bb := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min = d3.MinElem(bb.Min, v)
		bb.Max = d3.MaxElem(bb.Max, v)
	}
	return bb
}

// Triangles expands the indexed faces into a triangle soup.
func (m Mesh) Triangles() []r3.Triangle {
	ts := make([]r3.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		ts[i] = r3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
	}
	return ts
}

// Compact returns a mesh with all orphaned vertex slots removed and face
// indices remapped to the dense vertex array. Parallel normal and UV entries
// follow their vertex. Simplify leaves orphaned slots behind; callers that
// need a minimal buffer call Compact afterwards.
func (m Mesh) Compact() Mesh {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	var out Mesh
	out.Faces = make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		var nf [3]int
		for j, vi := range f {
			ni := remap[vi]
			if ni < 0 {
				ni = len(out.Vertices)
				remap[vi] = ni
				out.Vertices = append(out.Vertices, m.Vertices[vi])
				if m.Normals != nil {
					out.Normals = append(out.Normals, m.Normals[vi])
				}
				if m.UV != nil {
					out.UV = append(out.UV, m.UV[vi])
				}
			}
			nf[j] = ni
		}
		out.Faces = append(out.Faces, nf)
	}
	return out
}
