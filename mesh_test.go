package lodmesh_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/soypat/lodmesh"
	"github.com/soypat/lodmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitCube returns an 8 vertex, 12 triangle unit cube with outward winding.
func unitCube() lodmesh.Mesh {
	return lodmesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{2, 3, 7}, {2, 7, 6}, // back
			{0, 4, 7}, {0, 7, 3}, // left
			{1, 2, 6}, {1, 6, 5}, // right
		},
	}
}

func TestMeshValidate(t *testing.T) {
	if err := unitCube().Validate(); err != nil {
		t.Errorf("valid cube rejected: %v", err)
	}
	if err := (lodmesh.Mesh{}).Validate(); err != nil {
		t.Errorf("empty mesh rejected: %v", err)
	}
	for _, test := range []struct {
		name string
		mod  func(*lodmesh.Mesh)
	}{
		{"face index out of range", func(m *lodmesh.Mesh) { m.Faces[0][1] = 99 }},
		{"negative face index", func(m *lodmesh.Mesh) { m.Faces[3][0] = -1 }},
		{"degenerate face", func(m *lodmesh.Mesh) { m.Faces[5] = [3]int{1, 1, 2} }},
		{"normals not parallel", func(m *lodmesh.Mesh) { m.Normals = make([]r3.Vec, 3) }},
		{"uvs not parallel", func(m *lodmesh.Mesh) { m.UV = make([]r2.Vec, 2) }},
	} {
		m := unitCube()
		test.mod(&m)
		if err := m.Validate(); !errors.Is(err, lodmesh.ErrInvalidTopology) {
			t.Errorf("%s: want ErrInvalidTopology, got %v", test.name, err)
		}
	}
}

func TestMeshCompact(t *testing.T) {
	// Three vertices are orphaned: only 0, 1, 3, 5 are referenced.
	m := lodmesh.Mesh{
		Vertices: []r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}},
		Faces:    [][3]int{{5, 1, 3}, {0, 1, 5}},
	}
	m.Normals = lodmesh.ComputeNormals(m.Vertices, m.Faces)
	c := m.Compact()
	if len(c.Vertices) != 4 {
		t.Fatalf("want 4 live vertices, got %d", len(c.Vertices))
	}
	if len(c.Normals) != len(c.Vertices) {
		t.Fatalf("normals not remapped with vertices: %d != %d", len(c.Normals), len(c.Vertices))
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	// First face visits 5, 1, 3 in order, so they take indices 0, 1, 2.
	want := [][3]int{{0, 1, 2}, {3, 1, 0}}
	if !reflect.DeepEqual(c.Faces, want) {
		t.Errorf("faces remapped to %v, want %v", c.Faces, want)
	}
	if c.Vertices[0] != m.Vertices[5] || c.Vertices[3] != m.Vertices[0] {
		t.Error("vertex positions not carried through remap")
	}
}

func TestMeshCloneIndependent(t *testing.T) {
	m := unitCube()
	c := m.Clone()
	c.Vertices[0] = r3.Vec{X: 99}
	c.Faces[0][0] = 7
	if m.Vertices[0] == c.Vertices[0] || m.Faces[0][0] == 7 {
		t.Error("Clone shares storage with original")
	}
}

func TestMeshBounds(t *testing.T) {
	bb := unitCube().Bounds()
	if !d3.EqualWithin(bb.Min, r3.Vec{}, 0) || !d3.EqualWithin(bb.Max, d3.Elem(1), 0) {
		t.Errorf("cube bounds = %+v", bb)
	}
	if bb := (lodmesh.Mesh{}).Bounds(); bb != (r3.Box{}) {
		t.Errorf("empty mesh bounds = %+v", bb)
	}
}

func TestFromTrianglesWeld(t *testing.T) {
	m, err := lodmesh.FromTriangles(unitCube().Triangles(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 8 {
		t.Errorf("cube soup welded to %d vertices, want 8", len(m.Vertices))
	}
	if len(m.Faces) != 12 {
		t.Errorf("cube soup welded to %d faces, want 12", len(m.Faces))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestFromTrianglesEmpty(t *testing.T) {
	m, err := lodmesh.FromTriangles(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsEmpty() {
		t.Error("empty soup did not produce empty mesh")
	}
}
