package lodmesh_test

import (
	"math"
	"testing"

	"github.com/soypat/lodmesh"
	"github.com/soypat/lodmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestComputeNormalsSingleTriangle(t *testing.T) {
	vertices := []r3.Vec{{}, {X: 1}, {Y: 1}}
	normals := lodmesh.ComputeNormals(vertices, [][3]int{{0, 1, 2}})
	want := r3.Vec{Z: 1}
	for i, n := range normals {
		if !d3.EqualWithin(n, want, 1e-12) {
			t.Errorf("vertex %d normal = %+v, want %+v", i, n, want)
		}
	}
}

func TestComputeNormalsOrphanVertexIsZero(t *testing.T) {
	vertices := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 5, Y: 5, Z: 5}}
	normals := lodmesh.ComputeNormals(vertices, [][3]int{{0, 1, 2}})
	if normals[3] != (r3.Vec{}) {
		t.Errorf("orphan vertex normal = %+v, want zero vector", normals[3])
	}
}

func TestComputeNormalsCancellationIsZero(t *testing.T) {
	// Same triangle with both windings: face normals cancel exactly and the
	// accumulator must fall back to zero, not NaN.
	vertices := []r3.Vec{{}, {X: 1}, {Y: 1}}
	normals := lodmesh.ComputeNormals(vertices, [][3]int{{0, 1, 2}, {0, 2, 1}})
	for i, n := range normals {
		if n != (r3.Vec{}) {
			t.Errorf("vertex %d normal = %+v, want zero vector", i, n)
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			t.Errorf("vertex %d normal contains NaN", i)
		}
	}
}

func TestComputeNormalsCubeCorner(t *testing.T) {
	// Corner (0,0,0) of the unit cube touches two faces on each of the -X,
	// -Y and -Z sides. Every incident triangle contributes an unnormalized
	// cross of unit magnitude, so the accumulator is (-2,-2,-2) before
	// normalization.
	m := unitCube().RecomputeNormals()
	want := r3.Unit(r3.Vec{X: -1, Y: -1, Z: -1})
	if !d3.EqualWithin(m.Normals[0], want, 1e-12) {
		t.Errorf("corner normal = %+v, want %+v", m.Normals[0], want)
	}
	for i, n := range m.Normals {
		if math.Abs(r3.Norm(n)-1) > 1e-12 {
			t.Errorf("vertex %d normal not unit length: %v", i, r3.Norm(n))
		}
	}
}
