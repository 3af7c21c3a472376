package lodmesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/lodmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangles builds an indexed mesh from a triangle soup, welding
// vertices that land in the same tolerance-sized grid cell. It is the
// inverse of Mesh.Triangles for well-behaved input and the entry point for
// loaders that produce unindexed triangles, such as STL.
//
// vertexTolOrZero should be of the order of 1/1000th of the smallest
// triangle side. If set to 0 it is inferred automatically. Triangles whose
// vertices weld together are dropped so the result satisfies the mesh
// invariants. An empty soup yields an empty mesh.
func FromTriangles(triangles []r3.Triangle, vertexTolOrZero float64) (Mesh, error) {
	if len(triangles) == 0 {
		return Mesh{}, nil
	}
	bb := r3.Box{Min: triangles[0][0], Max: triangles[0][0]}
	minSide2 := math.MaxFloat64
	maxSide2 := -math.MaxFloat64
	for i := range triangles {
		for j, vert := range triangles[i] {
			bb.Min = d3.MinElem(bb.Min, vert)
			bb.Max = d3.MaxElem(bb.Max, vert)
			side2 := r3.Norm2(r3.Sub(triangles[i][(j+1)%3], vert))
			minSide2 = math.Min(minSide2, side2)
			maxSide2 = math.Max(maxSide2, side2)
		}
	}
	tol := vertexTolOrZero
	suggested := math.Sqrt(minSide2) / 256
	if tol > math.Sqrt(maxSide2)/2 {
		return Mesh{}, fmt.Errorf("vertex tolerance too large to preserve mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	size := r3.Sub(bb.Max, bb.Min)
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	div := int64(maxDim/tol + 1e-12)
	if div <= 0 {
		return Mesh{}, errors.New("tolerance larger than model size")
	}
	if div > math.MaxInt64/2 {
		return Mesh{}, errors.New("tolerance too small. overflowed int64")
	}
	var m Mesh
	// Vertex index cache keyed by position in resolution-space.
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	for _, tri := range triangles {
		var f [3]int
		for j, vert := range tri {
			v := r3.Scale(ri, vert)
			vi := [3]int64{int64(v.X), int64(v.Y), int64(v.Z)}
			vertexIdx, ok := cache[vi]
			if !ok {
				vertexIdx = len(m.Vertices)
				cache[vi] = vertexIdx
				m.Vertices = append(m.Vertices, vert)
			}
			f[j] = vertexIdx
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue // triangle collapsed by welding.
		}
		m.Faces = append(m.Faces, f)
	}
	return m, nil
}
