package lodmesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// MaxError returns the symmetric maximum vertex-to-nearest-vertex distance
// between two meshes. It is a cheap stand-in for the Hausdorff distance that
// works well for judging how much detail a simplification pass destroyed.
// Orphaned vertex slots count like any other vertex; compact meshes first if
// that matters. Returns 0 if either mesh has no vertices.
func MaxError(a, b Mesh) float64 {
	return math.Max(oneSidedError(a, b, false), oneSidedError(b, a, false))
}

// RMSError returns the symmetric root-mean-square vertex-to-nearest-vertex
// distance between two meshes. Returns 0 if either mesh has no vertices.
func RMSError(a, b Mesh) float64 {
	return math.Max(oneSidedError(a, b, true), oneSidedError(b, a, true))
}

func oneSidedError(from, to Mesh, rms bool) float64 {
	if len(from.Vertices) == 0 || len(to.Vertices) == 0 {
		return 0
	}
	ps := make(kdtree.Points, len(to.Vertices))
	for i, v := range to.Vertices {
		ps[i] = kdtree.Point{v.X, v.Y, v.Z}
	}
	tree := kdtree.New(ps, false)
	var acc float64
	for _, v := range from.Vertices {
		_, dist2 := tree.Nearest(kdtree.Point{v.X, v.Y, v.Z})
		if rms {
			acc += dist2
		} else {
			acc = math.Max(acc, dist2)
		}
	}
	if rms {
		return math.Sqrt(acc / float64(len(from.Vertices)))
	}
	return math.Sqrt(acc)
}
