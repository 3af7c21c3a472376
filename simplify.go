package lodmesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// edge is an ephemeral candidate for collapse. It is recomputed on every
// scan, never stored across iterations.
type edge struct {
	// keep survives the collapse, drop is rewritten to keep. keep is the
	// endpoint encountered first in face-then-edge traversal order.
	keep, drop int
	// len2 is the squared Euclidean edge length.
	len2 float64
}

// Simplify reduces m to at most targetVertexCount live vertices by greedy
// shortest-edge collapse and returns the reduced mesh with freshly computed
// normals. The input mesh is not modified.
//
// Each iteration scans every edge of every face and collapses the globally
// shortest one: the surviving endpoint moves to the edge midpoint, faces
// referencing the removed endpoint are rewritten, and faces that become
// degenerate are pruned. Ties on length are broken by traversal order,
// faces first, then edges within a face; this ordering decides which vertex
// survives and is part of the contract, not an implementation detail.
//
// Collapsed vertex slots are left orphaned in the vertex array; use
// Mesh.Compact to obtain a dense buffer. If targetVertexCount is not below
// the current vertex count, or the mesh has no faces, m is returned
// unchanged. Running out of collapsible edges before reaching the target
// terminates the loop early and is not an error. Exceeding twice the
// original vertex count in iterations reports ErrInvalidTopology.
func Simplify(m Mesh, targetVertexCount int) (Mesh, error) {
	if err := m.Validate(); err != nil {
		return Mesh{}, err
	}
	if targetVertexCount >= len(m.Vertices) || len(m.Faces) == 0 {
		return m, nil
	}
	out := m.Clone()
	live := len(out.Vertices)
	maxIter := 2 * len(out.Vertices)
	for iter := 0; live > targetVertexCount; iter++ {
		if iter >= maxIter {
			return Mesh{}, fmt.Errorf("%w: edge collapse exceeded %d iterations", ErrInvalidTopology, maxIter)
		}
		e, ok := shortestEdge(out.Vertices, out.Faces)
		if !ok {
			break // all faces exhausted.
		}
		out.Vertices[e.keep] = r3.Scale(0.5, r3.Add(out.Vertices[e.keep], out.Vertices[e.drop]))
		kept := out.Faces[:0]
		for _, f := range out.Faces {
			for j, vi := range f {
				if vi == e.drop {
					f[j] = e.keep
				}
			}
			if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
				continue
			}
			kept = append(kept, f)
		}
		out.Faces = kept
		live--
	}
	out.Normals = ComputeNormals(out.Vertices, out.Faces)
	return out, nil
}

// shortestEdge scans all face edges in traversal order and returns the first
// globally shortest one. ok is false when no collapsible edge exists.
func shortestEdge(vertices []r3.Vec, faces [][3]int) (best edge, ok bool) {
	best.len2 = math.MaxFloat64
	for _, f := range faces {
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			if a == b {
				continue
			}
			len2 := r3.Norm2(r3.Sub(vertices[b], vertices[a]))
			if len2 < best.len2 {
				best = edge{keep: a, drop: b, len2: len2}
				ok = true
			}
		}
	}
	return best, ok
}
