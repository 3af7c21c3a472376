package lodmesh

import "gonum.org/v1/gonum/spatial/r3"

// ComputeNormals derives one normal per vertex from the face set. Each face
// contributes its unnormalized edge cross product (v2-v1)×(v3-v1) to the
// accumulator of all three of its vertices; accumulators are normalized at
// the end. A vertex touched by no face, or whose incident face normals
// cancel exactly, gets the zero vector rather than NaN.
func ComputeNormals(vertices []r3.Vec, faces [][3]int) []r3.Vec {
	normals := make([]r3.Vec, len(vertices))
	for _, f := range faces {
		v1, v2, v3 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := r3.Cross(r3.Sub(v2, v1), r3.Sub(v3, v1))
		for _, vi := range f {
			normals[vi] = r3.Add(normals[vi], n)
		}
	}
	for i, n := range normals {
		if r3.Norm2(n) == 0 {
			continue // leave zero vector.
		}
		normals[i] = r3.Unit(n)
	}
	return normals
}

// RecomputeNormals returns a copy of m with Normals derived from the current
// vertex and face set.
func (m Mesh) RecomputeNormals() Mesh {
	out := m
	out.Normals = ComputeNormals(m.Vertices, m.Faces)
	return out
}
