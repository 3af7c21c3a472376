package main

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/lodmesh"
)

// renderPreview rasterizes the mesh with a phong shader and writes a PNG.
func renderPreview(m lodmesh.Mesh, path string) error {
	if len(m.Faces) == 0 {
		return errors.New("nothing to render: mesh has no faces")
	}
	const (
		width, height = 1280, 720
		scale         = 2  // supersampling
		fovy          = 30 // vertical field of view in degrees
		near, far     = 1, 10
	)
	var (
		eye    = fauxgl.V(3, 3, 3)
		center = fauxgl.V(0, 0, 0)
		up     = fauxgl.V(0, 0, 1)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)

	triangles := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		p1, p2, p3 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		triangles = append(triangles, fauxgl.NewTriangleForPoints(
			fauxgl.V(p1.X, p1.Y, p1.Z),
			fauxgl.V(p2.X, p2.Y, p2.Z),
			fauxgl.V(p3.X, p3.Y, p3.Z),
		))
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()

	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)

	// downsample image for antialiasing
	image := resize.Resize(width, height, context.Image(), resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}
