// Package thumbnail renders offscreen preview images for decoded
// meshes. It is a pure CPU rasterizer; render failures never fail an
// import, the model just ends up without a preview.
package thumbnail

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/meshvault/meshvault/internal/mesh"
)

// RenderError reports a mesh that cannot be thumbnailed.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("thumbnail render: %s", e.Reason)
}

// Renderer rasterizes meshes at a fixed square target size.
type Renderer struct {
	size int
}

// supersample renders at a multiple of the target size and downsamples
// with Lanczos, standing in for MSAA.
const supersample = 2

var (
	background = color.RGBA{R: 245, G: 246, B: 248, A: 255}
	baseColor  = [3]float64{0.36, 0.54, 0.78} // desaturated blue
)

// NewRenderer creates a renderer producing size x size thumbnails
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 256
	}
	return &Renderer{size: size}
}

// Render rasterizes the mesh into a square RGBA thumbnail.
func (r *Renderer) Render(m *mesh.ParsedMesh) (image.Image, error) {
	if m == nil || m.TriangleCount() == 0 {
		return nil, &RenderError{Reason: "mesh has no triangles"}
	}
	if m.Bounds.IsEmpty() {
		return nil, &RenderError{Reason: "mesh has an empty bounding box"}
	}

	dim := r.size * supersample
	img := image.NewRGBA(image.Rect(0, 0, dim, dim))
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = background.R
		case 1:
			img.Pix[i] = background.G
		case 2:
			img.Pix[i] = background.B
		default:
			img.Pix[i] = background.A
		}
	}

	zbuffer := make([]float64, dim*dim)
	for i := range zbuffer {
		zbuffer[i] = 1e18
	}

	cam := newCamera(m.Bounds)
	light := cam.viewDirection()
	w, h := float64(dim), float64(dim)

	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)

		// Headlight shading from the winding-order normal. Backfaces
		// get a dim floor instead of being culled, so inside-out
		// exports still produce a silhouette.
		intensity := tri.Normal.Dot(light)
		if intensity < 0.15 {
			intensity = 0.15
		}

		col := color.RGBA{
			R: uint8(baseColor[0] * intensity * 255),
			G: uint8(baseColor[1] * intensity * 255),
			B: uint8(baseColor[2] * intensity * 255),
			A: 255,
		}

		var projected [3]vertex2
		for j := 0; j < 3; j++ {
			x, y, z := cam.project(m.Vertex(int(m.Indices[i*3+j])), w, h)
			projected[j] = vertex2{x: x, y: y, z: z}
		}
		fillTriangle(img, zbuffer, projected, col)
	}

	if supersample > 1 {
		return imaging.Resize(img, r.size, r.size, imaging.Lanczos), nil
	}
	return img, nil
}

// RenderToFile renders the mesh and writes it as a PNG.
func (r *Renderer) RenderToFile(m *mesh.ParsedMesh, path string) error {
	img, err := r.Render(m)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("thumbnail save %s: %w", path, err)
	}
	return nil
}
