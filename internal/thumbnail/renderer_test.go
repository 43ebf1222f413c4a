package thumbnail

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/meshvault/meshvault/internal/geometry"
	"github.com/meshvault/meshvault/internal/mesh"
)

// pyramidMesh builds a small square-based pyramid.
func pyramidMesh() *mesh.ParsedMesh {
	return &mesh.ParsedMesh{
		Vertices: []float32{
			-1, 0, -1,
			1, 0, -1,
			1, 0, 1,
			-1, 0, 1,
			0, 1.5, 0,
		},
		Indices: []uint32{
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
			3, 0, 4,
			0, 2, 1,
			0, 3, 2,
		},
		Bounds: geometry.BoundingBox{
			Min: geometry.NewVector3(-1, 0, -1),
			Max: geometry.NewVector3(1, 1.5, 1),
		},
		Format: mesh.FormatBinarySTL,
	}
}

func TestRenderProducesGeometryPixels(t *testing.T) {
	r := NewRenderer(64)
	img, err := r.Render(pyramidMesh())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Fatalf("size: expected 64x64, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Some pixels must differ from the background.
	painted := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c != background {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("render produced only background pixels")
	}
}

func TestRenderEmptyMesh(t *testing.T) {
	r := NewRenderer(64)

	if _, err := r.Render(nil); err == nil {
		t.Error("expected an error for a nil mesh")
	}
	if _, err := r.Render(&mesh.ParsedMesh{}); err == nil {
		t.Error("expected an error for an empty mesh")
	}
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	r := NewRenderer(32)

	if err := r.RenderToFile(pyramidMesh(), path); err != nil {
		t.Fatalf("render to file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat thumbnail: %v", err)
	}
	if info.Size() == 0 {
		t.Error("thumbnail file is empty")
	}
}
