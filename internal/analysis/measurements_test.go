package analysis

import (
	"math"
	"testing"

	"github.com/meshvault/meshvault/internal/geometry"
	"github.com/meshvault/meshvault/internal/mesh"
)

// rightTriangleMesh builds a single 3-4-5 right triangle in the XY plane.
func rightTriangleMesh() *mesh.ParsedMesh {
	return &mesh.ParsedMesh{
		Vertices: []float32{
			0, 0, 0,
			3, 0, 0,
			0, 4, 0,
		},
		Indices: []uint32{0, 1, 2},
		Bounds: geometry.BoundingBox{
			Min: geometry.NewVector3(0, 0, 0),
			Max: geometry.NewVector3(3, 4, 0),
		},
		Format: mesh.FormatBinarySTL,
	}
}

func TestMeasureSurfaceArea(t *testing.T) {
	result := Measure(rightTriangleMesh())

	if math.Abs(result.SurfaceArea-6.0) > 1e-9 {
		t.Errorf("surface area: expected 6, got %v", result.SurfaceArea)
	}
	if result.TriangleCount != 1 {
		t.Errorf("triangle count: expected 1, got %d", result.TriangleCount)
	}
	if result.VertexCount != 3 {
		t.Errorf("vertex count: expected 3, got %d", result.VertexCount)
	}
}

func TestMeasureEdgeStatistics(t *testing.T) {
	result := Measure(rightTriangleMesh())

	if result.EdgeCount != 3 {
		t.Fatalf("edge count: expected 3, got %d", result.EdgeCount)
	}
	if math.Abs(result.MinEdgeLength-3.0) > 1e-9 {
		t.Errorf("min edge: expected 3, got %v", result.MinEdgeLength)
	}
	if math.Abs(result.MaxEdgeLength-5.0) > 1e-9 {
		t.Errorf("max edge: expected 5, got %v", result.MaxEdgeLength)
	}
	if math.Abs(result.AvgEdgeLength-4.0) > 1e-9 {
		t.Errorf("avg edge: expected 4, got %v", result.AvgEdgeLength)
	}
}

func TestMeasureDimensions(t *testing.T) {
	result := Measure(rightTriangleMesh())

	if result.Dimensions.X != 3 || result.Dimensions.Y != 4 || result.Dimensions.Z != 0 {
		t.Errorf("dimensions wrong: %+v", result.Dimensions)
	}
	if result.Volume != 0 {
		t.Errorf("flat mesh volume: expected 0, got %v", result.Volume)
	}
}
