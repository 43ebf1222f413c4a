// Package analysis derives the measurement record persisted alongside
// each imported model.
package analysis

import (
	"math"

	"github.com/meshvault/meshvault/internal/geometry"
	"github.com/meshvault/meshvault/internal/mesh"
)

// Measurements summarizes the geometry of a decoded mesh.
type Measurements struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Measure walks every triangle once, accumulating surface area and
// edge statistics. Volume is the bounding-box volume.
func Measure(m *mesh.ParsedMesh) *Measurements {
	result := &Measurements{
		BoundingBox:   m.Bounds,
		TriangleCount: m.TriangleCount(),
		VertexCount:   m.VertexCount(),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	edges := 0

	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		result.SurfaceArea += tri.Area()

		for _, length := range tri.EdgeLengths() {
			edges++
			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.EdgeCount = edges
	if edges > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(edges)
	}
	return result
}
