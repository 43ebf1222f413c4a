package mesh

import (
	"fmt"
	"strings"

	"github.com/meshvault/meshvault/internal/geometry"
)

// Format identifies which decoder produced a mesh.
type Format string

const (
	FormatBinarySTL Format = "stl-binary"
	FormatASCIISTL  Format = "stl-ascii"
)

// Precision selects the numeric representation of the vertex buffer.
type Precision int

const (
	// PrecisionNative keeps coordinates as 32-bit floats, lossless
	// with respect to the source file.
	PrecisionNative Precision = iota
	// PrecisionQuantized stores coordinates as 16-bit integer steps
	// scaled from the bounding box extent.
	PrecisionQuantized
)

func (p Precision) String() string {
	if p == PrecisionQuantized {
		return "quantized"
	}
	return "native"
}

// ParsePrecision parses a user-facing precision mode name
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "float":
		return PrecisionNative, nil
	case "quantized", "quant", "int":
		return PrecisionQuantized, nil
	default:
		return PrecisionNative, fmt.Errorf("unknown precision mode %q", s)
	}
}

// Options are decode-time parameters, not properties of the file.
type Options struct {
	Precision Precision
}

// ParsedMesh is the output of a decoder: a flat vertex buffer plus
// index triples, with the bounding box computed during decode.
// Vertices are deduplicated, so VertexCount is at most 3*TriangleCount.
// Exactly one of Vertices / QVertices is populated, per Precision.
type ParsedMesh struct {
	Vertices  []float32 // x,y,z per vertex, native mode
	QVertices []uint16  // quantized steps from QuantOrigin, quantized mode
	Indices   []uint32  // three per triangle

	QuantOrigin geometry.Vector3
	QuantStep   float64 // model units per integer step

	Bounds    geometry.BoundingBox
	Format    Format
	Precision Precision
	Warnings  []string
}

// VertexCount returns the number of distinct vertices
func (m *ParsedMesh) VertexCount() int {
	if m.Precision == PrecisionQuantized {
		return len(m.QVertices) / 3
	}
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles
func (m *ParsedMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns vertex i in model space, dequantizing if needed
func (m *ParsedMesh) Vertex(i int) geometry.Vector3 {
	if m.Precision == PrecisionQuantized {
		return geometry.Vector3{
			X: m.QuantOrigin.X + float64(m.QVertices[i*3])*m.QuantStep,
			Y: m.QuantOrigin.Y + float64(m.QVertices[i*3+1])*m.QuantStep,
			Z: m.QuantOrigin.Z + float64(m.QVertices[i*3+2])*m.QuantStep,
		}
	}
	return geometry.Vector3{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// Triangle returns triangle i with its normal derived from winding
func (m *ParsedMesh) Triangle(i int) geometry.Triangle {
	v1 := m.Vertex(int(m.Indices[i*3]))
	v2 := m.Vertex(int(m.Indices[i*3+1]))
	v3 := m.Vertex(int(m.Indices[i*3+2]))
	tri := geometry.Triangle{V1: v1, V2: v2, V3: v3}
	tri.Normal = tri.FaceNormal()
	return tri
}

// Validate checks the structural invariants of the mesh: every index
// references an existing vertex and the index buffer holds whole triples.
func (m *ParsedMesh) Validate() error {
	if m.TriangleCount() == 0 {
		return NewDecodeError(KindEmptyMesh, "mesh has no triangles")
	}
	if len(m.Indices)%3 != 0 {
		return NewDecodeError(KindTriangleCountMismatch,
			"index buffer holds %d entries, not a multiple of 3", len(m.Indices))
	}
	vcount := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= vcount {
			return NewDecodeError(KindTruncatedOrCorrupt,
				"index %d out of range for %d vertices", idx, vcount)
		}
	}
	return nil
}

// addWarning appends a decode warning, keeping the list bounded
func (m *ParsedMesh) addWarning(format string, args ...interface{}) {
	if len(m.Warnings) >= 16 {
		return
	}
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}
