package mesh

import "github.com/meshvault/meshvault/internal/geometry"

// meshBuilder accumulates deduplicated vertices and index triples
// while the decoders walk the source file.
type meshBuilder struct {
	vertices []float32
	indices  []uint32
	seen     map[[3]float32]uint32
	bounds   geometry.BoundingBox
}

func newMeshBuilder(triangleHint int) *meshBuilder {
	return &meshBuilder{
		vertices: make([]float32, 0, triangleHint*9/2),
		indices:  make([]uint32, 0, triangleHint*3),
		seen:     make(map[[3]float32]uint32, triangleHint*3/2),
		bounds:   geometry.NewBoundingBox(),
	}
}

func (b *meshBuilder) vertexIndex(v [3]float32) uint32 {
	if idx, ok := b.seen[v]; ok {
		return idx
	}
	idx := uint32(len(b.vertices) / 3)
	b.vertices = append(b.vertices, v[0], v[1], v[2])
	b.seen[v] = idx
	b.bounds.Extend(geometry.Vector3{
		X: float64(v[0]),
		Y: float64(v[1]),
		Z: float64(v[2]),
	})
	return idx
}

func (b *meshBuilder) addTriangle(v1, v2, v3 [3]float32) {
	b.indices = append(b.indices, b.vertexIndex(v1), b.vertexIndex(v2), b.vertexIndex(v3))
}

func (b *meshBuilder) build(format Format) *ParsedMesh {
	return &ParsedMesh{
		Vertices:  b.vertices,
		Indices:   b.indices,
		Bounds:    b.bounds,
		Format:    format,
		Precision: PrecisionNative,
	}
}
