package mesh

import "math"

// quantSteps is the number of integer steps across the largest
// bounding-box axis. Coordinates round-trip within half a step.
const quantSteps = math.MaxUint16

// Quantize converts a native-precision mesh to integer-quantized
// coordinates. The step size is derived from the bounding box extent,
// so the epsilon scales with the model, not with absolute units.
func Quantize(m *ParsedMesh) *ParsedMesh {
	if m.Precision == PrecisionQuantized {
		return m
	}

	extent := m.Bounds.MaxExtent()
	step := extent / quantSteps
	if step <= 0 {
		step = 1 // degenerate single-point mesh
	}
	origin := m.Bounds.Min

	q := make([]uint16, len(m.Vertices))
	for i := 0; i < len(m.Vertices); i += 3 {
		q[i] = quantizeCoord(float64(m.Vertices[i]), origin.X, step)
		q[i+1] = quantizeCoord(float64(m.Vertices[i+1]), origin.Y, step)
		q[i+2] = quantizeCoord(float64(m.Vertices[i+2]), origin.Z, step)
	}

	return &ParsedMesh{
		QVertices:   q,
		Indices:     m.Indices,
		QuantOrigin: origin,
		QuantStep:   step,
		Bounds:      m.Bounds,
		Format:      m.Format,
		Precision:   PrecisionQuantized,
		Warnings:    m.Warnings,
	}
}

// Dequantize converts a quantized mesh back to native floats.
func Dequantize(m *ParsedMesh) *ParsedMesh {
	if m.Precision == PrecisionNative {
		return m
	}

	v := make([]float32, len(m.QVertices))
	for i := 0; i < len(m.QVertices); i += 3 {
		v[i] = float32(m.QuantOrigin.X + float64(m.QVertices[i])*m.QuantStep)
		v[i+1] = float32(m.QuantOrigin.Y + float64(m.QVertices[i+1])*m.QuantStep)
		v[i+2] = float32(m.QuantOrigin.Z + float64(m.QVertices[i+2])*m.QuantStep)
	}

	return &ParsedMesh{
		Vertices:  v,
		Indices:   m.Indices,
		Bounds:    m.Bounds,
		Format:    m.Format,
		Precision: PrecisionNative,
		Warnings:  m.Warnings,
	}
}

// QuantEpsilon returns the maximum coordinate error introduced by
// quantizing a mesh with the given bounding box extent.
func QuantEpsilon(extent float64) float64 {
	if extent <= 0 {
		return 0.5
	}
	return extent / quantSteps / 2
}

func quantizeCoord(v, origin, step float64) uint16 {
	s := math.Round((v - origin) / step)
	if s < 0 {
		s = 0
	}
	if s > quantSteps {
		s = quantSteps
	}
	return uint16(s)
}
