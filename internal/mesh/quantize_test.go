package mesh

import (
	"math"
	"testing"
)

func TestQuantizeRoundTrip(t *testing.T) {
	tris := []stlTriangle{
		{verts: [3][3]float32{{-3.5, 0.25, 10}, {7.125, -2, 0.01}, {0, 4.75, -8.5}}},
		{verts: [3][3]float32{{1.1, 2.2, 3.3}, {-3.5, 0.25, 10}, {5, 5, 5}}},
	}
	data := encodeBinarySTL(tris, -1)

	native, err := Decode("part.stl", data, Options{Precision: PrecisionNative})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	quantized := Quantize(native)
	if quantized.Precision != PrecisionQuantized {
		t.Fatal("expected quantized precision")
	}
	restored := Dequantize(quantized)

	eps := QuantEpsilon(native.Bounds.MaxExtent())
	for i := 0; i < native.VertexCount(); i++ {
		a := native.Vertex(i)
		b := restored.Vertex(i)
		if math.Abs(a.X-b.X) > eps || math.Abs(a.Y-b.Y) > eps || math.Abs(a.Z-b.Z) > eps {
			t.Errorf("vertex %d drifted beyond epsilon %g: %+v vs %+v", i, eps, a, b)
		}
	}
}

func TestDecodeQuantizedMode(t *testing.T) {
	data := encodeBinarySTL([]stlTriangle{unitTriangle(0)}, -1)

	m, err := Decode("part.stl", data, Options{Precision: PrecisionQuantized})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m.Precision != PrecisionQuantized {
		t.Fatal("expected quantized mesh")
	}
	if len(m.QVertices) == 0 || len(m.Vertices) != 0 {
		t.Error("quantized mesh should populate QVertices only")
	}

	// Vertex accessor must dequantize transparently.
	eps := QuantEpsilon(m.Bounds.MaxExtent())
	v := m.Vertex(int(m.Indices[1]))
	if math.Abs(v.X-1) > eps {
		t.Errorf("dequantized vertex drifted: %+v", v)
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	data := encodeBinarySTL([]stlTriangle{unitTriangle(0)}, -1)
	m, err := Decode("part.stl", data, Options{Precision: PrecisionQuantized})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if Quantize(m) != m {
		t.Error("quantizing a quantized mesh should be a no-op")
	}
	n := Dequantize(m)
	if Dequantize(n) != n {
		t.Error("dequantizing a native mesh should be a no-op")
	}
}

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		input    string
		expected Precision
		wantErr  bool
	}{
		{"native", PrecisionNative, false},
		{"", PrecisionNative, false},
		{"Quantized", PrecisionQuantized, false},
		{"int", PrecisionQuantized, false},
		{"float64", PrecisionNative, true},
	}
	for _, tt := range tests {
		p, err := ParsePrecision(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected an error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if p != tt.expected {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.expected, p)
		}
	}
}
