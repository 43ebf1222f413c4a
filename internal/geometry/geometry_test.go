package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vectorsAlmostEqual(a, b Vector3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, 5, 6)

	if got := a.Add(b); !vectorsAlmostEqual(got, NewVector3(5, 7, 9)) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); !vectorsAlmostEqual(got, NewVector3(3, 3, 3)) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); !vectorsAlmostEqual(got, NewVector3(2, 4, 6)) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 32) {
		t.Errorf("Dot: got %v, expected 32", got)
	}
}

func TestVector3Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector3
		expected Vector3
	}{
		{"x cross y", NewVector3(1, 0, 0), NewVector3(0, 1, 0), NewVector3(0, 0, 1)},
		{"y cross z", NewVector3(0, 1, 0), NewVector3(0, 0, 1), NewVector3(1, 0, 0)},
		{"parallel", NewVector3(2, 0, 0), NewVector3(5, 0, 0), NewVector3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !vectorsAlmostEqual(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector3LengthAndDistance(t *testing.T) {
	v := NewVector3(3, 4, 0)
	if got := v.Length(); !almostEqual(got, 5) {
		t.Errorf("Length: got %v, expected 5", got)
	}
	if got := NewVector3(1, 1, 1).Distance(NewVector3(4, 5, 1)); !almostEqual(got, 5) {
		t.Errorf("Distance: got %v, expected 5", got)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(0, 3, 4).Normalize()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("normalized length: got %v", v.Length())
	}
	if !vectorsAlmostEqual(v, NewVector3(0, 0.6, 0.8)) {
		t.Errorf("direction: got %v", v)
	}

	// The zero vector stays zero instead of producing NaN.
	zero := Vector3{}.Normalize()
	if !vectorsAlmostEqual(zero, Vector3{}) {
		t.Errorf("zero vector normalized to %v", zero)
	}
}

func TestVector3MinMax(t *testing.T) {
	a := NewVector3(1, 5, -2)
	b := NewVector3(3, 2, -7)

	if got := a.Min(b); !vectorsAlmostEqual(got, NewVector3(1, 2, -7)) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(b); !vectorsAlmostEqual(got, NewVector3(3, 5, -2)) {
		t.Errorf("Max: got %v", got)
	}
}

func TestBoundingBoxExtend(t *testing.T) {
	box := NewBoundingBox()
	if !box.IsEmpty() {
		t.Fatal("fresh bounding box should be empty")
	}

	box.Extend(NewVector3(1, 2, 3))
	box.Extend(NewVector3(-1, 4, 0))

	if box.IsEmpty() {
		t.Error("extended box should not be empty")
	}
	if !vectorsAlmostEqual(box.Min, NewVector3(-1, 2, 0)) {
		t.Errorf("Min: got %v", box.Min)
	}
	if !vectorsAlmostEqual(box.Max, NewVector3(1, 4, 3)) {
		t.Errorf("Max: got %v", box.Max)
	}
}

func TestBoundingBoxDerivedMetrics(t *testing.T) {
	box := NewBoundingBox()
	box.Extend(NewVector3(0, 0, 0))
	box.Extend(NewVector3(2, 3, 6))

	if got := box.Size(); !vectorsAlmostEqual(got, NewVector3(2, 3, 6)) {
		t.Errorf("Size: got %v", got)
	}
	if got := box.Center(); !vectorsAlmostEqual(got, NewVector3(1, 1.5, 3)) {
		t.Errorf("Center: got %v", got)
	}
	if got := box.Diagonal(); !almostEqual(got, 7) {
		t.Errorf("Diagonal: got %v, expected 7", got)
	}
	if got := box.MaxExtent(); !almostEqual(got, 6) {
		t.Errorf("MaxExtent: got %v, expected 6", got)
	}
	if got := box.Volume(); !almostEqual(got, 36) {
		t.Errorf("Volume: got %v, expected 36", got)
	}
}

func TestTriangleArea(t *testing.T) {
	tests := []struct {
		name     string
		tri      Triangle
		expected float64
	}{
		{
			"right triangle 3-4-5",
			NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 4, 0)),
			6,
		},
		{
			"unit triangle",
			NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(0, 1, 0)),
			0.5,
		},
		{
			"degenerate",
			NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(1, 1, 1), NewVector3(2, 2, 2)),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tri.Area(); !almostEqual(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTriangleFaceNormal(t *testing.T) {
	tri := NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(0, 1, 0))
	if got := tri.FaceNormal(); !vectorsAlmostEqual(got, NewVector3(0, 0, 1)) {
		t.Errorf("counter-clockwise winding: got %v, expected +Z", got)
	}

	flipped := NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(0, 1, 0), NewVector3(1, 0, 0))
	if got := flipped.FaceNormal(); !vectorsAlmostEqual(got, NewVector3(0, 0, -1)) {
		t.Errorf("clockwise winding: got %v, expected -Z", got)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	tri := NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 4, 0))
	edges := tri.EdgeLengths()

	expected := [3]float64{3, 5, 4}
	for i := range edges {
		if !almostEqual(edges[i], expected[i]) {
			t.Errorf("edge %d: got %v, expected %v", i, edges[i], expected[i])
		}
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 3, 3))
	if got := tri.Center(); !vectorsAlmostEqual(got, NewVector3(1, 1, 1)) {
		t.Errorf("got %v, expected (1,1,1)", got)
	}
}
