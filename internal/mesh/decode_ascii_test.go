package mesh

import (
	"strings"
	"testing"
)

const asciiCube = `solid cube
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 1 1 0
    vertex 1 0 0
  endloop
endfacet
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 0 1 0
    vertex 1 1 0
  endloop
endfacet
endsolid cube
`

func TestDecodeASCII(t *testing.T) {
	m, err := Decode("plate.stl", []byte(asciiCube), Options{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if m.Format != FormatASCIISTL {
		t.Errorf("format: expected %s, got %s", FormatASCIISTL, m.Format)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangle count: expected 2, got %d", m.TriangleCount())
	}
	// 6 raw vertices, 4 distinct after dedup.
	if m.VertexCount() != 4 {
		t.Errorf("vertex count: expected 4, got %d", m.VertexCount())
	}
}

func TestDecodeASCIIMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind ErrorKind
	}{
		{
			"bad vertex coordinate",
			"solid x\nfacet normal 0 0 1\nvertex 0 0 nope\n",
			KindTruncatedOrCorrupt,
		},
		{
			"facet with two vertices",
			"solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nendfacet\nendsolid x\n",
			KindTruncatedOrCorrupt,
		},
		{
			"cut off mid facet",
			"solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\n",
			KindTruncatedOrCorrupt,
		},
		{
			"no facets at all",
			"solid x\nendsolid x\n",
			KindEmptyMesh,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bad.stl", []byte(tt.body), Options{})
			if !IsKind(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestDecodeASCIIMissingTerminator(t *testing.T) {
	body := strings.Replace(asciiCube, "endsolid cube\n", "", 1)
	m, err := Decode("open.stl", []byte(body), Options{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(m.Warnings) == 0 {
		t.Error("expected a warning for the missing endsolid")
	}
}

func TestDetectFormat(t *testing.T) {
	binData := encodeBinarySTL([]stlTriangle{unitTriangle(0)}, -1)

	tests := []struct {
		name     string
		path     string
		data     []byte
		expected Format
		wantErr  bool
	}{
		{"ascii solid", "a.stl", []byte(asciiCube), FormatASCIISTL, false},
		{"binary", "b.stl", binData, FormatBinarySTL, false},
		{"binary with solid header", "c.stl", binaryWithSolidHeader(), FormatBinarySTL, false},
		{"wrong extension", "d.obj", []byte("v 0 0 0"), "", true},
		{"empty file", "e.stl", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.path, tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if format != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, format)
			}
		})
	}
}

// binaryWithSolidHeader fabricates a binary STL whose free-form header
// happens to start with "solid", which some exporters emit.
func binaryWithSolidHeader() []byte {
	data := encodeBinarySTL([]stlTriangle{unitTriangle(0)}, -1)
	copy(data, "solid exported-part")
	return data
}
