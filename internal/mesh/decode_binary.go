package mesh

import (
	"encoding/binary"
	"math"
)

const (
	binaryHeaderSize = 80
	binaryCountSize  = 4
	binaryRecordSize = 50 // 12B normal + 36B vertices + 2B attribute
)

// decodeBinary decodes the binary STL wire format: an ignored 80-byte
// header, a little-endian uint32 triangle count N, then N fixed-size
// records. The byte length must match 80 + 4 + 50*N; up to one record
// of trailing padding is tolerated.
func decodeBinary(data []byte) (*ParsedMesh, error) {
	if len(data) < binaryHeaderSize+binaryCountSize {
		return nil, NewDecodeError(KindTruncatedOrCorrupt,
			"file is %d bytes, smaller than the %d-byte binary header",
			len(data), binaryHeaderSize+binaryCountSize)
	}

	declared := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	if declared == 0 {
		return nil, NewDecodeError(KindEmptyMesh, "file declares zero triangles")
	}

	expected := int64(binaryHeaderSize+binaryCountSize) + int64(declared)*binaryRecordSize
	actual := int64(len(data))
	if actual < expected {
		return nil, NewDecodeError(KindTruncatedOrCorrupt,
			"declared %d triangles require %d bytes, file has %d",
			declared, expected, actual)
	}
	if actual >= expected+binaryRecordSize {
		return nil, NewDecodeError(KindTruncatedOrCorrupt,
			"%d trailing bytes beyond the declared %d triangles",
			actual-expected, declared)
	}

	b := newMeshBuilder(int(declared))
	var attrWarnings, zeroNormals int

	// Records are read straight off the slice; binary.Read would
	// reflect per field and this path sees tens of millions of records.
	rec := data[binaryHeaderSize+binaryCountSize:]
	for i := uint32(0); i < declared; i++ {
		off := int64(i) * binaryRecordSize

		nx := math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))
		ny := math.Float32frombits(binary.LittleEndian.Uint32(rec[off+4:]))
		nz := math.Float32frombits(binary.LittleEndian.Uint32(rec[off+8:]))
		if nx == 0 && ny == 0 && nz == 0 {
			zeroNormals++
		}

		var verts [3][3]float32
		for v := 0; v < 3; v++ {
			base := off + 12 + int64(v)*12
			verts[v][0] = math.Float32frombits(binary.LittleEndian.Uint32(rec[base:]))
			verts[v][1] = math.Float32frombits(binary.LittleEndian.Uint32(rec[base+4:]))
			verts[v][2] = math.Float32frombits(binary.LittleEndian.Uint32(rec[base+8:]))
		}
		b.addTriangle(verts[0], verts[1], verts[2])

		if attr := binary.LittleEndian.Uint16(rec[off+48:]); attr != 0 {
			attrWarnings++
		}
	}

	m := b.build(FormatBinarySTL)
	if attrWarnings > 0 {
		m.addWarning("%d triangles carry non-zero attribute words", attrWarnings)
	}
	if zeroNormals > 0 {
		m.addWarning("%d triangles have zero normals, using winding order", zeroNormals)
	}

	if uint32(m.TriangleCount()) != declared {
		return nil, NewDecodeError(KindTriangleCountMismatch,
			"decoded %d triangles, file declares %d", m.TriangleCount(), declared)
	}
	return m, nil
}
