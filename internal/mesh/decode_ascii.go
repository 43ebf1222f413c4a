package mesh

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// decodeASCII decodes the text STL grammar: "solid" / "facet normal" /
// "vertex" x3 / "endfacet" / "endsolid". Malformed coordinate lines are
// decode errors; a missing endsolid is tolerated with a warning.
func decodeASCII(data []byte) (*ParsedMesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	b := newMeshBuilder(len(data) / 256)
	var verts [][3]float32
	var badNormals int
	closed := false

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, NewDecodeError(KindTruncatedOrCorrupt,
					"malformed facet declaration at line %d", lineNo)
			}
			nx, ex := strconv.ParseFloat(fields[2], 32)
			ny, ey := strconv.ParseFloat(fields[3], 32)
			nz, ez := strconv.ParseFloat(fields[4], 32)
			if ex != nil || ey != nil || ez != nil {
				return nil, NewDecodeError(KindTruncatedOrCorrupt,
					"unparseable facet normal at line %d", lineNo)
			}
			if nx == 0 && ny == 0 && nz == 0 {
				badNormals++
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, NewDecodeError(KindTruncatedOrCorrupt,
					"vertex with fewer than 3 coordinates at line %d", lineNo)
			}
			var v [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, WrapDecodeError(KindTruncatedOrCorrupt, err,
						"unparseable vertex coordinate at line %d", lineNo)
				}
				v[i] = float32(f)
			}
			verts = append(verts, v)

		case "endfacet":
			if len(verts) != 3 {
				return nil, NewDecodeError(KindTruncatedOrCorrupt,
					"facet ending at line %d has %d vertices", lineNo, len(verts))
			}
			b.addTriangle(verts[0], verts[1], verts[2])
			verts = verts[:0]

		case "endsolid":
			closed = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapDecodeError(KindTruncatedOrCorrupt, err, "reading text geometry")
	}
	if len(verts) != 0 {
		return nil, NewDecodeError(KindTruncatedOrCorrupt,
			"file ends inside a facet with %d vertices", len(verts))
	}

	m := b.build(FormatASCIISTL)
	if m.TriangleCount() == 0 {
		return nil, NewDecodeError(KindEmptyMesh, "solid contains no facets")
	}
	if !closed {
		m.addWarning("missing endsolid terminator")
	}
	if badNormals > 0 {
		m.addWarning("%d facets have zero normals, using winding order", badNormals)
	}
	return m, nil
}
