// Package mesh decodes 3D geometry files into an in-memory indexed
// triangle mesh. Decoders are pure functions over byte slices: no file
// or network access happens inside a decode step, so callers own all
// I/O, cancellation, and progress reporting.
package mesh

import (
	"bytes"
	"path/filepath"
	"strings"
)

// DetectFormat sniffs the decoder variant for a file. The path is only
// consulted for its extension; the decision between binary and text
// STL is made from the leading bytes.
func DetectFormat(path string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".stl" {
		return "", NewDecodeError(KindUnsupportedFormat, "no decoder registered for %q", ext)
	}
	if len(data) == 0 {
		return "", NewDecodeError(KindTruncatedOrCorrupt, "file is empty")
	}
	if looksLikeASCII(data) {
		return FormatASCIISTL, nil
	}
	return FormatBinarySTL, nil
}

// Decode turns raw file bytes into a ParsedMesh, selecting the decoder
// by sniffing and applying the requested precision mode afterwards.
func Decode(path string, data []byte, opts Options) (*ParsedMesh, error) {
	format, err := DetectFormat(path, data)
	if err != nil {
		return nil, err
	}

	var m *ParsedMesh
	switch format {
	case FormatASCIISTL:
		m, err = decodeASCII(data)
	default:
		m, err = decodeBinary(data)
	}
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if opts.Precision == PrecisionQuantized {
		m = Quantize(m)
	}
	return m, nil
}

// looksLikeASCII reports whether the leading bytes follow the text STL
// grammar. A binary file may legally start with "solid", so the check
// also requires a facet keyword near the top of the file.
func looksLikeASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > 4096 {
		probe = probe[:4096]
	}
	return bytes.Contains(probe, []byte("facet")) || bytes.Contains(probe, []byte("endsolid"))
}
