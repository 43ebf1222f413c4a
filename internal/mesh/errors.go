package mesh

import (
	"errors"
	"fmt"
)

// ErrorKind classifies decode failures at the file granularity.
type ErrorKind int

const (
	// KindTruncatedOrCorrupt marks files whose byte length or structure
	// does not match the declared geometry.
	KindTruncatedOrCorrupt ErrorKind = iota
	// KindUnsupportedFormat marks files no registered decoder accepts.
	KindUnsupportedFormat
	// KindTriangleCountMismatch marks decoded geometry that disagrees
	// with the declared triangle count.
	KindTriangleCountMismatch
	// KindEmptyMesh marks files that declare zero triangles.
	KindEmptyMesh
	// KindIoFailure marks files that could not be read at all.
	KindIoFailure
	// KindCancelled marks files abandoned by a batch cancellation.
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncatedOrCorrupt:
		return "truncated or corrupt"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindTriangleCountMismatch:
		return "triangle count mismatch"
	case KindEmptyMesh:
		return "empty mesh"
	case KindIoFailure:
		return "io failure"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DecodeError is the error type returned by every decoder variant.
type DecodeError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a decode error with a formatted detail message
func NewDecodeError(kind ErrorKind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WrapDecodeError attaches a cause to a decode error
func WrapDecodeError(kind ErrorKind, err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is a DecodeError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
