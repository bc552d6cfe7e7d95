package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrIO       = errors.New("i/o error")
	ErrParse    = errors.New("parse error")
	ErrNotFound = errors.New("not found")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	// KindIO covers unwritable destinations and unreadable sources.
	KindIO ErrorKind = "io"
	// KindParse covers malformed rows and elements.
	KindParse ErrorKind = "parse"
	// KindNotFound covers lookups of unknown formats or saves.
	KindNotFound ErrorKind = "not_found"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Line int    // Optional: 1-based line in the source file
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Line > 0 {
		base += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against the kind sentinels.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrParse:
		return e.Kind == KindParse
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// IsKind helps callers classify errors without depending on codec packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// ParseErrorf builds a KindParse error for op.
func ParseErrorf(op string, line int, format string, args ...any) error {
	return &OpError{Op: op, Kind: KindParse, Line: line, Err: fmt.Errorf(format, args...)}
}

// IOError wraps a filesystem failure for path.
func IOError(op, path string, err error) error {
	return &OpError{Op: op, Kind: KindIO, Path: path, Err: err}
}
