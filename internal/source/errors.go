package source

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindPermissionDenied
	KindIO
	KindDecode
)

func (kind ErrorKind) String() string {
	switch kind {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

var (
	// Returned by Next at end of file when not following
	ErrEndOfStream = errors.New("end of stream")

	ErrInvalidPosition = errors.New("invalid start position")
	ErrRecordTooLarge  = errors.New("record exceeds maximum size")
	ErrNotRegularFile  = errors.New("not a regular file")
	ErrClosed          = errors.New("source is closed")
)

// Fatal source failure with location details
type SourceError struct {
	Kind   ErrorKind
	Path   string
	Offset int64
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s error on source '%s' at offset %d: %v", e.Kind, e.Path, e.Offset, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Reports whether err is a SourceError of the given kind
func IsKind(err error, kind ErrorKind) (matches bool) {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		matches = srcErr.Kind == kind
	}
	return
}
