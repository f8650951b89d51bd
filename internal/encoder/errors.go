package encoder

import "fmt"

// ErrorKind classifies an EncodeError.
type ErrorKind int

const (
	// IOError means the destination could not be created, closed or renamed.
	IOError ErrorKind = iota
	// LibraryError means the image header was invalid or writing the
	// encoded stream failed.
	LibraryError
)

func (k ErrorKind) String() string {
	switch k {
	case IOError:
		return "io"
	case LibraryError:
		return "library"
	default:
		return "unknown"
	}
}

// EncodeError is returned when an output image cannot be written.
type EncodeError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encode (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("encode %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
