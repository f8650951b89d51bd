package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoSources is returned by Run when the source directory holds no SVG
// files or cannot be listed. It is not a failure.
var ErrNoSources = errors.New("no SVG files found")

// SourceReadError means the intrinsic size of a source could not be read.
// The file is skipped.
type SourceReadError struct {
	File string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.File, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// RenderError means the rasterizer could not produce pixels for a source.
type RenderError struct {
	File string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.File, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DuplicateError means another source already produces the same output
// file. The later source is not converted.
type DuplicateError struct {
	File  string
	Other string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s has the same output name as %s, not converted", e.File, e.Other)
}

// DirectoryError means the target directory could not be created or the
// source directory could not be watched. No output is possible.
type DirectoryError struct {
	Op  string // "create" or "watch"
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s directory %s: %v", e.Op, e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }
