// Package raster defines the boundary to the vector rendering engine and
// the premultiplied pixel buffer it produces.
package raster

// Rasterizer opens vector sources.
type Rasterizer interface {
	Open(path string) (Source, error)
}

// Source is an opened vector image.
type Source interface {
	// Size reports the intrinsic size before any scaling. It fails when the
	// size is missing or not positive.
	Size() (w, h int, err error)

	// Render draws the whole image scaled to w x h.
	Render(w, h int) (*Buffer, error)
}
