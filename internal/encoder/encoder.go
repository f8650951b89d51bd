package encoder

import (
	"io"

	"github.com/AnyUserName/svg2png-cli/internal/raster"
)

// RowTransform converts one row of premultiplied ARGB words (src) into
// the encoder's output channel layout (dst). len(dst) is the width times
// the number of output channels.
type RowTransform func(dst, src []byte)

// Meta carries the metadata written alongside the pixels.
type Meta struct {
	// Grayscale marks the icon as a white shape with alpha. When set, a
	// "Grayscale" text chunk with value "true" is embedded.
	Grayscale bool
}

// Encoder writes a raster buffer in one output channel format.
type Encoder interface {
	// Format returns the channel format name ("rgba", "rgb", "grayscale").
	Format() string

	// Extension returns the file extension without dot.
	Extension() string

	// Encode streams buf to w, transforming rows as they are written.
	Encode(w io.Writer, buf *raster.Buffer, meta Meta) error
}
