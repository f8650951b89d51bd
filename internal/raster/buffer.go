package raster

import (
	"encoding/binary"
	"image"
)

// Buffer holds premultiplied ARGB32 pixels. Each pixel is a little-endian
// 32-bit word a<<24 | r<<16 | g<<8 | b, so the bytes in memory are b, g, r, a.
// Rows may be padded: Stride >= 4*W.
type Buffer struct {
	W, H   int
	Stride int
	Pix    []byte
}

// NewBuffer allocates a fully transparent w x h buffer with a tight stride.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{W: w, H: h, Stride: 4 * w, Pix: make([]byte, 4*w*h)}
}

// Row returns the 4*W pixel bytes of row y, without padding.
func (b *Buffer) Row(y int) []byte {
	i := y * b.Stride
	return b.Pix[i : i+4*b.W]
}

// At returns the packed ARGB word at (x, y).
func (b *Buffer) At(x, y int) uint32 {
	return binary.LittleEndian.Uint32(b.Pix[y*b.Stride+4*x:])
}

// Set stores a packed ARGB word at (x, y).
func (b *Buffer) Set(x, y int, argb uint32) {
	binary.LittleEndian.PutUint32(b.Pix[y*b.Stride+4*x:], argb)
}

// FromRGBA repacks a premultiplied image.RGBA into a Buffer.
func FromRGBA(img *image.RGBA) *Buffer {
	r := img.Bounds()
	buf := NewBuffer(r.Dx(), r.Dy())
	for y := 0; y < buf.H; y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < buf.W; x++ {
			s := src[4*x : 4*x+4 : 4*x+4]
			buf.Set(x, y, uint32(s[3])<<24|uint32(s[0])<<16|uint32(s[1])<<8|uint32(s[2]))
		}
	}
	return buf
}
