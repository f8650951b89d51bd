// Package pixel converts premultiplied ARGB32 rows into the byte layouts
// written to PNG, and classifies rendered icons.
package pixel

import (
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
)

// Unpremultiply converts one packed premultiplied ARGB word to straight
// RGBA bytes. The divide truncates and uses the stored alpha.
func Unpremultiply(argb uint32) [4]byte {
	a := argb >> 24
	if a == 0 {
		return [4]byte{}
	}
	r := (argb >> 16) & 0xff
	g := (argb >> 8) & 0xff
	b := argb & 0xff
	return [4]byte{
		byte(r * 255 / a),
		byte(g * 255 / a),
		byte(b * 255 / a),
		byte(a),
	}
}

// UnpremultiplyRow writes len(dst)/4 straight RGBA pixels from the packed
// ARGB words in src.
func UnpremultiplyRow(dst, src []byte) {
	for x := 0; x+4 <= len(dst); x += 4 {
		p := Unpremultiply(binary.LittleEndian.Uint32(src[x:]))
		copy(dst[x:x+4:x+4], p[:])
	}
}

// RGBRow writes len(dst)/3 opaque RGB pixels: the premultiplied colour,
// which is the icon composited over black.
func RGBRow(dst, src []byte) {
	for x, i := 0, 0; i+3 <= len(dst); x, i = x+4, i+3 {
		w := binary.LittleEndian.Uint32(src[x:])
		dst[i+0] = byte(w >> 16)
		dst[i+1] = byte(w >> 8)
		dst[i+2] = byte(w)
	}
}

// GrayRow writes len(dst) luma values of the icon composited over black.
func GrayRow(dst, src []byte) {
	n := len(dst)
	if n == 0 {
		return
	}
	row := image.NewNRGBA(image.Rect(0, 0, n, 1))
	for x := 0; x < n; x++ {
		w := binary.LittleEndian.Uint32(src[4*x:])
		row.Pix[4*x+0] = byte(w >> 16)
		row.Pix[4*x+1] = byte(w >> 8)
		row.Pix[4*x+2] = byte(w)
		row.Pix[4*x+3] = 0xff
	}
	gray := imaging.Grayscale(row)
	for x := 0; x < n; x++ {
		dst[x] = gray.Pix[4*x]
	}
}
