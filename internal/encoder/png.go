package encoder

import (
	"bufio"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/AnyUserName/svg2png-cli/internal/pixel"
	"github.com/AnyUserName/svg2png-cli/internal/raster"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// GrayscaleKey is the tEXt keyword marking white-shape icons.
const GrayscaleKey = "Grayscale"

// PNG colour types.
const (
	colorGray = 0
	colorRGB  = 2
	colorRGBA = 6
)

// Row filter types.
const (
	ftNone = iota
	ftSub
	ftUp
	ftAverage
	ftPaeth
	nFilter
)

// idatSize caps the payload of a single IDAT chunk.
const idatSize = 1 << 15

// PNGEncoder writes 8-bit, non-interlaced PNG files. Pixel rows are taken
// from the premultiplied buffer and converted by the encoder's
// RowTransform while the stream is written, so no converted copy of the
// whole image is kept.
type PNGEncoder struct {
	format    string
	colorType byte
	channels  int
	transform RowTransform
}

// NewRGBA returns the default encoder: straight-alpha RGBA.
func NewRGBA() *PNGEncoder {
	return &PNGEncoder{format: "rgba", colorType: colorRGBA, channels: 4, transform: pixel.UnpremultiplyRow}
}

// NewRGB returns an encoder writing opaque RGB over black.
func NewRGB() *PNGEncoder {
	return &PNGEncoder{format: "rgb", colorType: colorRGB, channels: 3, transform: pixel.RGBRow}
}

// NewGrayscale returns an encoder writing 8-bit luma over black.
func NewGrayscale() *PNGEncoder {
	return &PNGEncoder{format: "grayscale", colorType: colorGray, channels: 1, transform: pixel.GrayRow}
}

func (e *PNGEncoder) Format() string    { return e.format }
func (e *PNGEncoder) Extension() string { return "png" }

// Encode writes buf as a PNG stream. Every failure is reported as an
// *EncodeError of kind LibraryError.
func (e *PNGEncoder) Encode(w io.Writer, buf *raster.Buffer, meta Meta) error {
	if err := checkBuffer(buf); err != nil {
		return &EncodeError{Kind: LibraryError, Err: err}
	}

	cw := &chunkWriter{w: w}
	cw.writeRaw([]byte(pngSignature))
	cw.writeIHDR(buf.W, buf.H, e.colorType)
	if meta.Grayscale {
		cw.writeChunk([]byte(GrayscaleKey+"\x00true"), "tEXt")
	}
	if cw.err == nil {
		if err := e.writeImage(cw, buf); err != nil && cw.err == nil {
			cw.err = err
		}
	}
	cw.writeChunk(nil, "IEND")

	if cw.err != nil {
		return &EncodeError{Kind: LibraryError, Err: cw.err}
	}
	return nil
}

func checkBuffer(buf *raster.Buffer) error {
	if buf == nil {
		return errors.New("nil buffer")
	}
	if buf.W <= 0 || buf.H <= 0 || buf.W > math.MaxInt32 || buf.H > math.MaxInt32 {
		return fmt.Errorf("invalid image size %dx%d", buf.W, buf.H)
	}
	if buf.Stride < 4*buf.W {
		return fmt.Errorf("stride %d too short for width %d", buf.Stride, buf.W)
	}
	if need := buf.Stride*(buf.H-1) + 4*buf.W; len(buf.Pix) < need {
		return fmt.Errorf("pixel data too short: %d < %d bytes", len(buf.Pix), need)
	}
	return nil
}

// writeImage filters and compresses all rows into IDAT chunks.
func (e *PNGEncoder) writeImage(cw *chunkWriter, buf *raster.Buffer) error {
	bw := bufio.NewWriterSize(idatWriter{cw}, idatSize)
	zw, err := zlib.NewWriterLevel(bw, zlib.DefaultCompression)
	if err != nil {
		return err
	}

	n := buf.W * e.channels
	// cr[ft] is the current row under filter ft, led by the filter type
	// byte. cr[0] holds the unfiltered row; pr is the previous one.
	var cr [nFilter][]byte
	for i := range cr {
		cr[i] = make([]byte, 1+n)
		cr[i][0] = byte(i)
	}
	pr := make([]byte, 1+n)

	for y := 0; y < buf.H; y++ {
		e.transform(cr[0][1:], buf.Row(y))
		f := filter(&cr, pr, e.channels)
		if _, err := zw.Write(cr[f]); err != nil {
			return err
		}
		pr, cr[0] = cr[0], pr
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

// filter fills cr[1:] with the row in cr[0] under each filter type and
// returns the type with the smallest sum of absolute signed bytes.
// filter, abs8 and paeth are adapted from the Go standard library's
// image/png writer. Copyright 2009 The Go Authors, BSD-style license.
func filter(cr *[nFilter][]byte, pr []byte, bpp int) int {
	cur := cr[0][1:]
	sub := cr[ftSub][1:]
	up := cr[ftUp][1:]
	avg := cr[ftAverage][1:]
	pth := cr[ftPaeth][1:]
	prev := pr[1:]
	n := len(cur)

	sum := 0
	for i := 0; i < n; i++ {
		up[i] = cur[i] - prev[i]
		sum += abs8(up[i])
	}
	best, bestSum := ftUp, sum

	sum = 0
	for i := 0; i < bpp; i++ {
		pth[i] = cur[i] - prev[i]
		sum += abs8(pth[i])
	}
	for i := bpp; i < n && sum < bestSum; i++ {
		pth[i] = cur[i] - paeth(cur[i-bpp], prev[i], prev[i-bpp])
		sum += abs8(pth[i])
	}
	if sum < bestSum {
		best, bestSum = ftPaeth, sum
	}

	sum = 0
	for i := 0; i < n && sum < bestSum; i++ {
		sum += abs8(cur[i])
	}
	if sum < bestSum {
		best, bestSum = ftNone, sum
	}

	sum = 0
	for i := 0; i < bpp; i++ {
		sub[i] = cur[i]
		sum += abs8(sub[i])
	}
	for i := bpp; i < n && sum < bestSum; i++ {
		sub[i] = cur[i] - cur[i-bpp]
		sum += abs8(sub[i])
	}
	if sum < bestSum {
		best, bestSum = ftSub, sum
	}

	sum = 0
	for i := 0; i < bpp; i++ {
		avg[i] = cur[i] - prev[i]/2
		sum += abs8(avg[i])
	}
	for i := bpp; i < n && sum < bestSum; i++ {
		avg[i] = cur[i] - byte((int(cur[i-bpp])+int(prev[i]))/2)
		sum += abs8(avg[i])
	}
	if sum < bestSum {
		best = ftAverage
	}

	return best
}

func abs8(d byte) int {
	if d < 128 {
		return int(d)
	}
	return 256 - int(d)
}

// paeth returns whichever of a (left), b (up) or c (up-left) is closest
// to a + b - c.
func paeth(a, b, c byte) byte {
	pa := int(b) - int(c)
	pb := int(a) - int(c)
	pc := pa + pb
	if pa < 0 {
		pa = -pa
	}
	if pb < 0 {
		pb = -pb
	}
	if pc < 0 {
		pc = -pc
	}
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// chunkWriter writes PNG chunks and keeps the first error.
type chunkWriter struct {
	w   io.Writer
	err error
}

func (c *chunkWriter) writeRaw(b []byte) {
	if c.err != nil {
		return
	}
	_, c.err = c.w.Write(b)
}

func (c *chunkWriter) writeIHDR(w, h int, colorType byte) {
	var b [13]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(w))
	binary.BigEndian.PutUint32(b[4:8], uint32(h))
	b[8] = 8 // bit depth
	b[9] = colorType
	b[10] = 0 // deflate
	b[11] = 0 // adaptive filtering
	b[12] = 0 // no interlace
	c.writeChunk(b[:], "IHDR")
}

func (c *chunkWriter) writeChunk(data []byte, name string) {
	if c.err != nil {
		return
	}
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], name)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())

	c.writeRaw(hdr[:])
	c.writeRaw(data)
	c.writeRaw(tail[:])
}

// idatWriter turns each Write into one IDAT chunk.
type idatWriter struct {
	c *chunkWriter
}

func (w idatWriter) Write(b []byte) (int, error) {
	w.c.writeChunk(b, "IDAT")
	if w.c.err != nil {
		return 0, w.c.err
	}
	return len(b), nil
}
