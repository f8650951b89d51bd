package encoder

import (
	"io"
	"os"
	"path/filepath"

	"github.com/AnyUserName/svg2png-cli/internal/raster"
)

// countingWriter counts bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// WriteFile encodes buf to path. The image is written to a temporary file
// next to path and renamed into place only after a complete write, so a
// failed conversion never leaves a file under the final name. When tee is
// non-nil it receives a copy of the encoded bytes. It returns the number
// of bytes written.
func WriteFile(path string, enc Encoder, buf *raster.Buffer, meta Meta, tee io.Writer) (int64, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return 0, &EncodeError{Kind: IOError, Path: path, Err: err}
	}
	tmp := f.Name()
	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	cw := &countingWriter{w: f}
	var w io.Writer = cw
	if tee != nil {
		w = io.MultiWriter(cw, tee)
	}
	if err := enc.Encode(w, buf, meta); err != nil {
		if ee, isEnc := err.(*EncodeError); isEnc && ee.Path == "" {
			ee.Path = path
		}
		return 0, err
	}
	if err := f.Chmod(0o644); err != nil {
		return 0, &EncodeError{Kind: IOError, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &EncodeError{Kind: IOError, Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, &EncodeError{Kind: IOError, Path: path, Err: err}
	}
	ok = true
	return cw.n, nil
}
