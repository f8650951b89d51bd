package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the number of hex characters recorded for output files.
const HexLen = 16

// Digest hashes a stream as it is written, so the encoder can tee its
// output through it without reading the file back.
type Digest struct {
	h *xxhash.Digest
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{h: xxhash.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Hex returns the xxHash64 of everything written so far, truncated to hexLen.
func (d *Digest) Hex(hexLen int) string {
	return format(d.h.Sum64(), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	d := New()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return d.Hex(hexLen), nil
}

// FileHash hashes the file at path.
func FileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ContentHashReader(f, hexLen)
}

// format renders sum as big-endian hex, cut to hexLen characters when
// 0 < hexLen < 16.
func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
