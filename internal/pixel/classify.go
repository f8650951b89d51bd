package pixel

import "github.com/AnyUserName/svg2png-cli/internal/raster"

// IsGrayscaleMask reports whether every pixel of buf is a white shape pixel
// with some alpha: r == g == b and the premultiplied value is either fully
// transparent or equal to alpha. Themes use this to recolour icons.
func IsGrayscaleMask(buf *raster.Buffer) bool {
	for y := 0; y < buf.H; y++ {
		row := buf.Row(y)
		for x := 0; x < len(row); x += 4 {
			b, g, r, a := row[x], row[x+1], row[x+2], row[x+3]
			if r != g || g != b {
				return false
			}
			if a != 0 && a != r {
				return false
			}
		}
	}
	return true
}
