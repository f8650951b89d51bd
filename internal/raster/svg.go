package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrInvalidSize is returned by Source.Size when the document declares no
// usable width and height.
var ErrInvalidSize = errors.New("invalid default size")

// SVG rasterizes SVG documents with oksvg and rasterx.
type SVG struct{}

// NewSVG returns the default rasterizer.
func NewSVG() *SVG { return &SVG{} }

// Open reads and parses the SVG file at path.
func (r *SVG) Open(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSVG(data)
}

// ParseSVG parses an in-memory SVG document.
func ParseSVG(data []byte) (Source, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w, h := rootSize(data)
	if w <= 0 || h <= 0 {
		w, h = icon.ViewBox.W, icon.ViewBox.H
	}
	return &svgSource{icon: icon, w: w, h: h}, nil
}

type svgSource struct {
	icon *oksvg.SvgIcon
	w, h float64
}

func (s *svgSource) Size() (int, int, error) {
	w := int(math.Round(s.w))
	h := int(math.Round(s.h))
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %vx%v", ErrInvalidSize, s.w, s.h)
	}
	return w, h, nil
}

func (s *svgSource) Render(w, h int) (buf *Buffer, err error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid target size %dx%d", w, h)
	}
	// oksvg panics on some malformed path data.
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("render: %v", r)
		}
	}()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	s.icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	s.icon.Draw(dasher, 1.0)
	return FromRGBA(img), nil
}

// rootSize reads the width and height attributes of the root <svg>
// element. Lengths with units other than px are ignored so the caller
// falls back to the viewBox.
func rootSize(data []byte) (w, h float64) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	for {
		tok, err := d.Token()
		if err != nil {
			return 0, 0
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return 0, 0
		}
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "width":
				w = parseLength(a.Value)
			case "height":
				h = parseLength(a.Value)
			}
		}
		return w, h
	}
}

func parseLength(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}
