package raster

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

const whiteSquare = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
  <rect x="0" y="0" width="24" height="24" fill="#ffffff"/>
</svg>`

func TestParseSVG_Size(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		w, h int
	}{
		{"attributes", whiteSquare, 24, 24},
		{"px units", `<svg xmlns="http://www.w3.org/2000/svg" width="86px" height="86px" viewBox="0 0 43 43"></svg>`, 86, 86},
		{"viewBox only", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 48"></svg>`, 32, 48},
		{"unsupported unit", `<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="10mm" viewBox="0 0 64 64"></svg>`, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseSVG([]byte(tt.doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			w, h, err := src.Size()
			if err != nil {
				t.Fatalf("size: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestParseSVG_NoSize(t *testing.T) {
	src, err := ParseSVG([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	if err != nil {
		// A parse failure is also an acceptable way to reject the file.
		return
	}
	if _, _, err := src.Size(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("got %v, want ErrInvalidSize", err)
	}
}

func TestSVG_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.svg")
	if err := os.WriteFile(path, []byte(whiteSquare), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewSVG().Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	buf, err := src.Render(48, 48)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.W != 48 || buf.H != 48 || buf.Stride != 192 {
		t.Fatalf("buffer geometry: %dx%d stride %d", buf.W, buf.H, buf.Stride)
	}
	if got := buf.At(24, 24); got != 0xffffffff {
		t.Errorf("centre pixel: got %08x, want ffffffff", got)
	}
}

func TestSVG_RenderInvalidSize(t *testing.T) {
	src, err := ParseSVG([]byte(whiteSquare))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Render(0, 10); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestSVG_OpenMissing(t *testing.T) {
	if _, err := NewSVG().Open(filepath.Join(t.TempDir(), "nope.svg")); err == nil {
		t.Error("expected error")
	}
}

func TestFromRGBA_ByteOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40})
	img.SetRGBA(1, 0, color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff})
	buf := FromRGBA(img)
	if got := buf.At(0, 0); got != 0x40102030 {
		t.Errorf("pixel 0: got %08x, want 40102030", got)
	}
	if got := buf.At(1, 0); got != 0xffff0000 {
		t.Errorf("pixel 1: got %08x, want ffff0000", got)
	}
	want := []byte{0x30, 0x20, 0x10, 0x40}
	for i, b := range want {
		if buf.Pix[i] != b {
			t.Errorf("Pix[%d] = %02x, want %02x", i, buf.Pix[i], b)
		}
	}
}

func TestBuffer_RowSkipsPadding(t *testing.T) {
	buf := &Buffer{W: 2, H: 2, Stride: 12, Pix: make([]byte, 24)}
	buf.Set(1, 1, 0xaabbccdd)
	row := buf.Row(1)
	if len(row) != 8 {
		t.Fatalf("row len: got %d", len(row))
	}
	if row[4] != 0xdd || row[7] != 0xaa {
		t.Errorf("row bytes: % x", row)
	}
}
