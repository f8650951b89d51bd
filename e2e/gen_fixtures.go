//go:build ignore

// gen_fixtures creates a directory of SVG icons for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// One white mask per category source size, plus the launcher size.
var maskSizes = []int{24, 32, 48, 64, 96, 128, 86}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	n := 0
	for _, s := range maskSizes {
		write(dir, fmt.Sprintf("icon-mask-%d.svg", s), mask(s))
		n++
	}

	// Coloured launcher icon, non-square and odd-sized icons.
	write(dir, "launcher-color.svg", colored(86, 86, "#e04040"))
	write(dir, "banner.svg", colored(75, 40, "#40a0e0"))
	write(dir, "odd.svg", mask(33))
	n += 3

	// No usable size: skipped by the converter.
	write(dir, "no-size.svg", `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)
	// Not an SVG at all: ignored.
	write(dir, "notes.txt", "fixtures for svg2png\n")
	n += 2

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created %d fixtures in %s\n", n, dir)
}

func mask(s int) string {
	m := s / 6
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">
  <circle cx="%[2]d" cy="%[2]d" r="%[3]d" fill="none" stroke="#ffffff" stroke-width="%[4]d"/>
  <rect x="%[5]d" y="%[5]d" width="%[6]d" height="%[6]d" fill="#ffffff" fill-opacity="0.5"/>
</svg>
`, s, s/2, s/2-m, m/2+1, 2*m, s-4*m)
}

func colored(w, h int, fill string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d">
  <rect x="0" y="0" width="%[1]d" height="%[2]d" rx="%[3]d" fill="%[4]s"/>
  <path d="M%[3]d %[3]dL%[5]d %[6]d" stroke="#ffffff" stroke-width="2"/>
</svg>
`, w, h, h/8, fill, w-h/8, h-h/8)
}

func write(dir, name, body string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
