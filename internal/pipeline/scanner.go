package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered SVG file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// Name is the file name, e.g. "icon-m-home.svg".
	Name string
	// Key is the file name without extension; the output is Key + ".png".
	Key string
	// Size is the file size in bytes.
	Size int64
	// DuplicateOf names an earlier source with the same Key, such as
	// "a.svg" for "a.SVG". Such a source is not converted.
	DuplicateOf string
}

func isSVG(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".svg") && !strings.HasPrefix(name, ".")
}

// ScanSVGs lists the *.svg files directly inside dir, sorted by name.
// Subdirectories and hidden files are ignored. When several files share
// a Key, all but the first are marked with DuplicateOf.
func ScanSVGs(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !isSVG(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// Stat follows symlinks; a file removed since listing is dropped.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		sources = append(sources, newSource(path, info))
	}

	first := make(map[string]string, len(sources))
	for i, src := range sources {
		if name, ok := first[src.Key]; ok {
			sources[i].DuplicateOf = name
			continue
		}
		first[src.Key] = src.Name
	}
	return sources, nil
}

// SourceFor describes a single SVG file, including whether a sibling
// takes precedence for the same output name.
func SourceFor(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if !info.Mode().IsRegular() || !isSVG(info.Name()) {
		return Source{}, fmt.Errorf("%s is not an SVG file", path)
	}
	src := newSource(path, info)
	if siblings, err := ScanSVGs(filepath.Dir(path)); err == nil {
		for _, s := range siblings {
			if s.Name == src.Name {
				src.DuplicateOf = s.DuplicateOf
			}
		}
	}
	return src, nil
}

func newSource(path string, info os.FileInfo) Source {
	name := info.Name()
	return Source{
		AbsPath: path,
		Name:    name,
		Key:     keyOf(name),
		Size:    info.Size(),
	}
}

func keyOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
