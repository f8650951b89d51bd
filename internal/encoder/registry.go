package encoder

import (
	"fmt"
	"strings"
)

// formatOrder is the order formats are listed in help and errors.
var formatOrder = []string{"rgba", "rgb", "grayscale"}

// Registry maps channel format names to encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry holding the built-in PNG encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{NewRGBA(), NewRGB(), NewGrayscale()} {
		r.Register(enc)
	}
	return r
}

// Register adds or replaces the encoder for enc.Format().
func (r *Registry) Register(enc Encoder) {
	r.encoders[strings.ToLower(enc.Format())] = enc
}

// Get returns the encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Lookup is Get with an error naming the known formats.
func (r *Registry) Lookup(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("no encoder for format %q (have %s)", format, strings.Join(r.Available(), ", "))
}

// Available returns all registered format names, built-ins first.
func (r *Registry) Available() []string {
	var result []string
	seen := map[string]bool{}
	for _, f := range formatOrder {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
			seen[f] = true
		}
	}
	for f := range r.encoders {
		if !seen[f] {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
