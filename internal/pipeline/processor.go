package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/svg2png-cli/internal/encoder"
	"github.com/AnyUserName/svg2png-cli/internal/hasher"
	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/pixel"
	"github.com/AnyUserName/svg2png-cli/internal/profile"
)

// State is the progress of one file through the conversion.
type State int

const (
	StateDiscovered State = iota
	StateDimensionsRead
	StateSizeResolved
	StateRendered
	StateClassified
	StateEncoded
	StateSaved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateDimensionsRead:
		return "dimensions-read"
	case StateSizeResolved:
		return "size-resolved"
	case StateRendered:
		return "rendered"
	case StateClassified:
		return "classified"
	case StateEncoded:
		return "encoded"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result holds the outcome of converting a single source file.
type Result struct {
	Source Source
	State  State
	// FailedAt is the last state reached before a failure.
	FailedAt State
	Err      error

	// Intrinsic size reported by the rasterizer.
	Width, Height int
	Decision      profile.Decision
	Grayscale     bool

	OutPath string
	Bytes   int64
	Hash    string
}

// Skipped reports whether the file was left out because its size could
// not be read. Skips are not errors.
func (r Result) Skipped() bool {
	var se *SourceReadError
	return r.State == StateFailed && errors.As(r.Err, &se)
}

func (r *Result) fail(err error) Result {
	r.FailedAt = r.State
	r.State = StateFailed
	r.Err = err
	return *r
}

// stage names the step a failure happened in.
func (r Result) stage() string {
	switch {
	case r.FailedAt < StateDimensionsRead:
		return "read"
	case r.FailedAt < StateRendered:
		return "render"
	default:
		return "encode"
	}
}

// convertFile runs one source through size resolution, rendering,
// classification and encoding. It never panics on bad input and never
// touches other files.
func (p *Pipeline) convertFile(src Source, enc encoder.Encoder) Result {
	res := Result{Source: src, State: StateDiscovered}
	if src.DuplicateOf != "" {
		return res.fail(&DuplicateError{File: src.Name, Other: src.DuplicateOf})
	}

	img, err := p.cfg.Rasterizer.Open(src.AbsPath)
	if err != nil {
		return res.fail(&SourceReadError{File: src.Name, Err: err})
	}
	w, h, err := img.Size()
	if err != nil {
		return res.fail(&SourceReadError{File: src.Name, Err: err})
	}
	res.Width, res.Height = w, h
	res.State = StateDimensionsRead

	res.Decision = p.cfg.Profile.Decide(w, h)
	res.State = StateSizeResolved

	size := res.Decision.Size
	if size.W <= 0 || size.H <= 0 {
		return res.fail(&RenderError{File: src.Name, Err: fmt.Errorf("resolved size %v is empty", size)})
	}
	buf, err := img.Render(size.W, size.H)
	if err != nil {
		return res.fail(&RenderError{File: src.Name, Err: err})
	}
	res.State = StateRendered

	res.Grayscale = pixel.IsGrayscaleMask(buf)
	res.State = StateClassified

	res.OutPath = filepath.Join(p.cfg.TargetDir, src.Key+"."+enc.Extension())
	digest := hasher.New()
	n, err := encoder.WriteFile(res.OutPath, enc, buf, encoder.Meta{Grayscale: res.Grayscale}, digest)
	if err != nil {
		return res.fail(err)
	}
	res.Bytes = n
	res.Hash = digest.Hex(hasher.HexLen)
	res.State = StateEncoded

	info, err := os.Stat(res.OutPath)
	if err != nil {
		return res.fail(&encoder.EncodeError{Kind: encoder.IOError, Path: res.OutPath, Err: err})
	}
	if info.Size() != n {
		return res.fail(&encoder.EncodeError{
			Kind: encoder.IOError,
			Path: res.OutPath,
			Err:  fmt.Errorf("wrote %d bytes, file has %d", n, info.Size()),
		})
	}
	res.State = StateSaved
	return res
}

// Record adds r to m, replacing any earlier entry for the same source.
func (p *Pipeline) Record(m *manifest.Manifest, r Result) {
	forget(m, r.Source.Name)

	switch r.State {
	case StateSaved:
		rel, err := filepath.Rel(p.cfg.TargetDir, r.OutPath)
		if err != nil {
			rel = filepath.Base(r.OutPath)
		}
		m.Icons[r.Source.Key] = manifest.Icon{
			Source: manifest.SourceInfo{
				Name:   r.Source.Name,
				Width:  r.Width,
				Height: r.Height,
			},
			Width:     r.Decision.Size.W,
			Height:    r.Decision.Size.H,
			Rule:      string(r.Decision.Rule),
			Category:  r.Decision.Category,
			Grayscale: r.Grayscale,
			Format:    string(p.cfg.Profile.Format()),
			Size:      r.Bytes,
			Hash:      r.Hash,
			Path:      filepath.ToSlash(rel),
		}
	case StateFailed:
		m.Failures = append(m.Failures, manifest.Failure{
			Name:    r.Source.Name,
			Stage:   r.stage(),
			Reason:  r.Err.Error(),
			Skipped: r.Skipped(),
		})
	}
}

// Remove deletes the output of the SVG at path and its manifest entry.
// A missing output file is not an error.
func (p *Pipeline) Remove(m *manifest.Manifest, path string) error {
	name := filepath.Base(path)
	if ic, ok := m.Icons[keyOf(name)]; ok && ic.Source.Name != name {
		// The output belongs to another source.
		forget(m, name)
		return nil
	}
	forget(m, name)
	out := filepath.Join(p.cfg.TargetDir, keyOf(name)+".png")
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return &encoder.EncodeError{Kind: encoder.IOError, Path: out, Err: err}
	}
	return nil
}

// forget drops every manifest entry for the source file name. An icon
// entry produced by a different source with the same key is kept.
func forget(m *manifest.Manifest, name string) {
	key := keyOf(name)
	if ic, ok := m.Icons[key]; ok && ic.Source.Name == name {
		delete(m.Icons, key)
	}
	kept := m.Failures[:0]
	for _, f := range m.Failures {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	m.Failures = kept
}
