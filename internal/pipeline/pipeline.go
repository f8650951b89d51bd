package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/AnyUserName/svg2png-cli/internal/encoder"
	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/profile"
	"github.com/AnyUserName/svg2png-cli/internal/raster"
)

// Config holds all parameters for a conversion run.
type Config struct {
	SourceDir  string
	TargetDir  string
	Profile    profile.Profile
	Rasterizer raster.Rasterizer // nil = raster.NewSVG()
	Workers    int               // 0 = NumCPU
	Logger     *zap.Logger       // nil = no logging
}

// Pipeline converts a directory of SVG icons to PNG.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	log      *zap.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Rasterizer == nil {
		cfg.Rasterizer = raster.NewSVG()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		log:      cfg.Logger,
	}
}

// NewManifest returns an empty manifest describing this pipeline's settings.
func (p *Pipeline) NewManifest() *manifest.Manifest {
	prof := p.cfg.Profile
	m := manifest.New(manifest.Settings{
		Zoom:          prof.Zoom(),
		Format:        string(prof.Format()),
		ExpectedWidth: prof.ExpectedWidth(),
		Sizes:         prof.Targets(),
	})
	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	return m
}

// Prepare lists the source directory and creates the target directory.
// It returns ErrNoSources, without creating anything, when there is
// nothing to convert. A missing or unreadable source directory has
// nothing to convert either.
func (p *Pipeline) Prepare() ([]Source, error) {
	sources, err := ScanSVGs(p.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSources, err)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if err := os.MkdirAll(p.cfg.TargetDir, 0o755); err != nil {
		return nil, &DirectoryError{Op: "create", Dir: p.cfg.TargetDir, Err: err}
	}
	return sources, nil
}

// Run converts every SVG in the source directory. Per-file failures are
// logged and recorded in the manifest but do not make Run fail. Run
// fails with ErrNoSources, a DirectoryError for the target directory,
// or ctx.Err() on cancellation, in which case the manifest of the files
// already converted is returned as well.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	enc, err := p.registry.Lookup(string(p.cfg.Profile.Format()))
	if err != nil {
		return nil, err
	}
	p.log.Debug(p.registry.String())

	sources, err := p.Prepare()
	if err != nil {
		return nil, err
	}
	p.log.Debug("found sources",
		zap.Int("count", len(sources)),
		zap.String("dir", p.cfg.SourceDir))

	results := make([]Result, len(sources))
	started := make([]bool, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

schedule:
	for i, src := range sources {
		select {
		case <-ctx.Done():
			break schedule
		case sem <- struct{}{}: // acquire
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		started[i] = true
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			defer func() { <-sem }() // release

			results[idx] = p.convertFile(s, enc)
			p.logResult(results[idx])
		}(i, src)
	}
	wg.Wait()

	m := p.NewManifest()
	for i, r := range results {
		if started[i] {
			p.Record(m, r)
		}
	}
	m.ComputeStats()

	p.log.Info("conversion finished",
		zap.Int("converted", m.Stats.TotalIcons),
		zap.Int("skipped", m.Stats.Skipped),
		zap.Int("failed", m.Stats.Failed))

	if err := ctx.Err(); err != nil {
		return m, err
	}
	return m, nil
}

// ConvertFile converts a single SVG into the target directory, which must
// already exist.
func (p *Pipeline) ConvertFile(path string) (Result, error) {
	enc, err := p.registry.Lookup(string(p.cfg.Profile.Format()))
	if err != nil {
		return Result{}, err
	}
	src, err := SourceFor(path)
	if err != nil {
		return Result{}, fmt.Errorf("convert %s: %w", path, err)
	}
	r := p.convertFile(src, enc)
	p.logResult(r)
	return r, nil
}

func (p *Pipeline) logResult(r Result) {
	file := zap.String("file", r.Source.Name)
	switch {
	case r.State == StateSaved:
		p.log.Debug("saved",
			file,
			zap.String("path", r.OutPath),
			zap.Stringer("size", r.Decision.Size),
			zap.String("rule", string(r.Decision.Rule)),
			zap.Bool("grayscale", r.Grayscale))
	case r.Skipped():
		p.log.Warn("failed to read default size, skipping file", file, zap.Error(r.Err))
	default:
		p.log.Error("conversion failed",
			file,
			zap.String("stage", r.stage()),
			zap.Error(r.Err))
	}
}
