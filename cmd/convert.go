package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/pipeline"
)

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()
	p, inv, err := setupPipeline(cmd, &rootFlags, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := p.Run(ctx)
	if errors.Is(err, pipeline.ErrNoSources) {
		fields := []zap.Field{zap.String("dir", inv.sourceDir)}
		if err != pipeline.ErrNoSources {
			fields = append(fields, zap.Error(err))
		}
		logger.Warn("no SVG files found", fields...)
		return nil
	}
	if m == nil {
		return err
	}
	if inv.cfg.Manifest {
		manifestPath := filepath.Join(inv.targetDir, manifest.FileName)
		if werr := manifest.WriteJSON(m, manifestPath); werr != nil {
			return fmt.Errorf("write manifest: %w", werr)
		}
		logger.Debug("wrote manifest", zap.String("path", manifestPath))
	}
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

// setupPipeline resolves the command line into a ready pipeline.
func setupPipeline(cmd *cobra.Command, f *convertFlags, args []string) (*pipeline.Pipeline, invocation, error) {
	inv, err := f.resolve(cmd.Flags(), args)
	if err != nil {
		return nil, inv, usageError(cmd, err)
	}
	if inv.cfg.Zoom == 0 {
		logger.Warn("no zoom factor given, defaulting to 1.0")
	}
	prof, err := inv.cfg.Profile()
	if err != nil {
		return nil, inv, usageError(cmd, err)
	}

	if inv.sourceDir, err = filepath.Abs(inv.sourceDir); err != nil {
		return nil, inv, fmt.Errorf("resolve source path: %w", err)
	}
	if inv.targetDir, err = filepath.Abs(inv.targetDir); err != nil {
		return nil, inv, fmt.Errorf("resolve target path: %w", err)
	}

	logger.Debug("configuration",
		zap.String("source", inv.sourceDir),
		zap.String("target", inv.targetDir),
		zap.Float64("zoom", prof.Zoom()),
		zap.Int("width", prof.ExpectedWidth()),
		zap.String("format", string(prof.Format())))
	if prof.HasTargets() {
		for _, c := range prof.Table() {
			logger.Debug("category target",
				zap.String("category", c.Name),
				zap.Int("source", c.SourceSize),
				zap.Int("target", c.Target))
		}
	}

	p := pipeline.New(pipeline.Config{
		SourceDir: inv.sourceDir,
		TargetDir: inv.targetDir,
		Profile:   prof,
		Workers:   inv.cfg.Jobs,
		Logger:    logger,
	})
	return p, inv, nil
}

func printReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	s := m.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Converted:   %d icons (%d grayscale)\n", s.TotalIcons, s.Grayscale)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped:     %d (no readable size)\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	if len(m.Failures) > 0 {
		failures := append([]manifest.Failure(nil), m.Failures...)
		sort.Slice(failures, func(i, j int) bool { return failures[i].Name < failures[j].Name })
		fmt.Fprintln(w, "  Not converted:")
		for _, f := range failures {
			fmt.Fprintf(w, "    %-40s %-6s  %s\n", truncKey(f.Name, 40), f.Stage, f.Reason)
		}
		fmt.Fprintln(w)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

// interrupted reports whether err is the result of Ctrl-C.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
