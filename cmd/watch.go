package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/pipeline"
	"github.com/AnyUserName/svg2png-cli/internal/watch"
)

var watchFlags convertFlags

var watchCmd = &cobra.Command{
	Use:   "watch [flags] sourceDir targetDir",
	Short: "Convert sourceDir, then reconvert SVG files as they change",
	Long: `Runs a full conversion, then keeps watching sourceDir. Every SVG that is
created or written is converted again once it has been quiet for a short
moment; removing an SVG removes its PNG. Runs until interrupted.`,
	Args: cobra.ArbitraryArgs,
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, inv, err := setupPipeline(cmd, &watchFlags, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(inv.sourceDir, watch.DefaultDelay, logger)
	if err != nil {
		return &pipeline.DirectoryError{Op: "watch", Dir: inv.sourceDir, Err: err}
	}

	m, err := p.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrNoSources):
		logger.Info("no SVG files yet", zap.String("dir", inv.sourceDir))
		if err := os.MkdirAll(inv.targetDir, 0o755); err != nil {
			return &pipeline.DirectoryError{Op: "create", Dir: inv.targetDir, Err: err}
		}
		m = p.NewManifest()
	case interrupted(err):
		return nil
	case err != nil:
		return err
	}

	manifestPath := filepath.Join(inv.targetDir, manifest.FileName)
	save := func() {
		if !inv.cfg.Manifest {
			return
		}
		if err := manifest.WriteJSON(m, manifestPath); err != nil {
			logger.Error("write manifest", zap.Error(err))
		}
	}
	save()

	err = w.Run(ctx, func(ev watch.Event) {
		switch ev.Type {
		case watch.EventRemoved:
			if err := p.Remove(m, ev.Path); err != nil {
				logger.Error("remove output", zap.Error(err))
			}
		default:
			r, err := p.ConvertFile(ev.Path)
			if err != nil {
				logger.Warn("ignoring change", zap.String("file", filepath.Base(ev.Path)), zap.Error(err))
				return
			}
			p.Record(m, r)
		}
		save()
	})
	if interrupted(err) {
		fmt.Fprintln(cmd.ErrOrStderr())
		return nil
	}
	return err
}
