package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnyUserName/svg2png-cli/internal/config"
)

var (
	version = "0.1.0"
	verbose bool

	// logger is replaced in PersistentPreRun once --verbose is known.
	logger = zap.NewNop()
)

var rootFlags convertFlags

var rootCmd = &cobra.Command{
	Use:   "svg2png [flags] sourceDir targetDir",
	Short: "Convert a directory of SVG icons to PNG",
	Long: `svg2png renders every *.svg file directly inside sourceDir to a PNG of
the same name in targetDir.

The output size of each icon is chosen by the first matching rule:
  1. --sizes: square icons of a known category size (24, 32, 48, 64, 96,
     128, 86) get the configured target size for that category.
  2. --width: launcher icons (height 86) are scaled by width/540.
  3. otherwise icons are scaled by --zoom.
Scaled sizes are rounded to even numbers.

Icons that are white shapes on a transparent background are marked with
a "Grayscale=true" text chunk.`,
	Version:      version,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
	RunE: runConvert,
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootFlags.register(rootCmd)
	// Subcommands inherit this; a bad flag value is invalid input.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, &config.ConfigError{Field: "flags", Err: err})
	})
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"svg2png %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the console logger: no timestamps, stderr, Info level
// or Debug with --verbose.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Named("svg2png")
}

// usageError prints usage for invalid input before returning err.
func usageError(cmd *cobra.Command, err error) error {
	var ce *config.ConfigError
	if errors.As(err, &ce) {
		cmd.PrintErrln(cmd.UsageString())
	}
	return err
}
