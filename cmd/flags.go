package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AnyUserName/svg2png-cli/internal/config"
	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/profile"
)

// convertFlags are the conversion flags shared by the root and watch
// commands.
type convertFlags struct {
	zoom       float64
	format     string
	width      int
	sizes      string
	jobs       int
	configPath string
	manifest   bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.zoom, "zoom", "z", 0, "zoom factor (default 1.0)")
	fs.StringVarP(&f.format, "format", "f", string(profile.FormatRGBA), "channel format: grayscale, rgb or rgba")
	fs.IntVarP(&f.width, "width", "w", 0, "expected display width, scales launcher icons by width/540")
	fs.StringVarP(&f.sizes, "sizes", "s", "", "7 category target sizes, e.g. 48,64,72,96,128,192,172")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "parallel workers (0 = NumCPU)")
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fs.BoolVar(&f.manifest, "manifest", false, "write "+manifest.FileName+" into targetDir")
	fs.SortFlags = false
}

// invocation is a fully resolved command line.
type invocation struct {
	cfg       config.Config
	sourceDir string
	targetDir string
}

// resolve layers defaults, the config file and the flags that were set on
// the command line, and splits off the two directory arguments.
func (f *convertFlags) resolve(fs *pflag.FlagSet, args []string) (invocation, error) {
	var inv invocation
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return inv, err
		}
		cfg = loaded
	}

	if fs.Changed("zoom") {
		if f.zoom <= 0 {
			return inv, &config.ConfigError{Field: "zoom", Err: fmt.Errorf("must be > 0, got %v", f.zoom)}
		}
		cfg.Zoom = f.zoom
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("width") {
		if f.width <= 0 {
			return inv, &config.ConfigError{Field: "width", Err: fmt.Errorf("must be > 0, got %d", f.width)}
		}
		cfg.ExpectedWidth = f.width
	}
	if fs.Changed("sizes") {
		sizes, rest, err := absorbSizes(f.sizes, args)
		if err != nil {
			return inv, err
		}
		cfg.Sizes = sizes
		args = rest
	}
	if fs.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if fs.Changed("manifest") {
		cfg.Manifest = f.manifest
	}

	if len(args) != 2 {
		return inv, &config.ConfigError{
			Field: "args",
			Err:   fmt.Errorf("expected sourceDir and targetDir, got %d arguments", len(args)),
		}
	}
	if err := cfg.Validate(); err != nil {
		return inv, err
	}
	inv.cfg = cfg
	inv.sourceDir, inv.targetDir = args[0], args[1]
	return inv, nil
}

// absorbSizes parses the --sizes value. Besides the comma separated form
// it accepts "-s 48 64 72 96 128 192 172": the flag parser only binds the
// first number, so the remaining ones are taken from the front of args.
// Two arguments are always left for the directories.
func absorbSizes(value string, args []string) ([]int, []string, error) {
	fields := splitSizes(value)
	if len(fields) == 1 {
		for len(fields) < profile.NumCategories && len(args) > 2 {
			if _, err := strconv.Atoi(args[0]); err != nil {
				break
			}
			fields = append(fields, args[0])
			args = args[1:]
		}
	}
	sizes, err := parseSizes(fields)
	if err != nil {
		return nil, nil, err
	}
	return sizes, args, nil
}

func splitSizes(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func parseSizes(fields []string) ([]int, error) {
	if len(fields) != profile.NumCategories {
		return nil, &config.ConfigError{
			Field: "sizes",
			Err:   fmt.Errorf("need %d values, got %d", profile.NumCategories, len(fields)),
		}
	}
	sizes := make([]int, len(fields))
	for i, s := range fields {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, &config.ConfigError{
				Field: "sizes",
				Err:   fmt.Errorf("%s size must be a positive integer, got %q", profile.Categories[i].Name, s),
			}
		}
		sizes[i] = n
	}
	return sizes, nil
}
