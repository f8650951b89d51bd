package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/svg2png-cli/internal/hasher"
	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/profile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a svg2png manifest and check the listed PNG files",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errs := validateManifest(m, filepath.Dir(path))
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d icons, all files present and unchanged\n", m.Stats.TotalIcons)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if _, err := profile.ParseFormat(m.Settings.Format); err != nil {
		errs = append(errs, fmt.Sprintf("settings: %v", err))
	}

	seenPaths := map[string]string{}
	for key, ic := range m.Icons {
		if ic.Source.Width <= 0 || ic.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("icon %q: invalid source size %dx%d",
				key, ic.Source.Width, ic.Source.Height))
		}
		if ic.Width <= 0 || ic.Height <= 0 {
			errs = append(errs, fmt.Sprintf("icon %q: invalid output size %dx%d", key, ic.Width, ic.Height))
		}

		switch profile.Rule(ic.Rule) {
		case profile.RuleCategory:
			if ic.Category == "" {
				errs = append(errs, fmt.Sprintf("icon %q: category rule without category", key))
			}
		case profile.RuleWidth, profile.RuleZoom:
			if ic.Width%2 != 0 || ic.Height%2 != 0 {
				errs = append(errs, fmt.Sprintf("icon %q: %s-scaled size %dx%d is not even",
					key, ic.Rule, ic.Width, ic.Height))
			}
		default:
			errs = append(errs, fmt.Sprintf("icon %q: unknown rule %q", key, ic.Rule))
		}

		if ic.Path == "" {
			errs = append(errs, fmt.Sprintf("icon %q: missing path", key))
			continue
		}
		if other, dup := seenPaths[ic.Path]; dup {
			errs = append(errs, fmt.Sprintf("icon %q: path %q already used by %q", key, ic.Path, other))
		}
		seenPaths[ic.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(ic.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("icon %q: file not found: %s", key, ic.Path))
			continue
		}
		if info.Size() != ic.Size {
			errs = append(errs, fmt.Sprintf("icon %q: size mismatch: manifest=%d, disk=%d",
				key, ic.Size, info.Size()))
		}
		if ic.Hash == "" {
			errs = append(errs, fmt.Sprintf("icon %q: missing hash", key))
		} else if h, err := hasher.FileHash(fullPath, len(ic.Hash)); err != nil {
			errs = append(errs, fmt.Sprintf("icon %q: hash: %v", key, err))
		} else if h != ic.Hash {
			errs = append(errs, fmt.Sprintf("icon %q: hash mismatch: manifest=%s, disk=%s", key, ic.Hash, h))
		}
	}

	// Verify stats consistency.
	want := *m
	want.ComputeStats()
	if m.Stats != want.Stats {
		errs = append(errs, fmt.Sprintf("stats mismatch: recorded %+v, computed %+v", m.Stats, want.Stats))
	}

	return errs
}
