package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/svg2png-cli/internal/manifest"
	"github.com/AnyUserName/svg2png-cli/internal/profile"
)

var statsCmd = &cobra.Command{
	Use:   "stats <targetDir_or_manifest>",
	Short: "Display statistics for a converted icon directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

// manifestPath accepts either a manifest file or the directory holding it.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Format:           %s\n", m.Settings.Format)
	fmt.Fprintf(w, "  Zoom:             %g\n", m.Settings.Zoom)
	if m.Settings.ExpectedWidth > 0 {
		fmt.Fprintf(w, "  Expected width:   %d\n", m.Settings.ExpectedWidth)
	}
	if len(m.Settings.Sizes) == profile.NumCategories {
		fmt.Fprintln(w, "  Category sizes:")
		for i, c := range profile.Categories {
			fmt.Fprintf(w, "    %-12s %4dpx -> %4dpx\n", c.Name, c.SourceSize, m.Settings.Sizes[i])
		}
	}
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total icons:      %d\n", s.TotalIcons)
	fmt.Fprintf(w, "  Grayscale:        %d\n", s.Grayscale)
	fmt.Fprintf(w, "  Skipped:          %d\n", s.Skipped)
	fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintln(w)

	// Per-rule breakdown.
	ruleStats := map[string]int{}
	for _, ic := range m.Icons {
		ruleStats[ic.Rule]++
	}
	fmt.Fprintln(w, "  Sizing rules:")
	for _, r := range []profile.Rule{profile.RuleCategory, profile.RuleWidth, profile.RuleZoom} {
		if n, ok := ruleStats[string(r)]; ok {
			fmt.Fprintf(w, "    %-9s %4d icons\n", r, n)
		}
	}
	fmt.Fprintln(w)

	// Per-size breakdown.
	sizeStats := map[profile.Size]int{}
	for _, ic := range m.Icons {
		sizeStats[profile.Size{W: ic.Width, H: ic.Height}]++
	}
	var sizes []profile.Size
	for sz := range sizeStats {
		sizes = append(sizes, sz)
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].W != sizes[j].W {
			return sizes[i].W < sizes[j].W
		}
		return sizes[i].H < sizes[j].H
	})
	fmt.Fprintln(w, "  Output sizes:")
	for _, sz := range sizes {
		fmt.Fprintf(w, "    %9s  %4d icons\n", sz, sizeStats[sz])
	}

	if len(m.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Not converted (%d):\n", len(m.Failures))
		for _, f := range m.Failures {
			kind := "failed"
			if f.Skipped {
				kind = "skipped"
			}
			fmt.Fprintf(w, "    %-7s %s: %s\n", kind, f.Name, f.Reason)
		}
	}
	fmt.Fprintln(w)
}
