package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/svg2png-cli/internal/config"
)

func parseInvocation(t *testing.T, argv ...string) (invocation, error) {
	t.Helper()
	var f convertFlags
	c := &cobra.Command{Use: "test"}
	f.register(c)
	if err := c.Flags().Parse(argv); err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return f.resolve(c.Flags(), c.Flags().Args())
}

func TestResolve(t *testing.T) {
	sizes := []int{48, 64, 72, 96, 128, 192, 172}
	tests := []struct {
		name string
		argv []string
		want config.Config
	}{
		{
			name: "defaults",
			argv: []string{"src", "dst"},
			want: config.Config{Format: "rgba"},
		},
		{
			name: "zoom and format",
			argv: []string{"-z", "1.5", "-f", "grayscale", "src", "dst"},
			want: config.Config{Zoom: 1.5, Format: "grayscale"},
		},
		{
			name: "space separated sizes",
			argv: []string{"-s", "48", "64", "72", "96", "128", "192", "172", "src", "dst"},
			want: config.Config{Format: "rgba", Sizes: sizes},
		},
		{
			name: "comma separated sizes",
			argv: []string{"--sizes", "48,64,72,96,128,192,172", "-w", "1080", "src", "dst"},
			want: config.Config{Format: "rgba", Sizes: sizes, ExpectedWidth: 1080},
		},
		{
			name: "flags after directories",
			argv: []string{"src", "dst", "-j", "3", "--manifest"},
			want: config.Config{Format: "rgba", Jobs: 3, Manifest: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := parseInvocation(t, tt.argv...)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if diff := cmp.Diff(tt.want, inv.cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if inv.sourceDir != "src" || inv.targetDir != "dst" {
				t.Errorf("dirs: got %q %q", inv.sourceDir, inv.targetDir)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		field string
	}{
		{"zero zoom", []string{"-z", "0", "a", "b"}, "zoom"},
		{"negative zoom", []string{"-z", "-2", "a", "b"}, "zoom"},
		{"bad format", []string{"-f", "bgr", "a", "b"}, "format"},
		{"negative width", []string{"-w", "-5", "a", "b"}, "width"},
		{"two sizes", []string{"-s", "48", "64", "a", "b"}, "sizes"},
		{"bad size", []string{"-s", "48,64,72,x,128,192,172", "a", "b"}, "sizes"},
		{"zero size", []string{"-s", "48,64,72,0,128,192,172", "a", "b"}, "sizes"},
		{"one directory", []string{"a"}, "args"},
		{"three directories", []string{"a", "b", "c"}, "args"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInvocation(t, tt.argv...)
			var ce *config.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field: got %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestResolve_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svg2png.yaml")
	content := "zoom: 2\nformat: rgb\njobs: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	inv, err := parseInvocation(t, "-c", path, "-z", "3", "src", "dst")
	if err != nil {
		t.Fatal(err)
	}
	want := config.Config{Zoom: 3, Format: "rgb", Jobs: 4}
	if diff := cmp.Diff(want, inv.cfg); diff != "" {
		t.Errorf("flag should override file only where set (-want +got):\n%s", diff)
	}
}

func TestAbsorbSizes(t *testing.T) {
	// A directory named like a number is never taken as a size.
	sizes, rest, err := absorbSizes("1", []string{"2", "3", "4", "5", "6", "7", "100", "200"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7}, sizes); diff != "" {
		t.Errorf("sizes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"100", "200"}, rest); diff != "" {
		t.Errorf("rest (-want +got):\n%s", diff)
	}

	if _, _, err := absorbSizes("1", []string{"2", "src", "dst"}); err == nil {
		t.Error("expected error for two sizes")
	}
}
