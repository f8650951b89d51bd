package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/svg2png-cli/internal/profile"
	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "svg2png.yaml")

	configContent := `
zoom: 1.5
format: rgba
expected_width: 1080
sizes: [48, 64, 72, 96, 128, 192, 172]
jobs: 2
manifest: true
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	want := Config{
		Zoom:          1.5,
		Format:        "rgba",
		ExpectedWidth: 1080,
		Sizes:         []int{48, 64, 72, 96, 128, 192, 172},
		Jobs:          2,
		Manifest:      true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfig_KeepsDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "svg2png.yaml")
	if err := os.WriteFile(configFile, []byte("zoom: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "rgba" {
		t.Errorf("format default lost: %q", cfg.Format)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("zoom: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{bad, filepath.Join(dir, "missing.yaml")} {
		_, err := Load(path)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("Load(%s): got %v, want *ConfigError", filepath.Base(path), err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"negative zoom", Config{Zoom: -1, Format: "rgba"}, "zoom"},
		{"bad format", Config{Format: "bgr"}, "format"},
		{"negative width", Config{Format: "rgba", ExpectedWidth: -1}, "expected_width"},
		{"six sizes", Config{Format: "rgba", Sizes: []int{1, 2, 3, 4, 5, 6}}, "sizes"},
		{"zero size", Config{Format: "rgba", Sizes: []int{1, 2, 3, 4, 5, 6, 0}}, "sizes"},
		{"negative jobs", Config{Format: "rgba", Jobs: -2}, "jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field: got %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	cfg := Default()
	cfg.Zoom = 2
	cfg.Sizes = []int{48, 64, 72, 96, 128, 192, 172}
	p, err := cfg.Profile()
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got := p.Resolve(24, 24); got != (profile.Size{W: 48, H: 48}) {
		t.Errorf("category target: got %v", got)
	}
	if got := p.Resolve(10, 10); got != (profile.Size{W: 20, H: 20}) {
		t.Errorf("zoom: got %v", got)
	}

	// The profile is a frozen copy.
	cfg.Sizes[0] = 1000
	if got := p.Resolve(24, 24); got != (profile.Size{W: 48, H: 48}) {
		t.Errorf("profile changed after config mutation: %v", got)
	}
}
