package manifest

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New(Settings{Zoom: 1.25, Format: "rgba", Sizes: []int{30, 40, 60, 80, 120, 160, 108}})
	m.BuildInfo = &BuildInfo{Workers: 4}
	m.Icons["icon-m-home"] = Icon{
		Source:    SourceInfo{Name: "icon-m-home.svg", Width: 64, Height: 64},
		Width:     80,
		Height:    80,
		Rule:      "category",
		Category:  "medium",
		Grayscale: true,
		Format:    "rgba",
		Size:      1234,
		Hash:      "0123456789abcdef",
		Path:      "icon-m-home.png",
	}
	m.Failures = []Failure{
		{Name: "broken.svg", Stage: "read", Reason: "invalid default size", Skipped: true},
		{Name: "bad-path.svg", Stage: "render", Reason: "render: boom"},
	}

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Verify fields.
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Settings.Zoom != 1.25 || len(m2.Settings.Sizes) != 7 {
		t.Errorf("settings: got %+v", m2.Settings)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 {
		t.Fatal("build_info missing")
	}

	ic, ok := m2.Icons["icon-m-home"]
	if !ok {
		t.Fatal("icon icon-m-home missing")
	}
	if ic.Category != "medium" || !ic.Grayscale || ic.Width != 80 {
		t.Errorf("icon: got %+v", ic)
	}

	// Stats.
	if m2.Stats.TotalIcons != 1 {
		t.Errorf("total_icons: got %d", m2.Stats.TotalIcons)
	}
	if m2.Stats.TotalOutputBytes != 1234 {
		t.Errorf("total_output_bytes: got %d", m2.Stats.TotalOutputBytes)
	}
	if m2.Stats.Grayscale != 1 || m2.Stats.Skipped != 1 || m2.Stats.Failed != 1 {
		t.Errorf("stats: got %+v", m2.Stats)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New(Settings{})
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"settings": { "zoom": 1, "format": "rgba", "dpi": 96 },
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "new_flag": true },
		"icons": {},
		"stats": { "total_icons": 0, "total_output_bytes": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

func TestReadJSON_Missing(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Error("expected error")
	}
}
