package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty manifest with defaults.
func New(settings Settings) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:    settings,
		Icons:       make(map[string]Icon),
	}
}

// ComputeStats recalculates aggregate statistics from icons and failures.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalIcons = len(m.Icons)
	for _, ic := range m.Icons {
		s.TotalOutputBytes += ic.Size
		if ic.Grayscale {
			s.Grayscale++
		}
	}
	for _, f := range m.Failures {
		if f.Skipped {
			s.Skipped++
		} else {
			s.Failed++
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
