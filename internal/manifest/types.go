package manifest

// Manifest is the optional JSON record of a svg2png run.
type Manifest struct {
	Version     int             `json:"version"`
	GeneratedAt string          `json:"generated_at"`
	Settings    Settings        `json:"settings"`
	BuildInfo   *BuildInfo      `json:"build_info,omitempty"`
	Icons       map[string]Icon `json:"icons"`
	Failures    []Failure       `json:"failures,omitempty"`
	Stats       Stats           `json:"stats"`
}

// Settings captures the resolved sizing configuration of the run.
type Settings struct {
	Zoom          float64 `json:"zoom"`
	Format        string  `json:"format"`
	ExpectedWidth int     `json:"expected_width,omitempty"`
	Sizes         []int   `json:"sizes,omitempty"` // explicit category targets
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
}

// Icon describes one converted source file.
type Icon struct {
	Source    SourceInfo `json:"source"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Rule      string     `json:"rule"`               // "category", "width" or "zoom"
	Category  string     `json:"category,omitempty"` // set when rule == "category"
	Grayscale bool       `json:"grayscale"`
	Format    string     `json:"format"`
	Size      int64      `json:"size"` // bytes on disk
	Hash      string     `json:"hash"` // first 16 hex chars of xxhash64
	Path      string     `json:"path"` // relative to the manifest
}

// SourceInfo holds the source file name and its intrinsic size.
type SourceInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Failure records a source file that produced no output.
type Failure struct {
	Name    string `json:"name"`
	Stage   string `json:"stage"`   // "read", "render" or "encode"
	Reason  string `json:"reason"`
	Skipped bool   `json:"skipped"` // unreadable size, not an error
}

// Stats aggregates run metrics.
type Stats struct {
	TotalIcons       int   `json:"total_icons"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Grayscale        int   `json:"grayscale"`
	Skipped          int   `json:"skipped"`
	Failed           int   `json:"failed"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside the target directory.
const FileName = "svg2png.manifest.json"
