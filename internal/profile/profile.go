package profile

import (
	"fmt"
	"math"
	"strings"
)

// NumCategories is the number of icon size categories.
const NumCategories = 7

// Launcher is the index of the launcher category in Categories.
const Launcher = NumCategories - 1

// referenceWidth is the display width the launcher icon sources are drawn for.
const referenceWidth = 540

// Category is one icon size class. SourceSize is only used to recognise
// a source icon; Target is the explicit output size (0 when none is set).
type Category struct {
	Name       string
	SourceSize int
	Target     int
}

// Categories lists the built-in icon categories in command-line order.
var Categories = [NumCategories]Category{
	{Name: "extra-small", SourceSize: 24},
	{Name: "small", SourceSize: 32},
	{Name: "small-plus", SourceSize: 48},
	{Name: "medium", SourceSize: 64},
	{Name: "large", SourceSize: 96},
	{Name: "extra-large", SourceSize: 128},
	{Name: "launcher", SourceSize: 86},
}

// Format is the output channel layout.
type Format string

const (
	FormatRGBA      Format = "rgba"
	FormatRGB       Format = "rgb"
	FormatGrayscale Format = "grayscale"
)

// ParseFormat maps a -f argument to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatRGBA, FormatRGB, FormatGrayscale:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want grayscale, rgb or rgba)", s)
}

// Rule names the sizing rule that produced a Decision.
type Rule string

const (
	RuleCategory Rule = "category"
	RuleWidth    Rule = "width"
	RuleZoom     Rule = "zoom"
)

// Size is an output width and height in pixels.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Decision is the resolved output size of one source icon and how it was chosen.
type Decision struct {
	Size     Size
	Rule     Rule
	Category string // set for RuleCategory
}

// Options is the unvalidated input to New.
type Options struct {
	Zoom          float64
	Sizes         []int // nil or exactly NumCategories positive sizes
	ExpectedWidth int
	Format        Format
}

// Profile is the resolved conversion configuration. It is built once per
// run and shared read-only by every conversion.
type Profile struct {
	zoom          float64
	expectedWidth int
	format        Format
	explicit      bool
	table         [NumCategories]Category
}

// New validates opts and returns the profile. A zero Zoom means 1.0 and
// an empty Format means rgba.
func New(opts Options) (Profile, error) {
	p := Profile{
		zoom:          opts.Zoom,
		expectedWidth: opts.ExpectedWidth,
		format:        opts.Format,
		table:         Categories,
	}
	if p.zoom == 0 {
		p.zoom = 1.0
	}
	if p.zoom < 0 || math.IsNaN(p.zoom) || math.IsInf(p.zoom, 0) {
		return Profile{}, fmt.Errorf("zoom factor must be > 0, got %v", opts.Zoom)
	}
	if p.expectedWidth < 0 {
		return Profile{}, fmt.Errorf("expected width must be > 0, got %d", opts.ExpectedWidth)
	}
	if p.format == "" {
		p.format = FormatRGBA
	}
	if _, err := ParseFormat(string(p.format)); err != nil {
		return Profile{}, err
	}
	if opts.Sizes != nil {
		if len(opts.Sizes) != NumCategories {
			return Profile{}, fmt.Errorf("need %d category sizes, got %d", NumCategories, len(opts.Sizes))
		}
		for i, s := range opts.Sizes {
			if s <= 0 {
				return Profile{}, fmt.Errorf("%s size must be > 0, got %d", p.table[i].Name, s)
			}
			p.table[i].Target = s
		}
		p.explicit = true
	}
	return p, nil
}

func (p Profile) Zoom() float64      { return p.zoom }
func (p Profile) ExpectedWidth() int { return p.expectedWidth }
func (p Profile) Format() Format     { return p.format }

// Table returns a copy of the category table with targets filled in.
func (p Profile) Table() [NumCategories]Category { return p.table }

// HasTargets reports whether explicit category sizes were configured.
func (p Profile) HasTargets() bool { return p.explicit }

// Targets returns the explicit category sizes, or nil.
func (p Profile) Targets() []int {
	if !p.explicit {
		return nil
	}
	out := make([]int, NumCategories)
	for i, c := range p.table {
		out[i] = c.Target
	}
	return out
}

// Resolve returns the output size for a source icon of intrinsic size w x h.
func (p Profile) Resolve(w, h int) Size {
	return p.Decide(w, h).Size
}

// Decide applies the sizing rules in order: explicit category target,
// expected display width (launcher icons only), then zoom.
func (p Profile) Decide(w, h int) Decision {
	if p.explicit {
		if w == h {
			for _, c := range p.table {
				if w == c.SourceSize {
					return Decision{
						Size:     Size{W: c.Target, H: c.Target},
						Rule:     RuleCategory,
						Category: c.Name,
					}
				}
			}
		}
		return p.scale(w, h, p.zoom, RuleZoom)
	}
	if p.expectedWidth > 0 && h == p.table[Launcher].SourceSize {
		ratio := float64(p.expectedWidth) / referenceWidth
		return p.scale(w, h, ratio, RuleWidth)
	}
	return p.scale(w, h, p.zoom, RuleZoom)
}

func (p Profile) scale(w, h int, factor float64, rule Rule) Decision {
	return Decision{
		Size: Size{W: Even(float64(w) * factor), H: Even(float64(h) * factor)},
		Rule: rule,
	}
}

// Even rounds v to the nearest even integer. Halves round away from zero,
// so Even(75) == 76.
func Even(v float64) int {
	return 2 * int(math.Round(v/2))
}
