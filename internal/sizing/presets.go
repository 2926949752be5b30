package sizing

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named, ready-made sizing policy.
type Preset struct {
	Name   string
	Label  string
	Policy Policy
}

var presets = []Preset{
	{"800x600", "800x600", FixedWidthHeight{800, 600}},
	{"1024x768", "1024x768", FixedWidthHeight{1024, 768}},
	{"1280x720", "1280x720", FixedWidthHeight{1280, 720}},
	{"1920x1080", "1920x1080", FixedWidthHeight{1920, 1080}},
	{"4k", "3840x2160 (4K)", FixedWidthHeight{3840, 2160}},
	{"25%", "25%", Percentage{25}},
	{"50%", "50%", Percentage{50}},
	{"75%", "75%", Percentage{75}},
	{"150%", "150%", Percentage{150}},
	{"instagram", "Instagram (1080x1080)", FixedWidthHeight{1080, 1080}},
	{"facebook-cover", "Facebook Cover (851x315)", FixedWidthHeight{851, 315}},
	{"twitter-header", "Twitter Header (1500x500)", FixedWidthHeight{1500, 500}},
}

// Presets returns every preset in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == key {
			return p.Policy, nil
		}
	}

	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: unknown preset %q (known: %s)", ErrInvalidPolicy, name, strings.Join(names, ", "))
}
