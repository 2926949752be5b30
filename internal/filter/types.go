package filter

import (
	"fmt"

	vd "github.com/go-ozzo/ozzo-validation/v4"
)

// ID names one of the fixed set of filters.
type ID string

const (
	Grayscale  ID = "grayscale"
	Blur       ID = "blur"
	Sharpen    ID = "sharpen"
	EdgeDetect ID = "edge_detect"
	Brightness ID = "brightness"
	Contrast   ID = "contrast"
	Rotate     ID = "rotate"
	Flip       ID = "flip"
)

// Order is the sequence in which enabled filters are applied, whatever the
// iteration order of a Spec.
var Order = []ID{Grayscale, Blur, Sharpen, EdgeDetect, Brightness, Contrast, Rotate, Flip}

// FlipAxis selects the mirror axis of the flip filter.
type FlipAxis string

const (
	FlipHorizontal FlipAxis = "horizontal"
	FlipVertical   FlipAxis = "vertical"
	FlipBoth       FlipAxis = "both"
)

const (
	DefaultBrightness = 30
	DefaultContrast   = 1.5
	DefaultAngle      = 90.0
	DefaultFlip       = FlipHorizontal
)

// Entry enables one filter and carries its parameters. Value is the
// brightness delta or the contrast clip limit; Angle is the rotation in
// degrees, counter-clockwise. Unset parameters take the filter's default.
type Entry struct {
	Enabled bool     `mapstructure:"enabled"`
	Value   *float64 `mapstructure:"value"`
	Angle   *float64 `mapstructure:"angle"`
	Axis    FlipAxis `mapstructure:"axis"`
}

// Spec maps filters to their settings. Absent or disabled filters are
// skipped, and keys outside the known set are ignored.
type Spec map[ID]Entry

// On is a convenience constructor for an enabled Entry with default parameters.
func On() Entry {
	return Entry{Enabled: true}
}

// WithValue returns an enabled Entry carrying v as its Value.
func WithValue(v float64) Entry {
	return Entry{Enabled: true, Value: &v}
}

// WithAngle returns an enabled rotation Entry.
func WithAngle(deg float64) Entry {
	return Entry{Enabled: true, Angle: &deg}
}

// WithAxis returns an enabled flip Entry.
func WithAxis(axis FlipAxis) Entry {
	return Entry{Enabled: true, Axis: axis}
}

func (e Entry) value(def float64) float64 {
	if e.Value == nil {
		return def
	}
	return *e.Value
}

func (e Entry) angle() float64 {
	if e.Angle == nil {
		return DefaultAngle
	}
	return *e.Angle
}

func (e Entry) axis() FlipAxis {
	if e.Axis == "" {
		return DefaultFlip
	}
	return e.Axis
}

// Validate checks the parameters of every enabled filter.
func (s Spec) Validate() error {
	if e, ok := s[Contrast]; ok && e.Enabled && e.Value != nil {
		if err := vd.Validate(*e.Value, vd.Required, vd.Min(0.0).Exclusive()); err != nil {
			return fmt.Errorf("contrast: %w", err)
		}
	}
	if e, ok := s[Flip]; ok && e.Enabled {
		if err := vd.Validate(string(e.axis()), vd.In(string(FlipHorizontal), string(FlipVertical), string(FlipBoth))); err != nil {
			return fmt.Errorf("flip axis %q: %w", e.Axis, err)
		}
	}
	return nil
}

// Enabled lists the enabled filters in application order.
func (s Spec) Enabled() []ID {
	var ids []ID
	for _, id := range Order {
		if s[id].Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}
