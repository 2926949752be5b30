// Package sizing turns a source image size and a sizing policy into the
// dimensions a batch should resize to.
package sizing

import (
	"errors"
	"fmt"
	"image"
	"math"

	vd "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNoPolicy is returned when no sizing policy was supplied.
	ErrNoPolicy = errors.New("no sizing policy: specify a preset, a percentage, a width, a height, or both")
	// ErrInvalidPolicy is returned when a policy carries non-positive parameters.
	ErrInvalidPolicy = errors.New("invalid sizing policy")
)

// Policy is one of FixedWidthHeight, FixedWidth, FixedHeight or Percentage.
type Policy interface {
	fmt.Stringer
	vd.Validatable

	resolve(w, h int) (int, int)
}

// FixedWidthHeight resizes to exactly W x H, ignoring aspect ratio.
type FixedWidthHeight struct {
	W, H int
}

// FixedWidth resizes to width W and derives the height from the aspect ratio.
type FixedWidth struct {
	W int
}

// FixedHeight resizes to height H and derives the width from the aspect ratio.
type FixedHeight struct {
	H int
}

// Percentage scales both dimensions by P/100.
type Percentage struct {
	P float64
}

func (p FixedWidthHeight) Validate() error {
	return vd.ValidateStruct(&p,
		vd.Field(&p.W, vd.Required, vd.Min(1)),
		vd.Field(&p.H, vd.Required, vd.Min(1)),
	)
}

func (p FixedWidth) Validate() error {
	return vd.ValidateStruct(&p, vd.Field(&p.W, vd.Required, vd.Min(1)))
}

func (p FixedHeight) Validate() error {
	return vd.ValidateStruct(&p, vd.Field(&p.H, vd.Required, vd.Min(1)))
}

func (p Percentage) Validate() error {
	return vd.ValidateStruct(&p, vd.Field(&p.P, vd.Required, vd.Min(0.0).Exclusive(), vd.By(finite)))
}

func finite(value any) error {
	if f, ok := value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return errors.New("must be a finite number")
	}
	return nil
}

func (p FixedWidthHeight) String() string { return fmt.Sprintf("%dx%d", p.W, p.H) }
func (p FixedWidth) String() string       { return fmt.Sprintf("width %dpx", p.W) }
func (p FixedHeight) String() string      { return fmt.Sprintf("height %dpx", p.H) }
func (p Percentage) String() string       { return fmt.Sprintf("%g%%", p.P) }

func (p FixedWidthHeight) resolve(_, _ int) (int, int) {
	return p.W, p.H
}

func (p FixedWidth) resolve(w, h int) (int, int) {
	return p.W, h * p.W / w
}

func (p FixedHeight) resolve(w, h int) (int, int) {
	return w * p.H / h, p.H
}

func (p Percentage) resolve(w, h int) (int, int) {
	return int(float64(w) * p.P / 100), int(float64(h) * p.P / 100)
}

// Check reports whether p is usable, wrapping ErrNoPolicy or ErrInvalidPolicy.
func Check(p Policy) error {
	if p == nil {
		return ErrNoPolicy
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidPolicy, p, err)
	}
	return nil
}

// Resolve computes the target size of an image of size orig under p.
// Both components of the result are at least 1.
func Resolve(orig image.Point, p Policy) (image.Point, error) {
	if err := Check(p); err != nil {
		return image.Point{}, err
	}
	if orig.X < 1 || orig.Y < 1 {
		return image.Point{}, fmt.Errorf("source size %dx%d is empty", orig.X, orig.Y)
	}

	w, h := p.resolve(orig.X, orig.Y)
	return image.Pt(max(1, w), max(1, h)), nil
}
