// Package filter applies the fixed chain of optional pixel filters to a
// decoded image.
package filter

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrStopped is returned by Apply when the chain was interrupted before all
// enabled stages ran.
var ErrStopped = errors.New("filter chain stopped")

// Stopper is polled before every enabled stage.
type Stopper interface {
	Stopped() bool
}

const (
	edgeLow  = 100
	edgeHigh = 200

	contrastTiles = 8
)

var sharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// Apply runs every enabled filter of spec over img in Order and returns the
// result. img itself is never modified. If stop reports true before a stage,
// Apply returns the image as transformed so far together with ErrStopped.
func Apply(img image.Image, spec Spec, stop Stopper) (*image.NRGBA, error) {
	out := imaging.Clone(img)
	for _, id := range Order {
		entry, ok := spec[id]
		if !ok || !entry.Enabled {
			continue
		}
		if stop != nil && stop.Stopped() {
			return out, ErrStopped
		}
		out = applyOne(out, id, entry)
	}
	return out, nil
}

func applyOne(img *image.NRGBA, id ID, e Entry) *image.NRGBA {
	switch id {
	case Grayscale:
		return imaging.Grayscale(img)
	case Blur:
		return gaussianBlur(img, blurKernel)
	case Sharpen:
		return imaging.Convolve3x3(img, sharpenKernel, nil)
	case EdgeDetect:
		return detectEdges(img, edgeLow, edgeHigh)
	case Brightness:
		return adjustBrightness(img, int(math.Round(e.value(DefaultBrightness))))
	case Contrast:
		return equalizeLocal(img, e.value(DefaultContrast), contrastTiles)
	case Rotate:
		return rotateInPlace(img, e.angle())
	case Flip:
		switch e.axis() {
		case FlipVertical:
			return imaging.FlipV(img)
		case FlipBoth:
			return imaging.Rotate180(img)
		default:
			return imaging.FlipH(img)
		}
	}
	return img
}

// adjustBrightness shifts the HSV value channel by delta/255, clamped.
func adjustBrightness(img *image.NRGBA, delta int) *image.NRGBA {
	if delta == 0 {
		return imaging.Clone(img)
	}
	shift := float64(delta) / 255
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		h, s, v := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Hsv()
		v = math.Min(1, math.Max(0, v+shift))
		r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})
}

// rotateInPlace turns img about its centre and keeps the original canvas
// size; overflowing corners are cropped and uncovered areas are black.
func rotateInPlace(img *image.NRGBA, deg float64) *image.NRGBA {
	b := img.Bounds()
	turned := imaging.Rotate(img, deg, color.Black)
	return imaging.PasteCenter(imaging.New(b.Dx(), b.Dy(), color.Black), turned)
}
