package filter

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// blurKernel is a normalized 7-tap Gaussian. The sigma is the one derived
// from the kernel size: 0.3*((7-1)*0.5-1)+0.8.
var blurKernel = gaussianKernel(7, 1.4)

func gaussianKernel(size int, sigma float64) []float64 {
	k := make([]float64, size)
	r := size / 2
	sum := 0.0
	for i := range k {
		x := float64(i - r)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlur convolves img with kernel horizontally and then vertically.
// Samples past the border repeat the edge pixel.
func gaussianBlur(img *image.NRGBA, kernel []float64) *image.NRGBA {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return src
	}
	r := len(kernel) / 2

	tmp := make([]float64, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k, weight := range kernel {
				sx := clampInt(x+k-r, 0, w-1)
				i := y*src.Stride + sx*4
				for c := 0; c < 4; c++ {
					acc[c] += weight * float64(src.Pix[i+c])
				}
			}
			copy(tmp[(y*w+x)*4:], acc[:])
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k, weight := range kernel {
				sy := clampInt(y+k-r, 0, h-1)
				i := (sy*w + x) * 4
				for c := 0; c < 4; c++ {
					acc[c] += weight * tmp[i+c]
				}
			}
			o := y*dst.Stride + x*4
			for c := 0; c < 4; c++ {
				dst.Pix[o+c] = uint8(math.Min(255, math.Max(0, math.Round(acc[c]))))
			}
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
