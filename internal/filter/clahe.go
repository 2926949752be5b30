package filter

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// equalizeLocal applies contrast-limited adaptive histogram equalization to
// the L channel of CIE Lab, over a tiles x tiles grid, leaving a and b as is.
func equalizeLocal(img *image.NRGBA, clipLimit float64, tiles int) *image.NRGBA {
	out := imaging.Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()

	lum := make([]uint8, w*h)
	la := make([]float64, w*h)
	lb := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := out.Pix[y*out.Stride+x*4:]
			l, a, b := colorful.Color{
				R: float64(p[0]) / 255,
				G: float64(p[1]) / 255,
				B: float64(p[2]) / 255,
			}.Lab()
			i := y*w + x
			lum[i] = uint8(math.Min(255, math.Max(0, math.Round(l*255))))
			la[i], lb[i] = a, b
		}
	}

	tw := (w + tiles - 1) / tiles
	th := (h + tiles - 1) / tiles
	nx := (w + tw - 1) / tw
	ny := (h + th - 1) / th

	luts := make([][256]uint8, nx*ny)
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			x0, y0 := tx*tw, ty*th
			x1, y1 := min(x0+tw, w), min(y0+th, h)
			luts[ty*nx+tx] = tileLUT(lum, w, x0, y0, x1, y1, clipLimit)
		}
	}

	for y := 0; y < h; y++ {
		ty0, ty1, wy := neighbourTiles(y, th, ny)
		for x := 0; x < w; x++ {
			tx0, tx1, wx := neighbourTiles(x, tw, nx)
			i := y*w + x
			v := lum[i]
			top := (1-wx)*float64(luts[ty0*nx+tx0][v]) + wx*float64(luts[ty0*nx+tx1][v])
			bot := (1-wx)*float64(luts[ty1*nx+tx0][v]) + wx*float64(luts[ty1*nx+tx1][v])
			l := ((1-wy)*top + wy*bot) / 255

			r, g, b := colorful.Lab(l, la[i], lb[i]).Clamped().RGB255()
			p := out.Pix[y*out.Stride+x*4:]
			p[0], p[1], p[2] = r, g, b
		}
	}
	return out
}

// neighbourTiles returns the two tile indices around pixel coordinate c and
// the weight of the second one.
func neighbourTiles(c, size, count int) (int, int, float64) {
	f := (float64(c)+0.5)/float64(size) - 0.5
	lo := int(math.Floor(f))
	weight := f - float64(lo)
	hi := lo + 1
	lo = min(max(lo, 0), count-1)
	hi = min(max(hi, 0), count-1)
	return lo, hi, weight
}

// tileLUT builds the clipped, redistributed cumulative histogram mapping of
// one tile.
func tileLUT(lum []uint8, stride, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[lum[y*stride+x]]++
		}
	}
	area := (x1 - x0) * (y1 - y0)

	limit := max(1, int(clipLimit*float64(area)/256))
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	bonus, rest := excess/256, excess%256
	for i := range hist {
		hist[i] += bonus
	}
	if rest > 0 {
		step := max(1, 256/rest)
		for i := 0; i < 256 && rest > 0; i += step {
			hist[i]++
			rest--
		}
	}

	var lut [256]uint8
	scale := 255 / float64(area)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = uint8(math.Min(255, math.Round(float64(sum)*scale)))
	}
	return lut
}
