package filter

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	tan22 = 0.41421356 // tan(22.5deg)
	tan67 = 2.41421356 // tan(67.5deg)
)

// detectEdges produces a Canny edge map (3x3 Sobel, L1 magnitude, non-maximum
// suppression, hysteresis between low and high) expanded back to RGBA.
func detectEdges(img *image.NRGBA, low, high int) *image.NRGBA {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	lum := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			lum[y*w+x] = int(row[x*4])
		}
	}
	at := func(x, y int) int {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return lum[y*w+x]
	}

	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			dy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			i := y*w + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}
	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	var stack []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}
			ax, ay := float64(abs(gx[i])), float64(abs(gy[i]))
			var n1, n2 int
			switch {
			case ay <= ax*tan22:
				n1, n2 = magAt(x-1, y), magAt(x+1, y)
			case ay >= ax*tan67:
				n1, n2 = magAt(x, y-1), magAt(x, y+1)
			case (gx[i] < 0) == (gy[i] < 0):
				n1, n2 = magAt(x-1, y-1), magAt(x+1, y+1)
			default:
				n1, n2 = magAt(x+1, y-1), magAt(x-1, y+1)
			}
			if m <= n1 || m < n2 {
				continue
			}
			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if state[y*w+x] == strong {
				v = 255
			}
			p := out.Pix[y*out.Stride+x*4:]
			p[0], p[1], p[2], p[3] = v, v, v, 255
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
