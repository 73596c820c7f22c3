package stencilbuilder

import (
	"image"
	"math"
)

// cleanup denoises every layer mask (closing then opening, which fills
// small gaps before stripping small protrusions) and removes blobs
// under the area threshold.
func (sb *StencilBuilder) cleanup(opt Options) {
	for i := range sb.Layers {
		m := sb.Layers[i].Mask
		if opt.DenoiseStrength > 0 {
			m = closeMask(m, opt.DenoiseStrength)
			m = openMask(m, opt.DenoiseStrength)
		}
		filterBlobs(m, opt.MinBlobSize)
		sb.Layers[i].Mask = m
	}
}

func maskArea(m *image.Gray) int {
	area := 0
	for _, v := range m.Pix {
		if v != 0 {
			area++
		}
	}
	return area
}

// ============ Morphology ============

// ellipseKernel returns offsets of an inscribed elliptical structuring
// element of size d x d, anchored at its center.
func ellipseKernel(d int) []image.Point {
	r := d / 2
	var pts []image.Point
	for i := range d {
		dy := i - r
		dx := 0
		if r > 0 {
			t := 1 - float64(dy*dy)/float64(r*r)
			if t < 0 {
				t = 0
			}
			dx = int(float64(r)*math.Sqrt(t) + 0.5)
		}
		for j := max(0, r-dx); j <= min(d-1, r+dx); j++ {
			pts = append(pts, image.Point{X: j - r, Y: dy})
		}
	}
	return pts
}

// dilateMask grows foreground by the structuring element. Pixels
// outside the image count as background.
func dilateMask(m *image.Gray, kernel []image.Point) *image.Gray {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	for y := range h {
		for x := range w {
			for _, p := range kernel {
				sx, sy := x+p.X, y+p.Y
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					continue
				}
				if m.Pix[sy*m.Stride+sx] != 0 {
					out.Pix[y*out.Stride+x] = 255
					break
				}
			}
		}
	}
	return out
}

// erodeMask shrinks foreground by the structuring element. Pixels
// outside the image count as foreground, so shapes touching the border
// do not erode inward from it.
func erodeMask(m *image.Gray, kernel []image.Point) *image.Gray {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	for y := range h {
		for x := range w {
			keep := uint8(255)
			for _, p := range kernel {
				sx, sy := x+p.X, y+p.Y
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					continue
				}
				if m.Pix[sy*m.Stride+sx] == 0 {
					keep = 0
					break
				}
			}
			out.Pix[y*out.Stride+x] = keep
		}
	}
	return out
}

func closeMask(m *image.Gray, d int) *image.Gray {
	kernel := ellipseKernel(d)
	return erodeMask(dilateMask(m, kernel), kernel)
}

func openMask(m *image.Gray, d int) *image.Gray {
	kernel := ellipseKernel(d)
	return dilateMask(erodeMask(m, kernel), kernel)
}

// ============ Connected components ============

var neighbors8 = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// filterBlobs clears, in place, every 8-connected foreground component
// with area below minArea. The background is never labeled and so never
// kept by accident. Relabeling runs through a per-component area table
// in O(pixels), independent of how many components a noisy mask has.
// minArea <= 0 leaves the mask untouched.
func filterBlobs(m *image.Gray, minArea int) {
	if minArea <= 0 {
		return
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var areas []int
	var queue []int
	for start := range labels {
		if labels[start] >= 0 || m.Pix[(start/w)*m.Stride+start%w] == 0 {
			continue
		}
		id := int32(len(areas))
		area := 0
		labels[start] = id
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			area++
			cx, cy := idx%w, idx/w
			for _, n := range neighbors8 {
				nx, ny := cx+n.X, cy+n.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if labels[nidx] >= 0 || m.Pix[ny*m.Stride+nx] == 0 {
					continue
				}
				labels[nidx] = id
				queue = append(queue, nidx)
			}
		}
		areas = append(areas, area)
	}
	keep := make([]bool, len(areas))
	for id, area := range areas {
		keep[id] = area >= minArea
	}
	for idx, id := range labels {
		if id >= 0 && !keep[id] {
			m.Pix[(idx/w)*m.Stride+idx%w] = 0
		}
	}
}
