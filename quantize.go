package stencilbuilder

import (
	"image/color"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// quantize fills Labels and RawColors. An explicit palette classifies
// every pixel to its nearest entry; an empty palette clusters
// Options.MaxColors centers from the pixels themselves.
func (sb *StencilBuilder) quantize(opt Options) {
	if len(sb.Palette) > 0 {
		sb.Labels = classify(&sb.Rgb, sb.Palette)
		sb.RawColors = sb.Palette
		return
	}
	sb.Labels, sb.RawColors = cluster(&sb.Rgb, opt.MaxColors)
	sb.Logger.Debug("clustered palette", zap.Int("colors", len(sb.RawColors)))
}

// ============ Classification ============

// classify assigns every pixel the index of the palette entry with the
// smallest squared RGB distance. Ties resolve to the lowest index, so
// repeated runs on identical input produce identical labels.
func classify(rgb *rgb8, palette []color.RGBA) []int {
	labels := make([]int, rgb.W*rgb.H)
	for i := range labels {
		off := i * 3
		r := int(rgb.Pix[off])
		g := int(rgb.Pix[off+1])
		b := int(rgb.Pix[off+2])
		best := 0
		bestDist := math.MaxInt
		for p, c := range palette {
			dr := r - int(c.R)
			dg := g - int(c.G)
			db := b - int(c.B)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				best = p
			}
		}
		labels[i] = best
	}
	return labels
}

// ============ K-means ============

const (
	kmeansAttempts = 10
	kmeansIters    = 10
	kmeansEpsilon  = 1.0
)

// cluster groups pixel colors into k centers: up to kmeansIters
// iterations per attempt with an epsilon stop on center movement, best
// of kmeansAttempts random initializations by compactness. Centers are
// rounded to 8 bits per channel. Cluster order varies run to run.
func cluster(rgb *rgb8, k int) ([]int, []color.RGBA) {
	n := rgb.W * rgb.H
	k = clampInt(k, 1, n)
	bestLabels := make([]int, n)
	bestCenters := make([]float64, k*3)
	bestCompactness := math.Inf(1)

	labels := make([]int, n)
	centers := make([]float64, k*3)
	prev := make([]float64, k*3)
	sums := make([]float64, k*3)
	counts := make([]int, k)
	for attempt := 0; attempt < kmeansAttempts; attempt++ {
		seedCenters(rgb, centers, k)
		for iter := 0; iter < kmeansIters; iter++ {
			assign(rgb, centers, labels)
			copy(prev, centers)
			moveCenters(rgb, labels, centers, sums, counts)
			if maxCenterShift(prev, centers, k) < kmeansEpsilon {
				break
			}
		}
		compactness := assign(rgb, centers, labels)
		if compactness < bestCompactness {
			bestCompactness = compactness
			copy(bestCenters, centers)
			copy(bestLabels, labels)
		}
	}

	out := make([]color.RGBA, k)
	for c := 0; c < k; c++ {
		out[c] = color.RGBA{
			R: uint8(clampInt(int(math.Round(bestCenters[c*3])), 0, 255)),
			G: uint8(clampInt(int(math.Round(bestCenters[c*3+1])), 0, 255)),
			B: uint8(clampInt(int(math.Round(bestCenters[c*3+2])), 0, 255)),
			A: 255,
		}
	}
	return bestLabels, out
}

// assign labels every pixel with its nearest center and returns the
// compactness (total squared distance) of that labeling.
func assign(rgb *rgb8, centers []float64, labels []int) float64 {
	k := len(centers) / 3
	total := 0.0
	for i := range labels {
		off := i * 3
		r := float64(rgb.Pix[off])
		g := float64(rgb.Pix[off+1])
		b := float64(rgb.Pix[off+2])
		best := 0
		bestDist := math.Inf(1)
		for c := 0; c < k; c++ {
			dr := r - centers[c*3]
			dg := g - centers[c*3+1]
			db := b - centers[c*3+2]
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
		total += bestDist
	}
	return total
}

func moveCenters(rgb *rgb8, labels []int, centers, sums []float64, counts []int) {
	for i := range sums {
		sums[i] = 0
	}
	for i := range counts {
		counts[i] = 0
	}
	var px [3]float64
	for i, c := range labels {
		off := i * 3
		px[0] = float64(rgb.Pix[off])
		px[1] = float64(rgb.Pix[off+1])
		px[2] = float64(rgb.Pix[off+2])
		floats.Add(sums[c*3:c*3+3], px[:])
		counts[c]++
	}
	for c, count := range counts {
		if count == 0 {
			// Dead cluster: reseed from a random pixel so all k centers survive.
			off := rand.Intn(len(labels)) * 3
			centers[c*3] = float64(rgb.Pix[off])
			centers[c*3+1] = float64(rgb.Pix[off+1])
			centers[c*3+2] = float64(rgb.Pix[off+2])
			continue
		}
		dst := centers[c*3 : c*3+3]
		copy(dst, sums[c*3:c*3+3])
		floats.Scale(1/float64(count), dst)
	}
}

func maxCenterShift(prev, next []float64, k int) float64 {
	shift := 0.0
	for c := 0; c < k; c++ {
		shift = max(shift, floats.Distance(prev[c*3:c*3+3], next[c*3:c*3+3], 2))
	}
	return shift
}

// seedCenters picks k random pixels as starting centers, retrying a few
// times per slot to avoid duplicate seeds when the image allows it.
func seedCenters(rgb *rgb8, centers []float64, k int) {
	n := rgb.W * rgb.H
	for c := 0; c < k; c++ {
		off := rand.Intn(n) * 3
		for retry := 0; retry < 4; retry++ {
			if !seedTaken(centers[:c*3], rgb.Pix[off:off+3]) {
				break
			}
			off = rand.Intn(n) * 3
		}
		centers[c*3] = float64(rgb.Pix[off])
		centers[c*3+1] = float64(rgb.Pix[off+1])
		centers[c*3+2] = float64(rgb.Pix[off+2])
	}
}

func seedTaken(chosen []float64, px []uint8) bool {
	for c := 0; c < len(chosen); c += 3 {
		if chosen[c] == float64(px[0]) && chosen[c+1] == float64(px[1]) && chosen[c+2] == float64(px[2]) {
			return true
		}
	}
	return false
}

// ============ Denoise ============

// gaussianKernel returns a normalized 1D kernel. Even sizes round up to
// the next odd integer; sigma follows the usual size heuristic so
// strength maps directly onto the kernel footprint.
func gaussianKernel(size int) []float64 {
	if size%2 == 0 {
		size++
	}
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	kernel := make([]float64, size)
	half := size / 2
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// blurRGB applies a separable Gaussian blur in place. Sampling clamps
// to the nearest edge pixel.
func blurRGB(rgb *rgb8, strength int) {
	kernel := gaussianKernel(strength)
	half := len(kernel) / 2
	w, h := rgb.W, rgb.H
	tmp := make([]float64, len(rgb.Pix))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for i, kv := range kernel {
				off := pixOffset(w, clampInt(x+i-half, 0, w-1), y)
				r += kv * float64(rgb.Pix[off])
				g += kv * float64(rgb.Pix[off+1])
				b += kv * float64(rgb.Pix[off+2])
			}
			off := pixOffset(w, x, y)
			tmp[off] = r
			tmp[off+1] = g
			tmp[off+2] = b
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for i, kv := range kernel {
				off := pixOffset(w, x, clampInt(y+i-half, 0, h-1))
				r += kv * tmp[off]
				g += kv * tmp[off+1]
				b += kv * tmp[off+2]
			}
			off := pixOffset(w, x, y)
			rgb.Pix[off] = uint8(clampInt(int(math.Round(r)), 0, 255))
			rgb.Pix[off+1] = uint8(clampInt(int(math.Round(g)), 0, 255))
			rgb.Pix[off+2] = uint8(clampInt(int(math.Round(b)), 0, 255))
		}
	}
}
