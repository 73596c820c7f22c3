package stencilbuilder

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

const orphanAttempts = 50

// Fallback when no random candidate clears the contrast threshold.
var orphanFallback = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// detectOrphans promotes image area covered by no layer to a synthetic
// final layer. The uncovered region gets opening before closing —
// reversed relative to cleanup, stripping stray slivers before
// bridging gaps — then the same blob filter.
func (sb *StencilBuilder) detectOrphans(opt Options) {
	if !opt.OrphanedBlobs || len(sb.Layers) == 0 {
		return
	}
	w, h := sb.Rgb.W, sb.Rgb.H
	orphan := image.NewGray(image.Rect(0, 0, w, h))
	for i := range orphan.Pix {
		orphan.Pix[i] = 255
	}
	for _, layer := range sb.Layers {
		for i, v := range layer.Mask.Pix {
			if v != 0 {
				orphan.Pix[i] = 0
			}
		}
	}
	if opt.DenoiseStrength > 0 {
		orphan = openMask(orphan, opt.DenoiseStrength)
		orphan = closeMask(orphan, opt.DenoiseStrength)
	}
	filterBlobs(orphan, opt.MinBlobSize)
	area := maskArea(orphan)
	if area == 0 {
		return
	}
	existing := make([]color.RGBA, len(sb.Layers))
	for i, layer := range sb.Layers {
		existing[i] = layer.Color
	}
	sb.Layers = append(sb.Layers, Layer{
		ID:     len(sb.Layers) + 1,
		Color:  synthesizeContrastColor(existing),
		Mask:   orphan,
		Orphan: true,
	})
	sb.Logger.Debug("orphan layer added", zap.Int("area", area))
}

// synthesizeContrastColor samples up to orphanAttempts random colors
// and returns the first whose minimum squared RGB distance to every
// existing representative color clears a threshold. The threshold
// shrinks as layers accumulate: a crowded palette leaves less room for
// contrast.
func synthesizeContrastColor(existing []color.RGBA) color.RGBA {
	threshold := orphanContrastThreshold(len(existing))
	for i := 0; i < orphanAttempts; i++ {
		c := color.RGBA{
			R: uint8(rand.Intn(256)),
			G: uint8(rand.Intn(256)),
			B: uint8(rand.Intn(256)),
			A: 255,
		}
		minDist := math.Inf(1)
		for _, e := range existing {
			dr := float64(c.R) - float64(e.R)
			dg := float64(c.G) - float64(e.G)
			db := float64(c.B) - float64(e.B)
			minDist = min(minDist, dr*dr+dg*dg+db*db)
		}
		if minDist > threshold {
			return c
		}
	}
	return orphanFallback
}

func orphanContrastThreshold(numLayers int) float64 {
	return 48 * 48 * 3 / float64(max(1, numLayers))
}
