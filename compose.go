package stencilbuilder

import (
	"image"
	"image/color"
	"math"
)

// composite merges raw color masks into layers per the assignment. A
// nil assignment gives every raw color its own layer. Raw labels are
// mutually exclusive per pixel, so layer masks never overlap here.
func (sb *StencilBuilder) composite() {
	assignment := sb.Assignment
	if len(assignment) == 0 {
		assignment = make([]int, len(sb.RawColors))
		for i := range assignment {
			assignment[i] = i + 1
		}
	}
	numLayers := 0
	for _, id := range assignment {
		numLayers = max(numLayers, id)
	}
	w, h := sb.Rgb.W, sb.Rgb.H
	sb.Layers = make([]Layer, numLayers)
	for i := range sb.Layers {
		sb.Layers[i] = Layer{
			ID:    i + 1,
			Color: representativeColor(sb.RawColors, assignment, i+1),
			Mask:  image.NewGray(image.Rect(0, 0, w, h)),
		}
	}
	for i, raw := range sb.Labels {
		sb.Layers[assignment[raw]-1].Mask.Pix[i] = 255
	}
}

// representativeColor is the per-channel arithmetic mean, rounded, of
// all raw colors mapped to the given layer id.
func representativeColor(rawColors []color.RGBA, assignment []int, id int) color.RGBA {
	var r, g, b float64
	n := 0
	for i, layer := range assignment {
		if layer != id {
			continue
		}
		r += float64(rawColors[i].R)
		g += float64(rawColors[i].G)
		b += float64(rawColors[i].B)
		n++
	}
	if n == 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(math.Round(r / float64(n))),
		G: uint8(math.Round(g / float64(n))),
		B: uint8(math.Round(b / float64(n))),
		A: 255,
	}
}
