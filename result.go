package stencilbuilder

import (
	"image"
	"image/color"

	"github.com/setanarut/stencilbuilder/contour"
)

// Layer is one fabricable output unit: a representative color, a binary
// mask (pixels are 0 or 255), and the traced boundary polygons.
type Layer struct {
	// ID is the 1-based position of the layer in the result.
	ID    int
	Color color.RGBA
	Mask  *image.Gray
	// Polygons are the mask boundaries with first-level holes, traced
	// after cleanup.
	Polygons []contour.Polygon
	// Orphan is set on the synthetic layer covering area no palette
	// color claimed. At most one per result, always last.
	Orphan bool
}

// Area counts foreground pixels in the layer mask.
func (l Layer) Area() int {
	return maskArea(l.Mask)
}

// Result is the output of one pipeline run. Layers are ordered by id
// (always the compact range 1..N) and owned by the caller; the pipeline
// keeps no reference after handing a Result over.
type Result struct {
	Width  int
	Height int
	Layers []Layer
}

// LayerPolygons collects the traced polygons of every layer in layer
// order, the shape mesh building expects.
func (res *Result) LayerPolygons() [][]contour.Polygon {
	out := make([][]contour.Polygon, len(res.Layers))
	for i, layer := range res.Layers {
		out[i] = layer.Polygons
	}
	return out
}
