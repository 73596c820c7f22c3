package stencilbuilder

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"github.com/setanarut/stencilbuilder/contour"
)

// Preview paints every layer mask over white in layer order. Masks are
// mutually exclusive after compositing, so this reconstructs the
// quantized image with cleanup applied.
func (res *Result) Preview() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	for i := range out.Pix {
		out.Pix[i] = 255
	}
	for _, layer := range res.Layers {
		c := layer.Color
		for idx, v := range layer.Mask.Pix {
			if v == 0 {
				continue
			}
			base := idx * 4
			out.Pix[base] = c.R
			out.Pix[base+1] = c.G
			out.Pix[base+2] = c.B
		}
	}
	return out
}

// LayerImage renders one layer as its color over transparency.
func (res *Result) LayerImage(i int) *image.NRGBA {
	layer := res.Layers[i]
	out := image.NewNRGBA(image.Rect(0, 0, res.Width, res.Height))
	c := layer.Color
	for idx, v := range layer.Mask.Pix {
		if v == 0 {
			continue
		}
		base := idx * 4
		out.Pix[base] = c.R
		out.Pix[base+1] = c.G
		out.Pix[base+2] = c.B
		out.Pix[base+3] = 255
	}
	return out
}

// VectorPreview rasterizes the traced polygons back-to-front over
// white. Holes are cosmetic in this flat rendering: the layers painted
// on top supply the pixels a hole exposes.
func (res *Result) VectorPreview() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	for i := range out.Pix {
		out.Pix[i] = 255
	}
	for _, layer := range res.Layers {
		fillOuterRings(out, layer.Polygons, layer.Color)
	}
	return out
}

func fillOuterRings(dst *image.RGBA, polys []contour.Polygon, c color.RGBA) {
	if len(polys) == 0 {
		return
	}
	r := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	for _, p := range polys {
		ring := p.Outer
		if len(ring) < 3 {
			continue
		}
		r.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, pt := range ring[1:] {
			r.LineTo(float32(pt.X), float32(pt.Y))
		}
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
