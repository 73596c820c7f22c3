package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/setanarut/stencilbuilder/contour"
)

// WriteDXF emits a minimal ENTITIES section of closed lightweight
// polylines in physical units: raster coordinates scale uniformly by
// targetWidth/width and flip vertically, so the drawing origin lands
// at the bottom left the way CAD tools expect.
func WriteDXF(w io.Writer, polys []contour.Polygon, width, height int, targetWidth float64) error {
	if width <= 0 || targetWidth <= 0 {
		return fmt.Errorf("export: bad dxf scaling %dpx to %v", width, targetWidth)
	}
	scale := targetWidth / float64(width)
	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	for _, p := range polys {
		writePolyline(&b, p.Outer, scale, float64(height))
		for _, h := range p.Holes {
			writePolyline(&b, h, scale, float64(height))
		}
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writePolyline(b *strings.Builder, r contour.Ring, scale, pixelH float64) {
	fmt.Fprintf(b, "0\nLWPOLYLINE\n8\n0\n90\n%d\n70\n1\n", len(r))
	for _, p := range r {
		fmt.Fprintf(b, "10\n%.4f\n20\n%.4f\n", p.X*scale, (pixelH-p.Y)*scale)
	}
}
