package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/setanarut/stencilbuilder/contour"
)

// SVGOptions toggles optional 2D fabrication extras.
type SVGOptions struct {
	// Kerf compensates for cut width: every shape outsets by half of
	// it so the cut line lands on the intended boundary. Same unit as
	// the polygon coordinates (pixels).
	Kerf float64
	// RegistrationMarks adds corner crosshairs for aligning stacked
	// layers after cutting.
	RegistrationMarks bool
}

// WriteSVG emits one layer as closed filled paths sized to the pixel
// dimensions: move/line/close commands, solid fill in the layer color,
// no stroke. Holes render through the even-odd fill rule.
func WriteSVG(w io.Writer, polys []contour.Polygon, fill color.RGBA, width, height int, opt SVGOptions) error {
	if opt.Kerf > 0 {
		polys = contour.Offset(polys, opt.Kerf/2)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		width, height, width, height)
	for _, p := range polys {
		b.WriteString("  <path d=\"")
		writePath(&b, p.Outer)
		for _, h := range p.Holes {
			b.WriteByte(' ')
			writePath(&b, h)
		}
		fmt.Fprintf(&b, "\" fill=\"#%s\" fill-rule=\"evenodd\" stroke=\"none\"/>\n", HexColor(fill))
	}
	if opt.RegistrationMarks {
		writeRegistrationMarks(&b, width, height)
	}
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writePath(b *strings.Builder, r contour.Ring) {
	for i, p := range r {
		cmd := byte('L')
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(b, "%c%.2f %.2f ", cmd, p.X, p.Y)
	}
	b.WriteByte('Z')
}

// Crosshairs sit just inside each corner and are stroked, not filled,
// so cutters treat them as scored lines.
func writeRegistrationMarks(b *strings.Builder, width, height int) {
	arm := max(4.0, float64(min(width, height))*0.02)
	inset := arm * 1.5
	corners := [4][2]float64{
		{inset, inset},
		{float64(width) - inset, inset},
		{inset, float64(height) - inset},
		{float64(width) - inset, float64(height) - inset},
	}
	for _, c := range corners {
		fmt.Fprintf(b, "  <path d=\"M%.2f %.2f L%.2f %.2f M%.2f %.2f L%.2f %.2f\" stroke=\"black\" stroke-width=\"0.5\" fill=\"none\"/>\n",
			c[0]-arm, c[1], c[0]+arm, c[1], c[0], c[1]-arm, c[0], c[1]+arm)
	}
}
