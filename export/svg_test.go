package export

import (
	"image/color"
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model2d"

	"github.com/setanarut/stencilbuilder/contour"
)

func donutPolys() []contour.Polygon {
	return []contour.Polygon{{
		Outer: contour.Ring{
			model2d.XY(0, 0), model2d.XY(10, 0), model2d.XY(10, 10), model2d.XY(0, 10),
		},
		Holes: []contour.Ring{{
			model2d.XY(3, 3), model2d.XY(3, 7), model2d.XY(7, 7), model2d.XY(7, 3),
		}},
	}}
}

func TestWriteSVG(t *testing.T) {
	var b strings.Builder
	red := color.RGBA{R: 255, A: 255}
	if err := WriteSVG(&b, donutPolys(), red, 10, 10, SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">`,
		`fill="#ff0000"`,
		`fill-rule="evenodd"`,
		`stroke="none"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, "<path"); got != 1 {
		t.Errorf("path count = %d, want 1 (hole shares the outer's path)", got)
	}
	if got := strings.Count(out, "M"); got != 2 {
		t.Errorf("move command count = %d, want one per ring", got)
	}
	if got := strings.Count(out, "Z"); got != 2 {
		t.Errorf("close command count = %d, want one per ring", got)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("output does not end with the closing tag")
	}
}

func TestWriteSVGCoordinates(t *testing.T) {
	var b strings.Builder
	polys := []contour.Polygon{{
		Outer: contour.Ring{model2d.XY(1.234, 5.678), model2d.XY(8, 0), model2d.XY(4, 9)},
	}}
	if err := WriteSVG(&b, polys, color.RGBA{A: 255}, 10, 10, SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if !strings.Contains(b.String(), "M1.23 5.68 L8.00 0.00 L4.00 9.00 Z") {
		t.Errorf("path data = %q, want rounded M/L/Z commands", b.String())
	}
}

func TestWriteSVGRegistrationMarks(t *testing.T) {
	var b strings.Builder
	err := WriteSVG(&b, donutPolys(), color.RGBA{A: 255}, 200, 200, SVGOptions{RegistrationMarks: true})
	if err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if got := strings.Count(b.String(), `stroke="black"`); got != 4 {
		t.Errorf("registration mark count = %d, want one per corner", got)
	}
}

func TestWriteSVGKerfGrowsShapes(t *testing.T) {
	var noKerf, kerf strings.Builder
	if err := WriteSVG(&noKerf, donutPolys(), color.RGBA{A: 255}, 10, 10, SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if err := WriteSVG(&kerf, donutPolys(), color.RGBA{A: 255}, 10, 10, SVGOptions{Kerf: 1}); err != nil {
		t.Fatalf("WriteSVG() with kerf error = %v", err)
	}
	if noKerf.String() == kerf.String() {
		t.Errorf("kerf compensation left the paths unchanged")
	}
	if !strings.Contains(kerf.String(), "<path") {
		t.Errorf("kerf output lost its paths")
	}
}

func TestWriteSVGEmptyLayer(t *testing.T) {
	var b strings.Builder
	if err := WriteSVG(&b, nil, color.RGBA{A: 255}, 10, 10, SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if strings.Contains(b.String(), "<path") {
		t.Errorf("empty layer produced paths")
	}
}
