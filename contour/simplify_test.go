package contour

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model2d"
)

func square(size float64) Ring {
	return Ring{
		model2d.XY(0, 0),
		model2d.XY(size, 0),
		model2d.XY(size, size),
		model2d.XY(0, size),
	}
}

func TestPerimeterAndArea(t *testing.T) {
	sq := square(10)
	if got := Perimeter(sq); math.Abs(got-40) > 1e-9 {
		t.Errorf("Perimeter() = %v, want 40", got)
	}
	if got := Area(sq); math.Abs(got-100) > 1e-9 {
		t.Errorf("Area() = %v, want 100", got)
	}
	reversed := append(Ring{}, sq...)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	if got := Area(reversed); math.Abs(got+100) > 1e-9 {
		t.Errorf("Area() of reversed ring = %v, want -100", got)
	}
}

func TestOrientEnforcesWinding(t *testing.T) {
	cw := Ring{
		model2d.XY(0, 0),
		model2d.XY(0, 10),
		model2d.XY(10, 10),
		model2d.XY(10, 0),
	}
	if got := Area(orient(append(Ring{}, cw...), true)); got <= 0 {
		t.Errorf("outer ring area after orient = %v, want positive", got)
	}
	if got := Area(orient(square(10), false)); got >= 0 {
		t.Errorf("hole ring area after orient = %v, want negative", got)
	}
}

func TestSimplifyDropsCollinearVertices(t *testing.T) {
	// A square with a redundant midpoint on every edge.
	ring := Ring{
		model2d.XY(0, 0), model2d.XY(5, 0),
		model2d.XY(10, 0), model2d.XY(10, 5),
		model2d.XY(10, 10), model2d.XY(5, 10),
		model2d.XY(0, 10), model2d.XY(0, 5),
	}
	got := simplifyRing(ring, 0.005)
	if len(got) != 4 {
		t.Fatalf("simplified ring has %d vertices, want 4: %v", len(got), got)
	}
	if a := math.Abs(Area(got)); math.Abs(a-100) > 1e-6 {
		t.Errorf("simplified area = %v, want 100", a)
	}
}

func TestSimplifyKeepsRealCorners(t *testing.T) {
	ring := square(10)
	got := simplifyRing(append(Ring{}, ring...), 0.005)
	if len(got) != 4 {
		t.Errorf("simplified square has %d vertices, want all 4 corners", len(got))
	}
}

func TestSimplifyToleranceScalesWithPerimeter(t *testing.T) {
	// A shallow bump: depth 1 on a square of side 100. With smoothing
	// 0.002 the tolerance is ~0.8 and the bump survives; with 0.01 the
	// tolerance is ~4 and the bump flattens away.
	bumped := Ring{
		model2d.XY(0, 0), model2d.XY(45, 0), model2d.XY(50, -1), model2d.XY(55, 0),
		model2d.XY(100, 0), model2d.XY(100, 100), model2d.XY(0, 100),
	}
	fine := simplifyRing(append(Ring{}, bumped...), 0.002)
	if len(fine) < 7 {
		t.Errorf("fine simplification kept %d vertices, want the bump preserved (7)", len(fine))
	}
	coarse := simplifyRing(append(Ring{}, bumped...), 0.01)
	if len(coarse) != 4 {
		t.Errorf("coarse simplification kept %d vertices, want the bump flattened to 4", len(coarse))
	}
}

func TestDpChainKeepsEndpoints(t *testing.T) {
	chain := Ring{model2d.XY(0, 0), model2d.XY(5, 0.1), model2d.XY(10, 0)}
	got := dpChain(chain, 1)
	if len(got) != 2 {
		t.Fatalf("dpChain kept %d vertices, want the 2 endpoints", len(got))
	}
	if got[0] != chain[0] || got[1] != chain[2] {
		t.Errorf("dpChain endpoints = %v, want %v and %v", got, chain[0], chain[2])
	}
}

func TestLineDist(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b model2d.Coord
		want    float64
	}{
		{"above horizontal line", model2d.XY(5, 3), model2d.XY(0, 0), model2d.XY(10, 0), 3},
		{"on the line", model2d.XY(7, 0), model2d.XY(0, 0), model2d.XY(10, 0), 0},
		{"beyond the segment still measures the line", model2d.XY(20, 4), model2d.XY(0, 0), model2d.XY(10, 0), 4},
		{"degenerate segment measures the point", model2d.XY(3, 4), model2d.XY(0, 0), model2d.XY(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineDist(tt.p, tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("lineDist() = %v, want %v", got, tt.want)
			}
		})
	}
}
