package contour

import (
	"math"
	"slices"

	"github.com/unixpickle/model3d/model2d"
)

// Perimeter sums the ring's edge lengths, including the closing edge.
func Perimeter(r Ring) float64 {
	total := 0.0
	for i, p := range r {
		total += p.Dist(r[(i+1)%len(r)])
	}
	return total
}

// Area is the signed shoelace area in raster coordinates.
func Area(r Ring) float64 {
	total := 0.0
	for i, p := range r {
		q := r[(i+1)%len(r)]
		total += p.X*q.Y - q.X*p.Y
	}
	return total / 2
}

// orient reverses the ring when its winding does not match the
// positive-outer / negative-hole convention.
func orient(r Ring, outer bool) Ring {
	if a := Area(r); (outer && a < 0) || (!outer && a > 0) {
		slices.Reverse(r)
	}
	return r
}

// simplifyRing runs Douglas-Peucker on a closed ring with tolerance
// smoothing x the ring's own perimeter. The ring splits at its start
// and the vertex farthest from it, each open chain simplifies
// independently, and leftover collinear anchors are dropped afterwards.
func simplifyRing(r Ring, smoothing float64) Ring {
	if len(r) < 3 {
		return r
	}
	tol := smoothing * Perimeter(r)
	if tol <= 0 {
		return r
	}
	split := 0
	maxDist := -1.0
	for i, p := range r {
		if d := p.Dist(r[0]); d > maxDist {
			maxDist = d
			split = i
		}
	}
	if split == 0 {
		return nil // every vertex coincides with the start
	}
	first := dpChain(r[:split+1], tol)
	back := append(Ring{}, r[split:]...)
	back = append(back, r[0])
	second := dpChain(back, tol)
	out := append(first[:len(first)-1:len(first)-1], second[:len(second)-1]...)
	return dropCollinear(out, tol)
}

// dpChain simplifies an open polyline, always keeping both endpoints.
func dpChain(pts Ring, tol float64) Ring {
	if len(pts) <= 2 {
		return pts
	}
	a, b := pts[0], pts[len(pts)-1]
	maxDist := -1.0
	idx := 0
	for i := 1; i < len(pts)-1; i++ {
		if d := lineDist(pts[i], a, b); d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= tol {
		return Ring{a, b}
	}
	left := dpChain(pts[:idx+1], tol)
	right := dpChain(pts[idx:], tol)
	return append(left[:len(left)-1:len(left)-1], right...)
}

// dropCollinear removes vertices within tol of the line through their
// ring neighbors. The split anchors of simplifyRing are not protected
// by Douglas-Peucker itself, so without this pass a rectangle traced
// from a mid-edge start would keep a fifth vertex there.
func dropCollinear(r Ring, tol float64) Ring {
	changed := true
	for changed && len(r) > 3 {
		changed = false
		for i := 0; i < len(r) && len(r) > 3; i++ {
			prev := r[(i+len(r)-1)%len(r)]
			next := r[(i+1)%len(r)]
			if lineDist(r[i], prev, next) <= tol {
				r = slices.Delete(r, i, i+1)
				changed = true
				i--
			}
		}
	}
	return r
}

// lineDist is the distance from p to the infinite line through a and b,
// or to a when the line degenerates.
func lineDist(p, a, b model2d.Coord) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	return math.Abs(dy*(p.X-a.X)-dx*(p.Y-a.Y)) / math.Sqrt(lenSq)
}
