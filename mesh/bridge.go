package mesh

import (
	"fmt"

	"github.com/unixpickle/model3d/model2d"
)

// bridgeSolid returns a capsule of the given width connecting a hole
// boundary to the outer boundary through their nearest vertex pair.
// Subtracting it from removed material leaves a strip that keeps the
// island inside the hole attached to the surrounding plate.
func bridgeSolid(hole, outer []model2d.Coord, width float64) (model2d.Solid, error) {
	a, b, err := nearestPoints(hole, outer)
	if err != nil {
		return nil, err
	}
	return capsule(a, b, width), nil
}

// nearestPoints finds the closest vertex pair between two rings.
func nearestPoints(from, to []model2d.Coord) (model2d.Coord, model2d.Coord, error) {
	var bestA, bestB model2d.Coord
	if len(from) == 0 || len(to) == 0 {
		return bestA, bestB, fmt.Errorf("%w: empty ring", ErrGeometry)
	}
	best := -1.0
	for _, p := range from {
		for _, q := range to {
			if d := p.Dist(q); best < 0 || d < best {
				best = d
				bestA, bestB = p, q
			}
		}
	}
	if best <= 0 {
		return bestA, bestB, fmt.Errorf("%w: boundaries touch, no room for a bridge", ErrGeometry)
	}
	return bestA, bestB, nil
}

// capsule is the set of points within width/2 of the segment a-b.
func capsule(a, b model2d.Coord, width float64) model2d.Solid {
	r := width / 2
	lo := model2d.XY(min(a.X, b.X)-r, min(a.Y, b.Y)-r)
	hi := model2d.XY(max(a.X, b.X)+r, max(a.Y, b.Y)+r)
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	return model2d.CheckedFuncSolid(lo, hi, func(c model2d.Coord) bool {
		t := ((c.X-a.X)*dx + (c.Y-a.Y)*dy) / lenSq
		t = max(0, min(1, t))
		px := a.X + t*dx - c.X
		py := a.Y + t*dy - c.Y
		return px*px+py*py <= r*r
	})
}
