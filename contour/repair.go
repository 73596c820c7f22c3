package contour

import (
	"github.com/unixpickle/model3d/model2d"
)

// repair returns the polygon unchanged when all its rings are simple.
// Otherwise the shape is rebuilt from its even-odd filled region — a
// zero-width buffer that snaps crossings apart — and re-simplified
// once. Rebuilding can split one polygon into several.
func repair(p Polygon, smoothing float64) []Polygon {
	dirty := selfIntersects(p.Outer)
	for _, h := range p.Holes {
		if dirty {
			break
		}
		dirty = selfIntersects(h)
	}
	if !dirty {
		return []Polygon{p}
	}
	return rebuild(p, smoothing)
}

func rebuild(p Polygon, smoothing float64) []Polygon {
	mesh := model2d.NewMesh()
	addRing(mesh, p.Outer)
	for _, h := range p.Holes {
		addRing(mesh, h)
	}
	solid := model2d.NewColliderSolid(model2d.MeshToCollider(mesh))
	remeshed := model2d.MarchingSquaresSearch(solid, repairDelta(p.Outer), 8)
	var out []Polygon
	for _, root := range model2d.MeshToHierarchy(remeshed) {
		out = appendRepaired(out, root, smoothing)
	}
	return out
}

// appendRepaired mirrors appendHierarchy but never re-enters repair: a
// ring that still self-intersects after simplification is kept at full
// marching-squares resolution instead.
func appendRepaired(polys []Polygon, node *model2d.MeshHierarchy, smoothing float64) []Polygon {
	outer := cleanRepaired(meshRing(node.Mesh), smoothing)
	if len(outer) >= 3 {
		poly := Polygon{Outer: orient(outer, true)}
		for _, hole := range node.Children {
			ring := cleanRepaired(meshRing(hole.Mesh), smoothing)
			if len(ring) >= 3 {
				poly.Holes = append(poly.Holes, orient(ring, false))
			}
		}
		polys = append(polys, poly)
	}
	for _, hole := range node.Children {
		for _, nested := range hole.Children {
			polys = appendRepaired(polys, nested, smoothing)
		}
	}
	return polys
}

func cleanRepaired(r Ring, smoothing float64) Ring {
	simplified := simplifyRing(r, smoothing)
	if len(simplified) >= 3 && !selfIntersects(simplified) {
		return simplified
	}
	return r
}

// repairDelta picks the re-extraction resolution from the dirty ring's
// extent: fine enough to keep sub-pixel features, bounded so huge rings
// cannot explode the sampling grid.
func repairDelta(r Ring) float64 {
	minX, maxX := r[0].X, r[0].X
	minY, maxY := r[0].Y, r[0].Y
	for _, p := range r {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return max(0.35, max(maxX-minX, maxY-minY)/400)
}

func addRing(m *model2d.Mesh, r Ring) {
	for i, p := range r {
		q := r[(i+1)%len(r)]
		if p == q {
			continue
		}
		m.Add(&model2d.Segment{p, q})
	}
}

// ============ Self-intersection ============

// selfIntersects reports whether any two non-adjacent ring edges
// properly cross. Shared endpoints between neighboring edges do not
// count.
func selfIntersects(r Ring) bool {
	n := len(r)
	if n < 4 {
		return false
	}
	for i := range n {
		a1 := r[i]
		a2 := r[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // wraps around to the first edge
			}
			if segmentsCross(a1, a2, r[j], r[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 model2d.Coord) bool {
	d1 := crossSign(b1, b2, a1)
	d2 := crossSign(b1, b2, a2)
	d3 := crossSign(a1, a2, b1)
	d4 := crossSign(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func crossSign(o, a, b model2d.Coord) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
