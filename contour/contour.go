// Package contour traces binary masks into simplified boundary
// polygons with first-level holes.
package contour

import (
	"image"

	"github.com/unixpickle/model3d/model2d"
)

// Ring is a closed boundary in raster coordinates; the edge from the
// last point back to the first is implicit. Outer rings carry positive
// signed area, hole rings negative.
type Ring []model2d.Coord

// Polygon is one outer boundary plus the hole boundaries nested
// directly inside it. Deeper nesting never appears: a solid inside a
// hole becomes its own Polygon.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Trace extracts the boundary polygons of every foreground region of
// mask. Each ring is simplified independently with tolerance
// smoothing x its own perimeter, so simplification strength follows
// feature size rather than a fixed pixel amount. Rings that collapse
// below 3 vertices are dropped; a polygon whose outer ring collapses
// is dropped whole. Self-intersecting results are repaired before they
// are returned. With withHoles false only outer boundaries are traced,
// for flat back-to-front rendering where holes stay cosmetic.
func Trace(mask *image.Gray, smoothing float64, withHoles bool) []Polygon {
	mesh := maskMesh(mask)
	if mesh == nil {
		return nil
	}
	var polys []Polygon
	for _, root := range model2d.MeshToHierarchy(mesh) {
		polys = appendHierarchy(polys, root, smoothing, withHoles)
	}
	return polys
}

func maskMesh(mask *image.Gray) *model2d.Mesh {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	bmp := model2d.NewBitmap(w, h)
	any := false
	for y := range h {
		for x := range w {
			if mask.Pix[y*mask.Stride+x] != 0 {
				bmp.Data[y*w+x] = true
				any = true
			}
		}
	}
	if !any {
		return nil
	}
	return bmp.Mesh()
}

// appendHierarchy flattens the containment tree: even depths are outer
// boundaries, their immediate children are holes, and a solid nested
// inside a hole starts a new top-level polygon.
func appendHierarchy(polys []Polygon, node *model2d.MeshHierarchy, smoothing float64, withHoles bool) []Polygon {
	outer := simplifyRing(meshRing(node.Mesh), smoothing)
	if len(outer) >= 3 {
		poly := Polygon{Outer: orient(outer, true)}
		if withHoles {
			for _, hole := range node.Children {
				ring := simplifyRing(meshRing(hole.Mesh), smoothing)
				if len(ring) >= 3 {
					poly.Holes = append(poly.Holes, orient(ring, false))
				}
			}
		}
		polys = append(polys, repair(poly, smoothing)...)
	}
	for _, hole := range node.Children {
		for _, nested := range hole.Children {
			polys = appendHierarchy(polys, nested, smoothing, withHoles)
		}
	}
	return polys
}

// meshRing walks one closed segment loop into an ordered ring. Pinch
// vertices (shared by two loops of the same mesh) are resolved by
// consuming each outgoing segment at most once.
func meshRing(m *model2d.Mesh) Ring {
	next := map[model2d.Coord][]model2d.Coord{}
	var start model2d.Coord
	count := 0
	m.Iterate(func(s *model2d.Segment) {
		if count == 0 {
			start = s[0]
		}
		next[s[0]] = append(next[s[0]], s[1])
		count++
	})
	if count == 0 {
		return nil
	}
	ring := Ring{start}
	cur := start
	for range count {
		out := next[cur]
		if len(out) == 0 {
			break
		}
		next[cur] = out[:len(out)-1]
		cur = out[len(out)-1]
		if cur == start {
			break
		}
		ring = append(ring, cur)
	}
	return ring
}
