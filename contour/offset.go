package contour

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

const offsetSmoothing = 0.001

// Offset grows (delta > 0) or shrinks (delta < 0) the polygons by a
// fixed distance, rebuilding the boundaries from the signed distance
// field of the originals. Used for cut-width (kerf) compensation
// before 2D export. Shrinking can drop thin features entirely.
func Offset(polys []Polygon, delta float64) []Polygon {
	if len(polys) == 0 || delta == 0 {
		return polys
	}
	mesh := model2d.NewMesh()
	for _, p := range polys {
		addRing(mesh, p.Outer)
		for _, h := range p.Holes {
			addRing(mesh, h)
		}
	}
	empty := true
	mesh.Iterate(func(*model2d.Segment) { empty = false })
	if empty {
		return nil
	}
	sdf := model2d.MeshToSDF(mesh)
	pad := math.Abs(delta) + 1
	lo := model2d.XY(sdf.Min().X-pad, sdf.Min().Y-pad)
	hi := model2d.XY(sdf.Max().X+pad, sdf.Max().Y+pad)
	solid := model2d.CheckedFuncSolid(lo, hi, func(c model2d.Coord) bool {
		return sdf.SDF(c) >= -delta
	})
	remeshed := model2d.MarchingSquaresSearch(solid, max(0.3, math.Abs(delta)/2), 8)
	var out []Polygon
	for _, root := range model2d.MeshToHierarchy(remeshed) {
		out = appendRepaired(out, root, offsetSmoothing)
	}
	return out
}
