package mesh

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// Volume computes the enclosed volume of a closed, consistently
// oriented triangle mesh from the divergence theorem: each triangle
// contributes the signed volume of its tetrahedron against the origin.
func Volume(m *model3d.Mesh) float64 {
	total := 0.0
	m.Iterate(func(t *model3d.Triangle) {
		total += t[0].Dot(t[1].Cross(t[2]))
	})
	return math.Abs(total) / 6
}

// PLAWeightGrams estimates printed weight for a volume in cubic
// millimeters at standard PLA density, 1.24 g/cm3.
func PLAWeightGrams(volumeMM3 float64) float64 {
	return volumeMM3 / 1000 * 1.24
}
