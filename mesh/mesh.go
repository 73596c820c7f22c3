// Package mesh turns traced layer polygons into extruded fabricable
// solids: cutout plates in stencil mode, standalone pieces in solid
// mode.
package mesh

import (
	"errors"
	"fmt"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/zap"

	"github.com/setanarut/stencilbuilder/contour"
)

// ErrGeometry marks a locally recovered geometry failure. The failing
// piece is skipped and logged; the rest of the layer continues.
var ErrGeometry = errors.New("mesh: geometry operation failed")

// Config describes one 3D export. All lengths share one physical unit
// (millimeters by convention).
type Config struct {
	// TargetWidth is the physical width of the image area.
	TargetWidth float64
	// Height is the extrusion height of every piece.
	Height float64
	// Border grows the stencil backing plate by this margin on all
	// sides; in solid mode a positive value adds a picture-frame piece
	// around the image area instead.
	Border float64
	// Bridge is the connector width keeping would-be-floating islands
	// attached to the plate in stencil mode. 0 disables bridging.
	Bridge float64
	// Inverted selects stencil mode: material remains where the shapes
	// are not, and the shapes become cutouts.
	Inverted bool
}

// LayerMesh is one layer's extruded solid. Mesh may be empty when the
// layer produced no shapes; that is a skippable result, not an error.
type LayerMesh struct {
	Layer  int
	Mesh   *model3d.Mesh
	Volume float64
}

// Empty reports whether the layer produced no geometry.
func (lm LayerMesh) Empty() bool {
	empty := true
	lm.Mesh.Iterate(func(*model3d.Triangle) {
		empty = false
	})
	return empty
}

// Build composes and extrudes every layer. polygons is indexed by
// 0-based layer position; width and height are the source pixel
// dimensions the polygons were traced in. The returned total is the
// material volume summed across all layers and pieces.
func Build(polygons [][]contour.Polygon, width, height int, cfg Config, logger *zap.Logger) ([]LayerMesh, float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 || height <= 0 {
		return nil, 0, fmt.Errorf("mesh: bad source dimensions %dx%d", width, height)
	}
	if cfg.TargetWidth <= 0 || cfg.Height <= 0 {
		return nil, 0, fmt.Errorf("mesh: target width and extrusion height must be positive")
	}
	out := make([]LayerMesh, 0, len(polygons))
	total := 0.0
	for i, polys := range polygons {
		lm := buildLayer(polys, width, height, cfg, logger.With(zap.Int("layer", i+1)))
		lm.Layer = i + 1
		total += lm.Volume
		out = append(out, lm)
	}
	logger.Info("meshes built",
		zap.Int("layers", len(out)),
		zap.Float64("volume", total))
	return out, total, nil
}

func buildLayer(polys []contour.Polygon, width, height int, cfg Config, log *zap.Logger) LayerMesh {
	scale := cfg.TargetWidth / float64(width)
	targetH := float64(height) * scale
	var shape model2d.Solid
	if cfg.Inverted {
		shape = stencilShape(polys, scale, float64(height), cfg, log)
	} else {
		shape = solidShape(polys, scale, float64(height), targetH, cfg, log)
	}
	if shape == nil {
		return LayerMesh{Mesh: model3d.NewMesh()}
	}
	mesh2 := model2d.MarchingSquaresSearch(shape, marchDelta(scale, cfg), 8)
	if meshEmpty(mesh2) {
		return LayerMesh{Mesh: model3d.NewMesh()}
	}
	mesh3 := model3d.ProfileMesh(mesh2, 0, cfg.Height)
	return LayerMesh{Mesh: mesh3, Volume: Volume(mesh3)}
}

// stencilShape is the backing plate minus every polygon, with each
// polygon's removed material reduced by its hole bridges so islands
// stay attached.
func stencilShape(polys []contour.Polygon, scale, pixelH float64, cfg Config, log *zap.Logger) model2d.Solid {
	targetH := pixelH * scale
	plate := &model2d.Rect{
		MinVal: model2d.XY(-cfg.Border, -cfg.Border),
		MaxVal: model2d.XY(cfg.TargetWidth+cfg.Border, targetH+cfg.Border),
	}
	var cuts []model2d.Solid
	for i, p := range polys {
		cut, err := cutSolid(p, scale, pixelH, cfg.Bridge, log)
		if err != nil {
			log.Warn("polygon skipped", zap.Int("polygon", i), zap.Error(err))
			continue
		}
		cuts = append(cuts, cut)
	}
	if len(cuts) == 0 {
		return plate
	}
	return &model2d.SubtractedSolid{
		Positive: plate,
		Negative: model2d.JoinedSolid(cuts),
	}
}

// solidShape unions the polygons themselves, holes preserved as true
// absence of material, plus an optional picture-frame border piece.
func solidShape(polys []contour.Polygon, scale, pixelH, targetH float64, cfg Config, log *zap.Logger) model2d.Solid {
	var pieces []model2d.Solid
	for i, p := range polys {
		piece, err := polygonSolid(p, scale, pixelH)
		if err != nil {
			log.Warn("polygon skipped", zap.Int("polygon", i), zap.Error(err))
			continue
		}
		pieces = append(pieces, piece)
	}
	if cfg.Border > 0 {
		pieces = append(pieces, &model2d.SubtractedSolid{
			Positive: &model2d.Rect{
				MinVal: model2d.XY(-cfg.Border, -cfg.Border),
				MaxVal: model2d.XY(cfg.TargetWidth+cfg.Border, targetH+cfg.Border),
			},
			Negative: &model2d.Rect{
				MinVal: model2d.XY(0, 0),
				MaxVal: model2d.XY(cfg.TargetWidth, targetH),
			},
		})
	}
	if len(pieces) == 0 {
		return nil
	}
	return model2d.JoinedSolid(pieces)
}

// polygonSolid is the polygon's filled region: outer ring minus holes.
func polygonSolid(p contour.Polygon, scale, pixelH float64) (model2d.Solid, error) {
	outer, err := ringSolid(transformRing(p.Outer, scale, pixelH))
	if err != nil {
		return nil, err
	}
	if len(p.Holes) == 0 {
		return outer, nil
	}
	holes := make(model2d.JoinedSolid, 0, len(p.Holes))
	for _, h := range p.Holes {
		hs, err := ringSolid(transformRing(h, scale, pixelH))
		if err != nil {
			return nil, err
		}
		holes = append(holes, hs)
	}
	return &model2d.SubtractedSolid{Positive: outer, Negative: holes}, nil
}

// cutSolid is the material a polygon removes from the stencil plate:
// the filled region minus one bridge per hole. A failing bridge is
// skipped on its own; the cut still happens.
func cutSolid(p contour.Polygon, scale, pixelH, bridgeWidth float64, log *zap.Logger) (model2d.Solid, error) {
	outerRing := transformRing(p.Outer, scale, pixelH)
	cut, err := ringSolid(outerRing)
	if err != nil {
		return nil, err
	}
	var holes model2d.JoinedSolid
	var bridges model2d.JoinedSolid
	for i, h := range p.Holes {
		holeRing := transformRing(h, scale, pixelH)
		hs, err := ringSolid(holeRing)
		if err != nil {
			log.Warn("hole skipped", zap.Int("hole", i), zap.Error(err))
			continue
		}
		holes = append(holes, hs)
		if bridgeWidth <= 0 {
			continue
		}
		bridge, err := bridgeSolid(holeRing, outerRing, bridgeWidth)
		if err != nil {
			log.Warn("bridge skipped", zap.Int("hole", i), zap.Error(err))
			continue
		}
		bridges = append(bridges, bridge)
	}
	if len(holes) > 0 {
		cut = &model2d.SubtractedSolid{Positive: cut, Negative: holes}
	}
	if len(bridges) > 0 {
		cut = &model2d.SubtractedSolid{Positive: cut, Negative: bridges}
	}
	return cut, nil
}

// transformRing maps raster coordinates into fabrication coordinates:
// uniform scale plus a vertical flip, since raster y grows downward but
// the physical origin sits at the bottom left.
func transformRing(r contour.Ring, scale, pixelH float64) []model2d.Coord {
	out := make([]model2d.Coord, len(r))
	for i, p := range r {
		out[i] = model2d.XY(p.X*scale, (pixelH-p.Y)*scale)
	}
	return out
}

func ringSolid(ring []model2d.Coord) (model2d.Solid, error) {
	mesh := model2d.NewMesh()
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		if p == q {
			continue
		}
		mesh.Add(&model2d.Segment{p, q})
	}
	if meshEmpty(mesh) {
		return nil, fmt.Errorf("%w: degenerate ring of %d vertices", ErrGeometry, len(ring))
	}
	return model2d.NewColliderSolid(model2d.MeshToCollider(mesh)), nil
}

func meshEmpty(m *model2d.Mesh) bool {
	empty := true
	m.Iterate(func(*model2d.Segment) {
		empty = false
	})
	return empty
}

// marchDelta picks the re-meshing resolution: half a scaled source
// pixel, refined below a quarter bridge width so bridges survive
// sampling, floored so huge targets cannot explode the grid.
func marchDelta(scale float64, cfg Config) float64 {
	delta := scale / 2
	if cfg.Inverted && cfg.Bridge > 0 {
		delta = min(delta, cfg.Bridge/4)
	}
	return max(delta, cfg.TargetWidth/4096)
}
