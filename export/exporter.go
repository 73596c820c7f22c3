package export

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/setanarut/stencilbuilder"
	"github.com/setanarut/stencilbuilder/mesh"
)

// ErrWrite marks a failed output file. Failures are reported per file;
// files already written are never rolled back.
var ErrWrite = errors.New("export: write failed")

// Exporter writes one run's outputs into a directory using a shared
// filename template.
type Exporter struct {
	Dir      string
	Template string
	// Source is the input image's base name, substituted for {name}.
	Source string
	Logger *zap.Logger
}

func NewExporter(dir, template, source string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if template == "" {
		template = DefaultTemplate
	}
	return &Exporter{Dir: dir, Template: template, Source: source, Logger: logger}
}

// SVGs writes one cut file per layer. Failures are collected per file;
// the remaining layers still export.
func (e *Exporter) SVGs(res *stencilbuilder.Result, opt SVGOptions) error {
	var errs []error
	for _, layer := range res.Layers {
		err := e.writeFile(e.path(layer, ".svg"), func(w io.Writer) error {
			return WriteSVG(w, layer.Polygons, layer.Color, res.Width, res.Height, opt)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DXFs writes one CAD polyline file per layer in physical units.
func (e *Exporter) DXFs(res *stencilbuilder.Result, targetWidth float64) error {
	var errs []error
	for _, layer := range res.Layers {
		err := e.writeFile(e.path(layer, ".dxf"), func(w io.Writer) error {
			return WriteDXF(w, layer.Polygons, res.Width, res.Height, targetWidth)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// STLs writes one triangle-mesh file per non-empty layer mesh.
func (e *Exporter) STLs(res *stencilbuilder.Result, meshes []mesh.LayerMesh) error {
	var errs []error
	for _, lm := range meshes {
		if lm.Layer < 1 || lm.Layer > len(res.Layers) {
			e.Logger.Warn("mesh without matching layer", zap.Int("layer", lm.Layer))
			continue
		}
		if lm.Empty() {
			e.Logger.Info("empty layer mesh skipped", zap.Int("layer", lm.Layer))
			continue
		}
		path := e.path(res.Layers[lm.Layer-1], ".stl")
		if err := lm.Mesh.SaveGroupedSTL(path); err != nil {
			e.Logger.Error("write failed", zap.String("path", path), zap.Error(err))
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrWrite, path, err))
			continue
		}
		e.Logger.Info("wrote", zap.String("path", path),
			zap.Float64("volume", lm.Volume),
			zap.Float64("grams", mesh.PLAWeightGrams(lm.Volume)))
	}
	return errors.Join(errs...)
}

// Previews writes the combined raster and flat vector renderings.
func (e *Exporter) Previews(res *stencilbuilder.Result) error {
	var errs []error
	raster := filepath.Join(e.Dir, e.Source+"_preview.png")
	if err := e.writeFile(raster, func(w io.Writer) error {
		return png.Encode(w, res.Preview())
	}); err != nil {
		errs = append(errs, err)
	}
	vec := filepath.Join(e.Dir, e.Source+"_vector_preview.png")
	if err := e.writeFile(vec, func(w io.Writer) error {
		return png.Encode(w, res.VectorPreview())
	}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Masks writes each cleaned layer mask as a grayscale PNG, handy while
// tuning denoise and blob thresholds.
func (e *Exporter) Masks(res *stencilbuilder.Result) error {
	var errs []error
	for _, layer := range res.Layers {
		err := e.writeFile(e.path(layer, "_mask.png"), func(w io.Writer) error {
			return png.Encode(w, layer.Mask)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Exporter) path(layer stencilbuilder.Layer, ext string) string {
	return filepath.Join(e.Dir, Filename(e.Template, e.Source, layer.Color, layer.ID)+ext)
}

func (e *Exporter) writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err == nil {
		err = fill(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		e.Logger.Error("write failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	e.Logger.Info("wrote", zap.String("path", path))
	return nil
}
