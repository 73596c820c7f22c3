package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
	"go.uber.org/zap"

	sb "github.com/setanarut/stencilbuilder"
	"github.com/setanarut/stencilbuilder/export"
	"github.com/setanarut/stencilbuilder/mesh"
	"github.com/setanarut/stencilbuilder/utils"
)

func main() {
	var (
		projectPath = flag.String("project", "", "YAML project file; explicit flags override its values")
		input       = flag.String("input", "", "source image (PNG or JPEG)")
		outDir      = flag.String("out", ".", "output directory")
		palette     = flag.String("palette", "", "comma separated hex colors; empty selects the palette automatically")
		layers      = flag.String("layers", "", "comma separated layer ids, one per palette color")
		colors      = flag.Int("colors", 6, "number of colors for the automatic palette")
		maxWidth    = flag.Int("max-width", 800, "downscale wider images to this pixel width (0 disables)")
		denoise     = flag.Int("denoise", 0, "blur and morphology kernel diameter in pixels (0 disables)")
		minBlob     = flag.Int("min-blob", 64, "discard connected regions smaller than this many pixels")
		smoothing   = flag.Float64("smoothing", 0.002, "contour simplification tolerance as a fraction of perimeter")
		orphans     = flag.Bool("orphans", false, "collect pixels lost to cleanup into an extra layer")
		template    = flag.String("template", export.DefaultTemplate, "output filename template ({name}, {color}, {index})")
		saveProject = flag.String("save-project", "", "write the effective settings to this YAML file")

		width    = flag.Float64("width", 100, "physical width of the output in mm")
		height   = flag.Float64("height", 2, "extrusion height of each layer in mm")
		border   = flag.Float64("border", 0, "stencil plate margin or solid frame width in mm")
		bridge   = flag.Float64("bridge", 0, "bridge width holding stencil islands in mm (0 disables)")
		solid    = flag.Bool("solid", false, "build solid color plates instead of stencils")

		doSVG   = flag.Bool("svg", false, "write one SVG per layer")
		doDXF   = flag.Bool("dxf", false, "write one DXF per layer")
		doSTL   = flag.Bool("stl", false, "write one STL per layer")
		doMasks = flag.Bool("masks", false, "write the raw layer masks as PNGs")
		kerf    = flag.Float64("kerf", 0, "outset SVG contours by half this width in pixels")
		regs    = flag.Bool("reg-marks", false, "add corner registration marks to SVGs")

		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	proj := defaultProject()
	if *projectPath != "" {
		var err error
		proj, err = loadProject(*projectPath)
		essentials.Must(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			proj.Image = *input
		case "palette":
			proj.Palette = splitList(*palette)
		case "layers":
			ids, err := parseInts(splitList(*layers))
			essentials.Must(err)
			proj.Layers = ids
		case "colors":
			proj.Options.MaxColors = *colors
		case "max-width":
			proj.Options.MaxWidth = *maxWidth
		case "denoise":
			proj.Options.DenoiseStrength = *denoise
		case "min-blob":
			proj.Options.MinBlobSize = *minBlob
		case "smoothing":
			proj.Options.Smoothing = *smoothing
		case "orphans":
			proj.Options.OrphanedBlobs = *orphans
		case "template":
			proj.Export.Template = *template
		case "width":
			proj.Export.Width = *width
		case "height":
			proj.Export.Height = *height
		case "border":
			proj.Export.Border = *border
		case "bridge":
			proj.Export.Bridge = *bridge
		case "solid":
			proj.Export.Stencil = !*solid
		case "kerf":
			proj.Export.Kerf = *kerf
		case "reg-marks":
			proj.Export.RegMarks = *regs
		}
	})
	if proj.Image == "" {
		essentials.Die("no input image; pass -input or a -project file")
	}

	cfg := zap.NewDevelopmentConfig()
	if !*verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	essentials.Must(err)
	defer logger.Sync()

	img, err := utils.LoadImage(proj.Image)
	essentials.Must(err)

	pal, err := proj.paletteColors()
	essentials.Must(err)
	if len(pal) == 0 {
		logger.Info("no palette given, quantizing automatically",
			zap.Int("colors", proj.Options.MaxColors))
	}

	builder := sb.NewStencilBuilder(img, pal, proj.Layers)
	builder.Logger = logger
	res, err := builder.Process(proj.options())
	essentials.Must(err)
	logger.Info("processing finished",
		zap.Int("layers", len(res.Layers)),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	if *saveProject != "" {
		essentials.Must(proj.save(*saveProject))
	}

	name := strings.TrimSuffix(filepath.Base(proj.Image), filepath.Ext(proj.Image))
	exp := export.NewExporter(*outDir, proj.Export.Template, name, logger)
	essentials.Must(exp.Previews(res))
	if *doMasks {
		essentials.Must(exp.Masks(res))
	}
	if *doSVG {
		essentials.Must(exp.SVGs(res, export.SVGOptions{
			Kerf:              proj.Export.Kerf,
			RegistrationMarks: proj.Export.RegMarks,
		}))
	}
	if *doDXF {
		essentials.Must(exp.DXFs(res, proj.Export.Width))
	}
	if *doSTL {
		meshes, total, err := mesh.Build(res.LayerPolygons(), res.Width, res.Height, mesh.Config{
			TargetWidth: proj.Export.Width,
			Height:      proj.Export.Height,
			Border:      proj.Export.Border,
			Bridge:      proj.Export.Bridge,
			Inverted:    proj.Export.Stencil,
		}, logger)
		essentials.Must(err)
		essentials.Must(exp.STLs(res, meshes))
		fmt.Printf("total volume: %.2f mm3 (about %.1f g of PLA)\n", total, mesh.PLAWeightGrams(total))
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseInts(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("layer id %q: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}
