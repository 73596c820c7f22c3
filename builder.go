package stencilbuilder

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/setanarut/stencilbuilder/contour"
)

// StencilBuilder converts a raster image into per-color stencil layers:
// quantize pixels against a palette (or cluster one automatically),
// merge raw color masks into layers, clean each mask up, optionally
// promote uncovered area to an orphan layer, and trace the results into
// polygons ready for flat cutting or mesh building.
type StencilBuilder struct {
	InputImage image.Image
	Palette    []color.RGBA
	Assignment []int
	Rgb        rgb8
	Labels     []int
	RawColors  []color.RGBA
	Layers     []Layer
	Logger     *zap.Logger
}

// NewStencilBuilder copies palette and assignment so later caller-side
// edits cannot leak into a running pipeline. An empty palette selects
// auto quantization with Options.MaxColors clusters; a nil assignment
// maps every raw color to its own layer.
func NewStencilBuilder(input image.Image, palette []color.RGBA, assignment []int) *StencilBuilder {
	return &StencilBuilder{
		InputImage: input,
		Palette:    slices.Clone(palette),
		Assignment: slices.Clone(assignment),
		Logger:     zap.NewNop(),
	}
}

// Process runs the whole pipeline synchronously. Use Runner to run it
// on a worker goroutine instead.
func (sb *StencilBuilder) Process(opt Options) (*Result, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := validateJob(sb.Palette, sb.Assignment, opt); err != nil {
		return nil, err
	}
	if err := sb.snapshot(opt); err != nil {
		return nil, err
	}
	return sb.run(opt), nil
}

// run executes the stages after snapshot. Kept separate so Runner can
// snapshot synchronously at submission and defer the rest to a worker.
func (sb *StencilBuilder) run(opt Options) *Result {
	sb.quantize(opt)
	sb.composite()
	sb.cleanup(opt)
	sb.detectOrphans(opt)
	sb.vectorize(opt)
	return sb.takeResult()
}

// ============ Snapshot ============

type rgb8 struct {
	W, H int
	Pix  []uint8 // Interleaved RGB, len = W*H*3
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

// snapshot copies the input into a private RGB buffer, downscaling past
// MaxWidth and pre-blurring when DenoiseStrength > 0. After it returns
// the pipeline never reads InputImage again, so the caller may mutate
// its live image freely while a run is in flight.
func (sb *StencilBuilder) snapshot(opt Options) error {
	if sb.InputImage == nil {
		return fmt.Errorf("%w: nil image", ErrInputImage)
	}
	bounds := sb.InputImage.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty bounds %v", ErrInputImage, bounds)
	}
	src := sb.InputImage
	if opt.MaxWidth > 0 && w > opt.MaxWidth {
		nh := max(1, int(math.Round(float64(h)*float64(opt.MaxWidth)/float64(w))))
		scaled := image.NewRGBA(image.Rect(0, 0, opt.MaxWidth, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Src, nil)
		src = scaled
		bounds = scaled.Bounds()
		w, h = opt.MaxWidth, nh
		sb.Logger.Debug("downscaled input", zap.Int("width", w), zap.Int("height", h))
	}
	sb.Rgb = rgb8{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*3),
	}
	for y := range h {
		for x := range w {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			sb.Rgb.Pix[off] = uint8(r >> 8)
			sb.Rgb.Pix[off+1] = uint8(g >> 8)
			sb.Rgb.Pix[off+2] = uint8(b >> 8)
		}
	}
	if opt.DenoiseStrength > 0 {
		blurRGB(&sb.Rgb, opt.DenoiseStrength)
	}
	return nil
}

// takeResult moves ownership of the finished layers to the caller.
func (sb *StencilBuilder) takeResult() *Result {
	res := &Result{
		Width:  sb.Rgb.W,
		Height: sb.Rgb.H,
		Layers: sb.Layers,
	}
	sb.Layers = nil
	return res
}

// vectorize traces every cleaned mask into polygons with first-level
// holes. Simplification tolerance scales with each boundary's own
// perimeter via Options.Smoothing.
func (sb *StencilBuilder) vectorize(opt Options) {
	for i := range sb.Layers {
		sb.Layers[i].Polygons = contour.Trace(sb.Layers[i].Mask, opt.Smoothing, true)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
