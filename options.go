package stencilbuilder

import (
	"fmt"
	"image"
	"image/color"
)

type Options struct {
	// Target color count for auto quantization (used only when the
	// palette is empty). Physical reproduction rarely benefits from
	// more than 8 layers.
	MaxColors int
	// Maximum processing width in pixels. Wider inputs are downscaled
	// before quantization, height adjusted proportionally.
	// Higher values => finer detail but slower clustering.
	MaxWidth int
	// Blur and morphology strength in pixels. 0 disables both.
	// Ideal start: 3-7 for photographs, 0 for clean artwork.
	DenoiseStrength int
	// Connected components smaller than this many pixels are removed
	// from every layer mask. 0 keeps everything.
	MinBlobSize int
	// Polyline simplification tolerance as a fraction of each
	// boundary's own perimeter. Ideal start: 0.001-0.005.
	// Too high collapses small features to triangles.
	Smoothing float64
	// Promote image area not covered by any layer to its own final
	// layer with a synthesized contrast color.
	OrphanedBlobs bool
}

func DefaultOptions() Options {
	return Options{
		MaxColors:       6,
		MaxWidth:        800,
		DenoiseStrength: 0,
		MinBlobSize:     64,
		Smoothing:       0.002,
		OrphanedBlobs:   false,
	}
}

func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	pixels := size.X * size.Y
	// Scale the blob threshold with image area so the same relative
	// amount of speckle is removed regardless of input resolution.
	opt.MinBlobSize = max(16, min(256, pixels/10000))
	return opt
}

func (opt Options) Validate() error {
	if opt.Smoothing <= 0 {
		return fmt.Errorf("%w: smoothing factor must be positive, got %v", ErrConfiguration, opt.Smoothing)
	}
	if opt.DenoiseStrength < 0 {
		return fmt.Errorf("%w: denoise strength must be >= 0, got %d", ErrConfiguration, opt.DenoiseStrength)
	}
	if opt.MinBlobSize < 0 {
		return fmt.Errorf("%w: min blob size must be >= 0, got %d", ErrConfiguration, opt.MinBlobSize)
	}
	if opt.MaxWidth < 0 {
		return fmt.Errorf("%w: max width must be >= 0, got %d", ErrConfiguration, opt.MaxWidth)
	}
	return nil
}

// validateJob checks the palette/assignment pair against opt before any
// pipeline stage runs. Layer ids must already be compacted to 1..N by
// the caller; the compositor never renumbers.
func validateJob(palette []color.RGBA, assignment []int, opt Options) error {
	if len(palette) == 0 && opt.MaxColors < 1 {
		return fmt.Errorf("%w: empty palette and no target color count", ErrConfiguration)
	}
	if len(assignment) == 0 {
		return nil // identity assignment
	}
	if len(palette) > 0 && len(assignment) != len(palette) {
		return fmt.Errorf("%w: assignment length %d does not match palette length %d",
			ErrConfiguration, len(assignment), len(palette))
	}
	if len(palette) == 0 && len(assignment) != opt.MaxColors {
		return fmt.Errorf("%w: assignment length %d does not match auto color count %d",
			ErrConfiguration, len(assignment), opt.MaxColors)
	}
	numLayers := 0
	for i, id := range assignment {
		if id < 1 {
			return fmt.Errorf("%w: layer id %d at palette index %d (ids start at 1)", ErrConfiguration, id, i)
		}
		numLayers = max(numLayers, id)
	}
	seen := make([]bool, numLayers)
	for _, id := range assignment {
		seen[id-1] = true
	}
	for id, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: layer ids not compact, id %d unused", ErrConfiguration, id+1)
		}
	}
	return nil
}
