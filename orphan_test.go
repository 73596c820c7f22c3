package stencilbuilder

import (
	"image/color"
	"testing"
)

func TestOrphanContrastThresholdShrinksWithLayers(t *testing.T) {
	prev := orphanContrastThreshold(1)
	if prev <= 0 {
		t.Fatalf("orphanContrastThreshold(1) = %v, want positive", prev)
	}
	for n := 2; n <= 12; n++ {
		cur := orphanContrastThreshold(n)
		if cur > prev {
			t.Errorf("orphanContrastThreshold(%d) = %v, exceeds threshold for %d layers (%v)", n, cur, n-1, prev)
		}
		prev = cur
	}
}

func TestSynthesizedColorContrastsOrFallsBack(t *testing.T) {
	existing := []color.RGBA{
		{A: 255},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	threshold := orphanContrastThreshold(len(existing))
	for range 20 {
		got := synthesizeContrastColor(existing)
		if got.A != 255 {
			t.Fatalf("synthesized color alpha = %d, want 255", got.A)
		}
		if got == orphanFallback {
			continue
		}
		minDist := -1.0
		for _, e := range existing {
			dr := float64(got.R) - float64(e.R)
			dg := float64(got.G) - float64(e.G)
			db := float64(got.B) - float64(e.B)
			if d := dr*dr + dg*dg + db*db; minDist < 0 || d < minDist {
				minDist = d
			}
		}
		if minDist <= threshold {
			t.Fatalf("synthesized color %v within %v of an existing color, threshold %v", got, minDist, threshold)
		}
	}
}

// Two undersized shapes of different colors sit side by side: cleanup
// drops both, and their merged footprint is large enough to come back
// as an orphan layer.
func TestDetectOrphansCollectsCleanedArea(t *testing.T) {
	green := color.RGBA{G: 200, A: 255}
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img := solidImage(20, 20, green)
	fillRect(img, 2, 2, 6, 7, red)
	fillRect(img, 6, 2, 10, 7, blue)

	opt := DefaultOptions()
	opt.MinBlobSize = 30
	opt.OrphanedBlobs = true
	b := NewStencilBuilder(img, []color.RGBA{green, red, blue}, nil)
	res, err := b.Process(opt)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(res.Layers) != 4 {
		t.Fatalf("len(Layers) = %d, want 3 palette layers plus the orphan", len(res.Layers))
	}
	orphan := res.Layers[3]
	if !orphan.Orphan {
		t.Errorf("final layer not marked as orphan")
	}
	if orphan.ID != 4 {
		t.Errorf("orphan ID = %d, want 4", orphan.ID)
	}
	if got := orphan.Area(); got != 40 {
		t.Errorf("orphan area = %d, want the 40 cleaned pixels", got)
	}
	for i, c := range []color.RGBA{green, red, blue} {
		if orphan.Color == c {
			t.Errorf("orphan color %v equals layer %d color", orphan.Color, i+1)
		}
	}
	if got := res.Layers[1].Area(); got != 0 {
		t.Errorf("cleaned red layer area = %d, want 0", got)
	}
}

func TestNoOrphanWithoutFlag(t *testing.T) {
	green := color.RGBA{G: 200, A: 255}
	red := color.RGBA{R: 255, A: 255}
	img := solidImage(20, 20, green)
	fillRect(img, 2, 2, 6, 7, red)

	opt := DefaultOptions()
	opt.MinBlobSize = 30
	b := NewStencilBuilder(img, []color.RGBA{green, red}, nil)
	res, err := b.Process(opt)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(res.Layers) != 2 {
		t.Errorf("len(Layers) = %d, want 2 with orphan detection off", len(res.Layers))
	}
}

func TestNoOrphanWhenFullyCovered(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	img := solidImage(20, 20, red)
	opt := DefaultOptions()
	opt.MinBlobSize = 0
	opt.OrphanedBlobs = true
	b := NewStencilBuilder(img, []color.RGBA{red}, nil)
	res, err := b.Process(opt)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(res.Layers) != 1 {
		t.Errorf("len(Layers) = %d, want 1: full coverage leaves nothing orphaned", len(res.Layers))
	}
}
