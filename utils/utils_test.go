package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestSortPaletteByBrightness(t *testing.T) {
	palette := []color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	SortPaletteByBrightness(palette)
	want := []color.RGBA{
		{A: 255},
		{R: 128, G: 128, B: 128, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}
	for i := range want {
		if palette[i] != want[i] {
			t.Errorf("palette[%d] = %v, want %v", i, palette[i], want[i])
		}
	}
}

func TestSuggestPaletteTwoToneImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := range 32 {
		for x := range 32 {
			c := color.RGBA{R: 255, A: 255}
			if x >= 16 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	for _, method := range []PaletteMethod{PaletteMethodKMeans, PaletteMethodDominantColor} {
		t.Run(method.String(), func(t *testing.T) {
			palette, err := SuggestPalette(img, 2, method)
			if err != nil {
				t.Fatalf("SuggestPalette() error = %v", err)
			}
			if len(palette) != 2 {
				t.Fatalf("len(palette) = %d, want 2", len(palette))
			}
			var reddish, blueish bool
			for _, c := range palette {
				if c.A != 255 {
					t.Errorf("palette color %v not opaque", c)
				}
				if int(c.R) > int(c.B)+64 {
					reddish = true
				}
				if int(c.B) > int(c.R)+64 {
					blueish = true
				}
			}
			if !reddish || !blueish {
				t.Errorf("palette = %v, want one reddish and one blueish color", palette)
			}
		})
	}
}

func TestSuggestPaletteRejectsBadInput(t *testing.T) {
	if _, err := SuggestPalette(nil, 2, PaletteMethodKMeans); err == nil {
		t.Errorf("SuggestPalette() accepted a nil image")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := SuggestPalette(img, 0, PaletteMethodKMeans); err == nil {
		t.Errorf("SuggestPalette() accepted a zero palette size")
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Errorf("LoadImage() on a missing file returned no error")
	}
}

func TestSaveAndLoadImageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 200, G: 10, B: 30, A: 255})
	if err := SaveImage(img, path); err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if got := loaded.Bounds(); got.Dx() != 3 || got.Dy() != 2 {
		t.Errorf("loaded bounds = %v, want 3x2", got)
	}
	r, g, b, _ := loaded.At(1, 1).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
		t.Errorf("loaded pixel = (%d,%d,%d), want (200,10,30)", r>>8, g>>8, b>>8)
	}
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	palette := []color.RGBA{{R: 255, A: 255}, {B: 255, A: 255}}
	if err := SavePalette(palette, 8, path); err != nil {
		t.Fatalf("SavePalette() error = %v", err)
	}
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if got := img.Bounds(); got.Dx() != 16 || got.Dy() != 8 {
		t.Errorf("palette strip bounds = %v, want 16x8", got)
	}
	r, _, _, _ := img.At(2, 2).RGBA()
	if r>>8 != 255 {
		t.Errorf("first tile not filled with the first palette color")
	}
	_, _, b, _ := img.At(10, 2).RGBA()
	if b>>8 != 255 {
		t.Errorf("second tile not filled with the second palette color")
	}
}

func TestSavePaletteRejectsEmpty(t *testing.T) {
	if err := SavePalette(nil, 8, filepath.Join(t.TempDir(), "p.png")); err == nil {
		t.Errorf("SavePalette() accepted an empty palette")
	}
}
