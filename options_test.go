package stencilbuilder

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestOptionsFromSize(t *testing.T) {
	tests := []struct {
		name        string
		size        image.Point
		wantMinBlob int
	}{
		{"megapixel", image.Point{X: 1000, Y: 1000}, 100},
		{"tiny", image.Point{X: 50, Y: 50}, 16},
		{"huge", image.Point{X: 4000, Y: 4000}, 256},
		{"empty falls back to defaults", image.Point{}, DefaultOptions().MinBlobSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := OptionsFromSize(tt.size)
			if opt.MinBlobSize != tt.wantMinBlob {
				t.Errorf("MinBlobSize = %d, want %d", opt.MinBlobSize, tt.wantMinBlob)
			}
			if opt.Smoothing != DefaultOptions().Smoothing {
				t.Errorf("Smoothing = %v, want default %v", opt.Smoothing, DefaultOptions().Smoothing)
			}
		})
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	mutate := []struct {
		name string
		f    func(*Options)
	}{
		{"zero smoothing", func(o *Options) { o.Smoothing = 0 }},
		{"negative smoothing", func(o *Options) { o.Smoothing = -0.1 }},
		{"negative denoise", func(o *Options) { o.DenoiseStrength = -1 }},
		{"negative min blob", func(o *Options) { o.MinBlobSize = -1 }},
		{"negative max width", func(o *Options) { o.MaxWidth = -1 }},
	}
	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			opt := DefaultOptions()
			tt.f(&opt)
			if err := opt.Validate(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() = %v, want ErrConfiguration", err)
			}
		})
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestValidateJob(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	opt := DefaultOptions()
	tests := []struct {
		name       string
		palette    []color.RGBA
		assignment []int
		opt        Options
		wantErr    bool
	}{
		{"explicit without assignment", []color.RGBA{red, blue}, nil, opt, false},
		{"explicit with merge", []color.RGBA{red, blue}, []int{1, 1}, opt, false},
		{"auto without assignment", nil, nil, opt, false},
		{"length mismatch", []color.RGBA{red, blue}, []int{1}, opt, true},
		{"zero layer id", []color.RGBA{red, blue}, []int{0, 1}, opt, true},
		{"negative layer id", []color.RGBA{red, blue}, []int{-1, 1}, opt, true},
		{"gap in layer ids", []color.RGBA{red, blue}, []int{1, 3}, opt, true},
		{"auto assignment wrong length", nil, []int{1, 2, 3}, Options{MaxColors: 2, Smoothing: 0.002}, true},
		{"auto without color count", nil, nil, Options{MaxColors: 0, Smoothing: 0.002}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJob(tt.palette, tt.assignment, tt.opt)
			if tt.wantErr && !errors.Is(err, ErrConfiguration) {
				t.Errorf("validateJob() = %v, want ErrConfiguration", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateJob() = %v, want nil", err)
			}
		})
	}
}
