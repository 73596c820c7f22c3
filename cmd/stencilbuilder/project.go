package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	sb "github.com/setanarut/stencilbuilder"
)

// Project is the YAML bundle a run can be replayed from: source image,
// palette, layer assignment, pipeline options, and export settings.
type Project struct {
	Image   string   `yaml:"image"`
	Palette []string `yaml:"palette,omitempty"` // hex colors; empty selects auto mode
	Layers  []int    `yaml:"layers,omitempty"`  // layer id per palette entry
	Options struct {
		MaxColors       int     `yaml:"max_colors"`
		MaxWidth        int     `yaml:"max_width"`
		DenoiseStrength int     `yaml:"denoise_strength"`
		MinBlobSize     int     `yaml:"min_blob_size"`
		Smoothing       float64 `yaml:"smoothing"`
		OrphanedBlobs   bool    `yaml:"orphaned_blobs"`
	} `yaml:"options"`
	Export struct {
		Template string  `yaml:"filename_template,omitempty"`
		Width    float64 `yaml:"width"`
		Height   float64 `yaml:"height"`
		Border   float64 `yaml:"border"`
		Bridge   float64 `yaml:"bridge"`
		Stencil  bool    `yaml:"stencil"`
		Kerf     float64 `yaml:"kerf"`
		RegMarks bool    `yaml:"reg_marks"`
	} `yaml:"export"`
}

func defaultProject() *Project {
	p := &Project{}
	opt := sb.DefaultOptions()
	p.Options.MaxColors = opt.MaxColors
	p.Options.MaxWidth = opt.MaxWidth
	p.Options.DenoiseStrength = opt.DenoiseStrength
	p.Options.MinBlobSize = opt.MinBlobSize
	p.Options.Smoothing = opt.Smoothing
	p.Options.OrphanedBlobs = opt.OrphanedBlobs
	p.Export.Width = 100
	p.Export.Height = 2
	p.Export.Stencil = true
	return p
}

func loadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	p := defaultProject()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	return p, nil
}

func (p *Project) save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}

// paletteColors parses the hex palette entries, with or without a
// leading '#'.
func (p *Project) paletteColors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(p.Palette))
	for _, s := range p.Palette {
		if s == "" {
			return nil, fmt.Errorf("project: empty palette entry")
		}
		if s[0] != '#' {
			s = "#" + s
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("project: palette color %q: %w", s, err)
		}
		r, g, b, _ := c.RGBA()
		out = append(out, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
	}
	return out, nil
}

func (p *Project) options() sb.Options {
	return sb.Options{
		MaxColors:       p.Options.MaxColors,
		MaxWidth:        p.Options.MaxWidth,
		DenoiseStrength: p.Options.DenoiseStrength,
		MinBlobSize:     p.Options.MinBlobSize,
		Smoothing:       p.Options.Smoothing,
		OrphanedBlobs:   p.Options.OrphanedBlobs,
	}
}
