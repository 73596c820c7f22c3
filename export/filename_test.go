package export

import (
	"image/color"
	"testing"
)

func TestFilename(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	tests := []struct {
		name     string
		template string
		source   string
		index    int
		want     string
	}{
		{"default template", "", "parrot", 1, "parrot_layer_1_ff0000"},
		{"reordered placeholders", "{index}-{color}-{name}", "img", 3, "3-ff0000-img"},
		{"repeated placeholder", "{name}_{name}_{index}", "x", 12, "x_x_12"},
		{"no placeholders", "fixed", "img", 1, "fixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.template, tt.source, red, tt.index); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want string
	}{
		{"red", color.RGBA{R: 255, A: 255}, "ff0000"},
		{"mixed", color.RGBA{R: 18, G: 52, B: 86, A: 255}, "123456"},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}, "ffffff"},
		{"zero alpha falls back to black", color.RGBA{R: 255}, "000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HexColor(tt.c); got != tt.want {
				t.Errorf("HexColor(%v) = %q, want %q", tt.c, got, tt.want)
			}
		})
	}
}
