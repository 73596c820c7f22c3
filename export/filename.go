// Package export writes a pipeline run's layers to fabrication files:
// SVG cut paths, DXF polylines, and STL meshes.
package export

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTemplate names one output file per layer.
const DefaultTemplate = "{name}_layer_{index}_{color}"

// Filename expands the template placeholders: {name} is the source
// image's base name, {color} the layer's hex color without '#', and
// {index} the 1-based layer position. The format extension is not
// part of the template.
func Filename(template, name string, c color.RGBA, index int) string {
	if template == "" {
		template = DefaultTemplate
	}
	return strings.NewReplacer(
		"{name}", name,
		"{color}", HexColor(c),
		"{index}", strconv.Itoa(index),
	).Replace(template)
}

// HexColor formats c as lowercase rrggbb without the leading '#'.
func HexColor(c color.RGBA) string {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return "000000"
	}
	return strings.TrimPrefix(col.Hex(), "#")
}
