// Package config holds the user-facing chart options.
//
// Options come from three layers, later layers winning:
//
//  1. [Default] values
//  2. a TOML file ([Load])
//  3. command-line flags or API request fields
//
// A TOML file only needs the keys it overrides:
//
//	color_range = ["#1b9e77", "#d95f02", "#7570b3"]
//	color_by = "node"
//	show_percentage = false
//	value_format = "$#,##0"
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sunburst/pkg/errors"
)

// ColorBy selects which node identity keys the fill colour.
type ColorBy string

const (
	// ColorByRoot colours a node like its depth-1 ancestor.
	ColorByRoot ColorBy = "root"
	// ColorByNode colours a node by its own name.
	ColorByNode ColorBy = "node"
)

// Default dimensions in drawing units.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// DefaultFontFamily is monospaced so breadcrumb widths match label lengths.
const DefaultFontFamily = `"Courier New", Mono, monospace`

// DefaultColorRange is the 8-colour categorical palette.
var DefaultColorRange = []string{
	"#dd3333",
	"#80ce5d",
	"#f78131",
	"#369dc1",
	"#c572d3",
	"#36c1b3",
	"#b57052",
	"#ed69af",
}

// Chart configures one chart.
type Chart struct {
	ColorRange     []string `toml:"color_range" json:"color_range,omitempty" bson:"color_range,omitempty"`
	ColorBy        ColorBy  `toml:"color_by" json:"color_by,omitempty" bson:"color_by,omitempty"`
	ShowPercentage bool     `toml:"show_percentage" json:"show_percentage" bson:"show_percentage"`
	ShowNullPoints bool     `toml:"show_null_points" json:"show_null_points" bson:"show_null_points"`
	Width          int      `toml:"width" json:"width,omitempty" bson:"width,omitempty"`
	Height         int      `toml:"height" json:"height,omitempty" bson:"height,omitempty"`
	ValueFormat    string   `toml:"value_format" json:"value_format,omitempty" bson:"value_format,omitempty"`
	FontFamily     string   `toml:"font_family" json:"font_family,omitempty" bson:"font_family,omitempty"`
}

// Default returns the default chart options.
func Default() Chart {
	return Chart{
		ColorRange:     append([]string(nil), DefaultColorRange...),
		ColorBy:        ColorByRoot,
		ShowPercentage: true,
		ShowNullPoints: true,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FontFamily:     DefaultFontFamily,
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open config %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r on top of the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (Chart, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Chart{}, errors.New(errors.ErrCodeInvalidOption, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Chart{}, err
	}
	return c, nil
}

// Encode writes c as TOML.
func (c Chart) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// SetDefaults fills zero-valued fields. Booleans are left alone since false
// is meaningful.
func (c *Chart) SetDefaults() {
	if len(c.ColorRange) == 0 {
		c.ColorRange = append([]string(nil), DefaultColorRange...)
	}
	if c.ColorBy == "" {
		c.ColorBy = ColorByRoot
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FontFamily == "" {
		c.FontFamily = DefaultFontFamily
	}
}

// Validate checks the option values.
func (c Chart) Validate() error {
	switch c.ColorBy {
	case ColorByRoot, ColorByNode:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "color_by must be %q or %q, got %q", ColorByRoot, ColorByNode, c.ColorBy)
	}
	if err := errors.ValidateColorRange(c.ColorRange); err != nil {
		return err
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Radius returns the outer chart radius for the configured size, leaving
// room for the breadcrumb bar above the chart.
func (c Chart) Radius() float64 {
	w, h := c.size()
	r := float64(min(w, h-BreadcrumbBar))/2 - RadiusPadding
	if r <= 0 {
		return 1
	}
	return r
}

// Center returns the chart centre in viewport coordinates.
func (c Chart) Center() (x, y float64) {
	w, h := c.size()
	return float64(w) / 2, float64(h-BreadcrumbBar)/2 + ChartOffsetY
}

func (c Chart) size() (w, h int) {
	w, h = c.Width, c.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Layout constants shared by renderers.
const (
	// BreadcrumbBar is the vertical space reserved for breadcrumbs.
	BreadcrumbBar = 15
	// RadiusPadding separates the outermost ring from the viewport edge.
	RadiusPadding = 8
	// ChartOffsetY shifts the chart centre below the breadcrumb bar.
	ChartOffsetY = 25
)
