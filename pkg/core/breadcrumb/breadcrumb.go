// Package breadcrumb lays out the chevron trail naming a hovered node's
// ancestors.
//
// Each crumb is a polygon whose width grows with its label. The first crumb
// has a flat left edge; every later crumb has a notch on its left that
// receives the previous crumb's pointed tail. A trailing label follows the
// last crumb.
//
//	 ______    ______    _______
//	|  A   \  \  X   \  \  ...  \   12.5
//	|______/  /______/  /_______/
//
// Build is pure: the same input always yields identical descriptors.
package breadcrumb

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Geometry constants in drawing units.
const (
	// CharWidth is the estimated advance of one label character.
	CharWidth = 7.5
	// Tail is the depth of the pointed tail and of the left notch.
	Tail = 10.0
	// Height is the crumb height.
	Height = 30.0
	// Spacing is the gap left between neighbouring polygons.
	Spacing = 5.0
	// LabelGap separates the trailing label from the last crumb.
	LabelGap = 35.0
	// TextInset is the label's x offset inside its crumb.
	TextInset = Tail + 5
)

// Crumb is one entry of the ancestor chain.
type Crumb struct {
	NodeID int
	Label  string
	Fill   string
}

// Point is a polygon vertex relative to the crumb's left edge.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Descriptor is a positioned crumb.
type Descriptor struct {
	NodeID int     `json:"node"`
	Label  string  `json:"label"`
	Fill   string  `json:"fill"`
	Width  float64 `json:"width"`
	Left   float64 `json:"left"`
	IsLast bool    `json:"is_last"`
	Points []Point `json:"points"`
	TextX  float64 `json:"text_x"`
	TextY  float64 `json:"text_y"`
}

// PointsAttr formats the polygon for an SVG points attribute.
func (d Descriptor) PointsAttr() string {
	parts := make([]string, len(d.Points))
	for i, p := range d.Points {
		parts[i] = fmtNum(p.X) + "," + fmtNum(p.Y)
	}
	return strings.Join(parts, " ")
}

// Trail is a laid-out breadcrumb trail.
type Trail struct {
	Crumbs     []Descriptor `json:"crumbs"`
	Label      string       `json:"label"`
	LabelX     float64      `json:"label_x"`
	LabelY     float64      `json:"label_y"`
	TotalWidth float64      `json:"total_width"`
}

// Empty reports whether the trail has no crumbs.
func (t Trail) Empty() bool { return len(t.Crumbs) == 0 }

// Width returns the advance of a crumb labelled label. Characters are
// counted as runes, so a symbol outside the BMP counts once, not twice.
func Width(label string) float64 {
	return float64(utf8.RuneCountInString(label))*CharWidth + Tail
}

// Build lays out chain left to right and places trailingLabel after it.
func Build(chain []Crumb, trailingLabel string) Trail {
	t := Trail{
		Label:  trailingLabel,
		LabelY: Height / 2,
	}
	if len(chain) > 0 {
		t.Crumbs = make([]Descriptor, len(chain))
	}
	left := 0.0
	for i, c := range chain {
		w := Width(c.Label)
		t.Crumbs[i] = Descriptor{
			NodeID: c.NodeID,
			Label:  c.Label,
			Fill:   c.Fill,
			Width:  w,
			Left:   left,
			IsLast: i == len(chain)-1,
			Points: polygon(w-Spacing, i > 0),
			TextX:  TextInset,
			TextY:  Height / 2,
		}
		left += w
	}
	t.TotalWidth = left
	t.LabelX = left + LabelGap
	return t
}

func polygon(l float64, notch bool) []Point {
	pts := []Point{
		{0, 0},
		{l, 0},
		{l + Tail, Height / 2},
		{l, Height},
		{0, Height},
	}
	if notch {
		pts = append(pts, Point{Tail, Height / 2})
	}
	return pts
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
