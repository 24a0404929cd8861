// Package arc projects laid-out nodes to drawable annular sectors.
//
// Angles are measured clockwise from 12 o'clock, so a point at angle a and
// radius r sits at (r·sin a, -r·cos a) in SVG coordinates.
package arc

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sunburst/pkg/core/partition"
)

const epsilon = 1e-12

// Shape is an annular sector.
type Shape struct {
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
}

// Project maps a node's partition bounds to drawing coordinates. Radial
// bounds are stored in area units and are square-rooted here.
func Project(n partition.Node) Shape {
	return Shape{
		StartAngle:  n.X0,
		EndAngle:    n.X1,
		InnerRadius: math.Sqrt(math.Max(0, n.Y0)),
		OuterRadius: math.Sqrt(math.Max(0, n.Y1)),
	}
}

// Span returns the angular width.
func (s Shape) Span() float64 { return s.EndAngle - s.StartAngle }

// Empty reports whether the shape has no drawable area.
func (s Shape) Empty() bool {
	return s.Span() <= epsilon || s.OuterRadius <= s.InnerRadius
}

// Area returns the sector's area.
func (s Shape) Area() float64 {
	if s.Empty() {
		return 0
	}
	return s.Span() / 2 * (s.OuterRadius*s.OuterRadius - s.InnerRadius*s.InnerRadius)
}

// Centroid returns the midpoint of the sector in drawing coordinates.
func (s Shape) Centroid() (x, y float64) {
	return Point((s.InnerRadius+s.OuterRadius)/2, (s.StartAngle+s.EndAngle)/2)
}

// Point converts polar coordinates to SVG coordinates.
func Point(r, a float64) (x, y float64) {
	return r * math.Sin(a), -r * math.Cos(a)
}

// Path returns the SVG path data for the shape, or "" if it is empty.
func (s Shape) Path() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	r0, r1 := s.InnerRadius, s.OuterRadius
	span := s.Span()

	if span >= 2*math.Pi-epsilon {
		// A single arc command cannot draw a full circle; use two halves.
		b.WriteString("M0," + num(-r1))
		b.WriteString(arcTo(r1, 1, 1, 0, r1))
		b.WriteString(arcTo(r1, 1, 1, 0, -r1))
		if r0 > epsilon {
			b.WriteString("M0," + num(-r0))
			b.WriteString(arcTo(r0, 1, 0, 0, r0))
			b.WriteString(arcTo(r0, 1, 0, 0, -r0))
		}
		b.WriteString("Z")
		return b.String()
	}

	large := 0
	if span > math.Pi {
		large = 1
	}
	x0, y0 := Point(r1, s.StartAngle)
	x1, y1 := Point(r1, s.EndAngle)
	b.WriteString("M" + num(x0) + "," + num(y0))
	b.WriteString(arcTo(r1, large, 1, x1, y1))
	if r0 > epsilon {
		x2, y2 := Point(r0, s.EndAngle)
		x3, y3 := Point(r0, s.StartAngle)
		b.WriteString("L" + num(x2) + "," + num(y2))
		b.WriteString(arcTo(r0, large, 0, x3, y3))
	} else {
		b.WriteString("L0,0")
	}
	b.WriteString("Z")
	return b.String()
}

func arcTo(r float64, large, sweep int, x, y float64) string {
	return "A" + num(r) + "," + num(r) + ",0," + strconv.Itoa(large) + "," + strconv.Itoa(sweep) + "," + num(x) + "," + num(y)
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
