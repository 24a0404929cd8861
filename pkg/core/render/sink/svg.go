package sink

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/arc"
	"github.com/matzehuels/sunburst/pkg/core/breadcrumb"
	"github.com/matzehuels/sunburst/pkg/core/color"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/interaction"
	"github.com/matzehuels/sunburst/pkg/core/partition"
)

const (
	crumbOffset = 10.0
	labelColor  = "#888"
	strokeColor = "#fff"
	strokeWidth = "0.5px"
)

const arcInteractionCSS = `
    .arc { transition: fill-opacity 0.5s; cursor: pointer; }
    .frames { display: none; }`

const arcInteractionJS = `
    (function () {
      const root = document.querySelector('svg.sunburst');
      const crumbs = root.querySelector('.breadcrumbs');
      const label = root.querySelector('.center-label');
      const value = label.querySelector('.percentage');
      const arcs = Array.from(root.querySelectorAll('.arc'));
      let pending = 0;
      function enter(id) {
        const frame = root.querySelector('.frame[data-for="' + id + '"]');
        if (!frame) return;
        cancelAnimationFrame(pending);
        const on = new Set(frame.dataset.emphasis.split(' '));
        arcs.forEach(a => { a.style.fillOpacity = on.has(a.dataset.id) ? 1 : 0.15; });
        crumbs.innerHTML = frame.innerHTML;
        value.textContent = frame.dataset.label;
        label.setAttribute('visibility', 'visible');
      }
      function reset() {
        arcs.forEach(a => { a.style.fillOpacity = a.dataset.opacity; });
        crumbs.innerHTML = '';
        label.setAttribute('visibility', 'hidden');
      }
      arcs.forEach(a => {
        a.addEventListener('mouseenter', () => enter(a.dataset.id));
        a.addEventListener('mouseleave', () => { pending = requestAnimationFrame(reset); });
        a.addEventListener('click', e => {
          root.dispatchEvent(new CustomEvent('sunburst:drill', {
            bubbles: true,
            detail: { links: JSON.parse(a.dataset.links || '[]'), event: { pageX: e.pageX, pageY: e.pageY } },
          }));
        });
      });
    })();`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cfg         config.Chart
	format      format.Formatter
	interactive bool
	title       string
	highlight   int
}

// WithConfig sets the chart options. Defaults to config.Default().
func WithConfig(c config.Chart) SVGOption { return func(r *svgRenderer) { r.cfg = c } }

// WithFormatter sets the value formatter for labels.
func WithFormatter(f format.Formatter) SVGOption {
	return func(r *svgRenderer) { r.format = f }
}

// WithInteraction embeds hover frames and the script that switches them.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithTitle adds a document title.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithHighlight renders the chart frozen in the hover state of node id.
func WithHighlight(id int) SVGOption { return func(r *svgRenderer) { r.highlight = id } }

// RenderSVG draws l as an SVG document.
func RenderSVG(l *partition.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{cfg: config.Default(), highlight: -1}
	for _, opt := range opts {
		opt(&r)
	}
	r.cfg.SetDefaults()
	if r.format == nil {
		r.format = format.Parse(r.cfg.ValueFormat)
	}

	m := interaction.New(interaction.Options{Config: r.cfg, Format: r.format})
	m.Reset(l)
	state := m.Current()
	if r.highlight >= 0 {
		if f, ok := m.Enter(m.Ref(r.highlight)); ok {
			state = f
		}
	}

	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	cx, cy := r.cfg.Center()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="sunburst" viewBox="0 0 %s %s" width="%s" height="%s" font-family="%s">`+"\n",
		num(w), num(h), num(w), num(h), escapeXML(r.cfg.FontFamily))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	fmt.Fprintf(&buf, `  <g class="breadcrumbs" transform="translate(%s,%s)">`, num(crumbOffset), num(crumbOffset))
	if state.State == interaction.Hovering {
		buf.WriteString("\n")
		renderTrail(&buf, state.Trail, "    ")
		buf.WriteString("  ")
	}
	buf.WriteString("</g>\n")

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%s,%s)">`+"\n", num(cx), num(cy))
	idle := interaction.IdleOpacity(l)
	for _, n := range l.Nodes {
		renderArc(&buf, n, m.Palette().Of(n.ID), state.Opacity[n.ID], idle[n.ID], r.interactive)
	}
	renderCenterLabel(&buf, state)
	buf.WriteString("  </g>\n")

	if r.interactive {
		renderFrames(&buf, m, l)
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", arcInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", arcInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderArc(buf *bytes.Buffer, n partition.Node, fill string, opacity, idle float64, interactive bool) {
	d := arc.Project(n).Path()
	if d == "" {
		return
	}
	fmt.Fprintf(buf, `    <path class="arc" data-id="%d" data-depth="%d" data-opacity="%s" d="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s"`,
		n.ID, n.Depth, num(idle), d, escapeXML(fill), num(opacity), strokeColor, strokeWidth)
	if interactive {
		links, err := json.Marshal(n.Links)
		if err == nil && len(n.Links) > 0 {
			fmt.Fprintf(buf, ` data-links="%s"`, escapeXML(string(links)))
		}
	}
	fmt.Fprintf(buf, "><title>%s</title></path>\n", escapeXML(n.Name))
}

func renderCenterLabel(buf *bytes.Buffer, f interaction.Frame) {
	visibility := "hidden"
	if f.State == interaction.Hovering {
		visibility = "visible"
	}
	fmt.Fprintf(buf, `    <text class="center-label" text-anchor="middle" fill="%s" visibility="%s">`, labelColor, visibility)
	fmt.Fprintf(buf, `<tspan class="percentage" x="0" y="25" dy="-0.1em" font-size="3em" font-weight="bold">%s</tspan></text>`+"\n",
		escapeXML(f.CenterLabel))
}

// renderTrail writes the crumbs and trailing label of t.
func renderTrail(buf *bytes.Buffer, t breadcrumb.Trail, indent string) {
	for _, c := range t.Crumbs {
		fmt.Fprintf(buf, `%s<g class="crumb" data-id="%d" transform="translate(%s,0)">`, indent, c.NodeID, num(c.Left))
		fmt.Fprintf(buf, `<polygon class="breadcrumbs-shape" points="%s" fill="%s"/>`, c.PointsAttr(), escapeXML(c.Fill))
		fmt.Fprintf(buf, `<text class="breadcrumbs-text" x="%s" y="%s" dy="0.35em" font-size="12px" font-weight="bold" fill="%s">%s</text>`,
			num(c.TextX), num(c.TextY), color.TextOn(c.Fill), escapeXML(c.Label))
		buf.WriteString("</g>\n")
	}
	fmt.Fprintf(buf, `%s<text class="lastCrumb" x="%s" y="%s" dy="0.35em" fill="black" font-weight="bold">%s</text>`+"\n",
		indent, num(t.LabelX), num(t.LabelY), escapeXML(t.Label))
}

// renderFrames pre-renders the hover state of every node by driving the
// interaction machine through each one.
func renderFrames(buf *bytes.Buffer, m *interaction.Machine, l *partition.Layout) {
	buf.WriteString(`  <g class="frames" display="none">` + "\n")
	for _, n := range l.Nodes {
		f, ok := m.Enter(m.Ref(n.ID))
		if !ok {
			continue
		}
		ids := make([]string, len(f.Emphasized))
		for i, e := range f.Emphasized {
			ids[i] = strconv.Itoa(e)
		}
		fmt.Fprintf(buf, `    <g class="frame" data-for="%d" data-emphasis="%s" data-label="%s">`+"\n",
			n.ID, strings.Join(ids, " "), escapeXML(f.CenterLabel))
		renderTrail(buf, f.Trail, "      ")
		buf.WriteString("    </g>\n")
	}
	m.Leave()
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
