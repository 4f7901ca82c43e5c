package circuitfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title    string  // diagram title
	FontSize int     // element label size
	Padding  float64 // margin around the circuit
	Scale    float64 // output pixels per scene unit
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{FontSize: 12, Padding: 20, Scale: 1}
}

// GenerateSVG renders the visible part of a scene to SVG. Scene positions
// are kept as they are; the view box is the circuit bounds plus padding.
func GenerateSVG(s *circuit.Scene, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	var elems []*circuit.Element
	for _, e := range s.Elements() {
		if e.Visible {
			elems = append(elems, e)
		}
	}
	bounds := circuit.ItemsBounds(elems)
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = float64(opts.FontSize) + 16
	}
	view := geom.Rect{
		X: bounds.X - opts.Padding,
		Y: bounds.Y - opts.Padding - titleSpace,
		W: bounds.W + 2*opts.Padding,
		H: bounds.H + 2*opts.Padding + titleSpace,
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="%g %g %g %g">
<style>
  .element { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .input-on { fill: #fff3e0; stroke: #e65100; stroke-width: 2; }
  .led { fill: #5d1010; stroke: #333; stroke-width: 2; }
  .led-on { fill: #ff1744; stroke: #333; stroke-width: 2; }
  .node { fill: #333; }
  .label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: middle; }
  .wire { fill: none; stroke: #333; stroke-width: 2; }
  .wire-high { fill: none; stroke: #2e7d32; stroke-width: 2; }
  .port { fill: #e65100; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
`, view.W*opts.Scale, view.H*opts.Scale, view.X, view.Y, view.W, view.H, opts.FontSize, opts.FontSize+4))

	sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" fill="white"/>
`, view.X, view.Y, view.W, view.H))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" class="title">%s</text>
`, view.X+view.W/2, view.Y+opts.Padding, html.EscapeString(opts.Title)))
	}

	// Wires go underneath the elements they join.
	for _, c := range s.Connections() {
		if !c.Visible || !c.IsComplete() {
			continue
		}
		class := "wire"
		if c.Start().Value {
			class = "wire-high"
		}
		a, b := c.StartPos(), c.EndPos()
		sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" class="%s"/>
`, a.X, a.Y, b.X, b.Y, class))
	}

	for _, e := range elems {
		writeSVGElement(&sb, e)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeSVGElement(sb *strings.Builder, e *circuit.Element) {
	c := e.Centre()
	switch e.Kind {
	case circuit.KindNode:
		sb.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="%g" class="node"/>
`, c.X, c.Y, e.W/4))
	case circuit.KindLED:
		class := "led"
		if len(e.Inputs) > 0 && e.Inputs[0].Value {
			class = "led-on"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="%g" class="%s"/>
`, c.X, c.Y, e.W/2, class))
	default:
		class := "element"
		if e.Kind.Group() == circuit.GroupInput && e.On {
			class = "input-on"
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" rx="4" class="%s" transform="rotate(%g %g %g)"/>
`, e.Pos.X, e.Pos.Y, e.W, e.H, class, e.Rotation, c.X, c.Y))
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" class="label">%s</text>
`, c.X, c.Y, html.EscapeString(e.DisplayName())))
	}

	for _, p := range e.Ports() {
		if !p.Visible {
			continue
		}
		pos := p.Pos()
		sb.WriteString(fmt.Sprintf(`<circle cx="%g" cy="%g" r="%g" class="port"/>
`, pos.X, pos.Y, circuit.PortRadius/2))
	}
}
