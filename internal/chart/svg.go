package chart

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	strokeColor = "#2563eb"
	axisColor   = "#374151"
	gridColor   = "#e5e7eb"
	labelColor  = "#6b7280"
)

// WriteSVG renders d as a standalone SVG document.
func WriteSVG(w io.Writer, d Drawing) error {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g" font-family="sans-serif">`,
		d.Width, d.Height, d.Width, d.Height)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	if d.Title != "" {
		fmt.Fprintf(&b, `<text x="%g" y="%g" text-anchor="middle" font-size="16" font-weight="600" fill="%s">%s</text>`,
			d.Width/2, d.Margin.Top/2+6, axisColor, html.EscapeString(d.Title))
	}

	for _, g := range d.Gridlines {
		writeLine(&b, g, gridColor, 1)
	}
	writeLine(&b, d.XAxis, axisColor, 1.5)
	writeLine(&b, d.YAxis, axisColor, 1.5)

	axisY := d.XAxis.From.Y
	for _, t := range d.XTicks {
		writeLine(&b, Line{From: Point{t.Pos, axisY}, To: Point{t.Pos, axisY + 6}}, axisColor, 1)
		fmt.Fprintf(&b, `<text x="%g" y="%g" text-anchor="middle" font-size="12" fill="%s">%s</text>`,
			t.Pos, axisY+22, labelColor, html.EscapeString(t.Label))
	}

	axisX := d.YAxis.From.X
	for _, t := range d.YTicks {
		writeLine(&b, Line{From: Point{axisX - 6, t.Pos}, To: Point{axisX, t.Pos}}, axisColor, 1)
		fmt.Fprintf(&b, `<text x="%g" y="%g" text-anchor="end" font-size="12" fill="%s">%s</text>`,
			axisX-10, t.Pos+4, labelColor, html.EscapeString(t.Label))
	}

	if len(d.Polyline) > 0 {
		pts := make([]string, 0, len(d.Polyline))
		for _, p := range d.Polyline {
			pts = append(pts, fmt.Sprintf("%g,%g", p.X, p.Y))
		}
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`, strings.Join(pts, " "), strokeColor)
	}
	for _, p := range d.Markers {
		fmt.Fprintf(&b, `<circle cx="%g" cy="%g" r="4" fill="%s"/>`, p.X, p.Y, strokeColor)
	}

	b.WriteString(`</svg>`)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "chart: write svg")
	}
	return nil
}

func writeLine(b *strings.Builder, l Line, color string, width float64) {
	fmt.Fprintf(b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%g"/>`,
		l.From.X, l.From.Y, l.To.X, l.To.Y, color, width)
}
