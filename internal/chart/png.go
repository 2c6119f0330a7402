package chart

import (
	"io"

	"github.com/rotisserie/eris"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// WritePNG renders d as a PNG image using the same ranges and ticks as the SVG output.
func WritePNG(w io.Writer, d Drawing) error {
	if d.Empty() {
		return eris.New("chart: nothing to plot")
	}

	xs := make([]float64, 0, len(d.Points))
	ys := make([]float64, 0, len(d.Points))
	for _, p := range d.Points {
		xs = append(xs, float64(p.Year))
		ys = append(ys, p.Value)
	}

	series := gochart.ContinuousSeries{
		Name:    d.Title,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: drawing.ColorFromHex(strokeColor[1:]),
			StrokeWidth: 2,
			DotColor:    drawing.ColorFromHex(strokeColor[1:]),
			DotWidth:    4,
		},
	}

	graph := gochart.Chart{
		Title:  d.Title,
		Width:  int(d.Width),
		Height: int(d.Height),
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    int(d.Margin.Top),
				Left:   int(d.Margin.Left),
				Right:  int(d.Margin.Right),
				Bottom: int(d.Margin.Bottom),
			},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: d.XScale.DomainMin, Max: d.XScale.DomainMin + d.XScale.Span()},
			Ticks: spanningTicks(d.XTicks, d.XScale),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: d.YScale.DomainMin, Max: d.YScale.DomainMin + d.YScale.Span()},
			Ticks: spanningTicks(d.YTicks, d.YScale),
		},
		Series: []gochart.Series{series},
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return eris.Wrap(err, "chart: render png")
	}
	return nil
}

// spanningTicks converts ticks for go-chart, which takes the axis range from the
// tick values. A single-year series has one tick, so unlabeled ticks are added
// at the scale bounds to keep the range from collapsing.
func spanningTicks(ticks []Tick, s Scale) []gochart.Tick {
	lo, hi := s.DomainMin, s.DomainMin+s.Span()
	out := make([]gochart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > lo {
		out = append(out, gochart.Tick{Value: lo})
	}
	for _, t := range ticks {
		out = append(out, gochart.Tick{Value: t.Value, Label: t.Label})
	}
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < hi {
		out = append(out, gochart.Tick{Value: hi})
	}
	return out
}
