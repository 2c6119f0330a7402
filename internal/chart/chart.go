// Package chart turns a year/value series into drawing instructions for a
// line chart and renders them as SVG or PNG.
package chart

import (
	"math"
	"slices"
	"strconv"

	"github.com/mauv0809/finmetrics/internal/models"
)

const (
	Width  = 800
	Height = 400

	// ValueTicks is the number of evenly spaced ticks on the value axis.
	ValueTicks = 5
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for the title and axis labels.
var DefaultMargin = Margin{Top: 40, Right: 30, Bottom: 50, Left: 80}

// Point is a screen coordinate.
type Point struct {
	X, Y float64
}

// Line is a straight segment between two screen coordinates.
type Line struct {
	From, To Point
}

// Tick is an axis tick: the data value, its screen position along the axis and its label.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Scale maps a data domain linearly onto a screen range. A zero-width domain
// is treated as width 1 so that it never divides by zero.
type Scale struct {
	DomainMin, DomainMax float64
	RangeMin, RangeMax   float64
}

// Span returns the guarded width of the domain.
func (s Scale) Span() float64 {
	if span := s.DomainMax - s.DomainMin; span != 0 {
		return span
	}
	return 1
}

// Map converts a data value to a screen coordinate.
func (s Scale) Map(v float64) float64 {
	return s.RangeMin + (v-s.DomainMin)/s.Span()*(s.RangeMax-s.RangeMin)
}

// Drawing is the full set of instructions for one chart.
type Drawing struct {
	Width, Height float64
	Margin        Margin
	Title         string

	XScale Scale
	YScale Scale

	XAxis     Line
	YAxis     Line
	XTicks    []Tick
	YTicks    []Tick
	Gridlines []Line

	// Polyline passes through every point in input order; Markers has one entry per point.
	Polyline []Point
	Markers  []Point

	// Points is the input series, kept for back ends that plot data themselves.
	Points []models.DataPoint
}

// Empty reports whether the drawing has no series.
func (d Drawing) Empty() bool {
	return len(d.Points) == 0
}

// Render builds drawing instructions for points. Points are drawn in the order
// given, so callers should sort them by year first.
func Render(points []models.DataPoint, title string) Drawing {
	m := DefaultMargin
	d := Drawing{
		Width:  Width,
		Height: Height,
		Margin: m,
		Title:  title,
		Points: points,
	}

	left, right := m.Left, Width-m.Right
	top, bottom := m.Top, Height-m.Bottom
	d.XAxis = Line{From: Point{left, bottom}, To: Point{right, bottom}}
	d.YAxis = Line{From: Point{left, top}, To: Point{left, bottom}}

	if len(points) == 0 {
		return d
	}

	minYear, maxYear := math.Inf(1), math.Inf(-1)
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		year := float64(p.Year)
		minYear, maxYear = math.Min(minYear, year), math.Max(maxYear, year)
		minVal, maxVal = math.Min(minVal, p.Value), math.Max(maxVal, p.Value)
	}

	d.XScale = Scale{DomainMin: minYear, DomainMax: maxYear, RangeMin: left, RangeMax: right}
	d.YScale = Scale{DomainMin: minVal, DomainMax: maxVal, RangeMin: bottom, RangeMax: top}

	for _, year := range distinctYears(points) {
		v := float64(year)
		d.XTicks = append(d.XTicks, Tick{Value: v, Pos: d.XScale.Map(v), Label: strconv.Itoa(year)})
	}

	span := d.YScale.Span()
	for i := range ValueTicks {
		v := minVal + span*float64(i)/float64(ValueTicks-1)
		y := d.YScale.Map(v)
		d.YTicks = append(d.YTicks, Tick{Value: v, Pos: y, Label: FormatValue(v)})
		d.Gridlines = append(d.Gridlines, Line{From: Point{left, y}, To: Point{right, y}})
	}

	d.Polyline = make([]Point, 0, len(points))
	for _, p := range points {
		d.Polyline = append(d.Polyline, Point{X: d.XScale.Map(float64(p.Year)), Y: d.YScale.Map(p.Value)})
	}
	d.Markers = slices.Clone(d.Polyline)

	return d
}

func distinctYears(points []models.DataPoint) []int {
	years := make([]int, 0, len(points))
	for _, p := range points {
		years = append(years, p.Year)
	}
	slices.Sort(years)
	return slices.Compact(years)
}
