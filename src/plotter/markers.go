package plotter

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type markerShape int

const (
	markerCircle markerShape = iota
	markerSquare
	markerTriangle
)

// markerSeries is a ContinuousSeries that draws a distinct marker shape at
// each data point. go-chart itself only renders circular dots, so square and
// triangle markers are stroked directly through the chart renderer after the
// line pass.
type markerSeries struct {
	chart.ContinuousSeries
	Shape markerShape
}

func (ms markerSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := ms.Style.InheritFrom(defaults)
	col := style.DotColor
	if col.IsZero() {
		col = style.StrokeColor
	}
	if ms.Shape != markerCircle {
		// circles come from the dot pass of the line series; suppress it for
		// the shaped variants
		style.DotWidth = 0
		style.DotColor = drawing.Color{}
	}
	ms.ContinuousSeries.Render(r, canvasBox, xrange, yrange, style)
	if ms.Shape == markerCircle {
		return
	}

	r.SetStrokeColor(col)
	r.SetFillColor(col)
	r.SetStrokeWidth(1.0)
	const half = 3
	for i := 0; i < ms.Len(); i++ {
		xv, yv := ms.GetValues(i)
		x := canvasBox.Left + xrange.Translate(xv)
		y := canvasBox.Bottom - yrange.Translate(yv)
		switch ms.Shape {
		case markerSquare:
			r.MoveTo(x-half, y-half)
			r.LineTo(x+half, y-half)
			r.LineTo(x+half, y+half)
			r.LineTo(x-half, y+half)
			r.Close()
			r.FillStroke()
		case markerTriangle:
			r.MoveTo(x, y-half-1)
			r.LineTo(x+half+1, y+half)
			r.LineTo(x-half-1, y+half)
			r.Close()
			r.FillStroke()
		}
	}
}
