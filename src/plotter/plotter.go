// Package plotter renders runtime metrics datasets as chart panels.
//
// Four fixed panels (heap memory, heap objects, goroutines, cumulative
// allocations/GC) are drawn with go-chart and composed into a single 2x2
// grid image under a supertitle band. Rendering is pure: dataset in, image
// out; writing the PNG is a separate step so a failed render never leaves a
// partial output file behind.
package plotter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/RuntimeMetricsPlotter/src/metrics"
)

const (
	panelWidth  = 900
	panelHeight = 600
	titleBand   = 48

	// GridWidth and GridHeight are the dimensions of the composed 2x2 image.
	GridWidth  = 2 * panelWidth
	GridHeight = titleBand + 2*panelHeight
)

// Supertitle drawn across the top of the composed grid.
const Supertitle = "Memory and Goroutine Metrics Over Time"

var colorPurple = drawing.Color{R: 0x80, G: 0x00, B: 0x80, A: 0xff}

// Panel is one rendered chart with its display name.
type Panel struct {
	Name  string
	Image image.Image
}

func seriesStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
		DotColor:    col,
		DotWidth:    3,
	}
}

func lightGridStyle() chart.Style {
	return chart.Style{
		StrokeColor: drawing.Color{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff},
		StrokeWidth: 1.0,
	}
}

func timeAxis() chart.XAxis {
	return chart.XAxis{
		Name:           "Time (minutes)",
		GridMajorStyle: lightGridStyle(),
	}
}

// padXY duplicates a lone sample one second later so go-chart always sees a
// non-zero X range.
func padXY(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != 1 {
		return xs, ys
	}
	return []float64{xs[0], xs[0] + 1.0/60}, []float64{ys[0], ys[0]}
}

func series(name string, col drawing.Color, shape markerShape, xs, ys []float64) chart.Series {
	px, py := padXY(xs, ys)
	return markerSeries{
		ContinuousSeries: chart.ContinuousSeries{
			Name:    name,
			XValues: px,
			YValues: py,
			Style:   seriesStyle(col),
		},
		Shape: shape,
	}
}

func secondarySeries(name string, col drawing.Color, shape markerShape, xs, ys []float64) chart.Series {
	px, py := padXY(xs, ys)
	return markerSeries{
		ContinuousSeries: chart.ContinuousSeries{
			Name:    name,
			YAxis:   chart.YAxisSecondary,
			XValues: px,
			YValues: py,
			Style:   seriesStyle(col),
		},
		Shape: shape,
	}
}

func panelBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}}
}

func heapMemoryChart(d *metrics.Dataset, w, h int) chart.Chart {
	xs := d.TimeMinutes()
	alloc := d.HeapAllocMB()
	inuse := d.HeapInuseMB()
	sys := d.HeapSysMB()
	yRange, yTicks := yAxisFor(alloc, inuse, sys)
	ch := chart.Chart{
		Title:      "Heap Memory Usage",
		Width:      w,
		Height:     h,
		Background: panelBackground(),
		XAxis:      timeAxis(),
		YAxis: chart.YAxis{
			Name:           "Memory (MB)",
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: lightGridStyle(),
		},
		Series: []chart.Series{
			series("HeapAlloc", chart.ColorBlue, markerCircle, xs, alloc),
			series("HeapInuse", chart.ColorOrange, markerSquare, xs, inuse),
			series("HeapSys", chart.ColorGreen, markerTriangle, xs, sys),
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func heapObjectsChart(d *metrics.Dataset, w, h int) chart.Chart {
	xs := d.TimeMinutes()
	objs := d.HeapObjects()
	yRange, yTicks := yAxisFor(objs)
	return chart.Chart{
		Title:      "Heap Objects",
		Width:      w,
		Height:     h,
		Background: panelBackground(),
		XAxis:      timeAxis(),
		YAxis: chart.YAxis{
			Name:           "Object Count",
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: lightGridStyle(),
		},
		Series: []chart.Series{
			series("HeapObjects", chart.ColorGreen, markerCircle, xs, objs),
		},
	}
}

func goroutinesChart(d *metrics.Dataset, w, h int) chart.Chart {
	xs := d.TimeMinutes()
	gs := d.Goroutines()
	yRange, yTicks := yAxisFor(gs)
	return chart.Chart{
		Title:      "Active Goroutines",
		Width:      w,
		Height:     h,
		Background: panelBackground(),
		XAxis:      timeAxis(),
		YAxis: chart.YAxis{
			Name:           "Goroutine Count",
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: lightGridStyle(),
		},
		Series: []chart.Series{
			series("Goroutines", chart.ColorRed, markerCircle, xs, gs),
		},
	}
}

func allocGCChart(d *metrics.Dataset, w, h int) chart.Chart {
	xs := d.TimeMinutes()
	total := d.TotalAllocMB()
	gc := d.NumGC()
	yRange, yTicks := yAxisFor(total)
	y2Range, y2Ticks := yAxisFor(gc)
	ch := chart.Chart{
		Title:      "Cumulative Allocations & GC Activity",
		Width:      w,
		Height:     h,
		Background: panelBackground(),
		XAxis:      timeAxis(),
		YAxis: chart.YAxis{
			Name:           "Total Allocated Memory (MB)",
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: lightGridStyle(),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "GC Count",
			Range: y2Range,
			Ticks: y2Ticks,
		},
		Series: []chart.Series{
			series("Total Alloc MB", colorPurple, markerCircle, xs, total),
			secondarySeries("GC Count", chart.ColorOrange, markerSquare, xs, gc),
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func renderPanel(name string, ch chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// RenderPanels draws the four chart panels for the dataset, in grid order
// (heap memory, heap objects, goroutines, allocations/GC).
func RenderPanels(d *metrics.Dataset) ([]Panel, error) {
	if d == nil || len(d.Rows) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	builders := []struct {
		name  string
		build func(*metrics.Dataset, int, int) chart.Chart
	}{
		{"Heap Memory Usage", heapMemoryChart},
		{"Heap Objects", heapObjectsChart},
		{"Active Goroutines", goroutinesChart},
		{"Cumulative Allocations & GC Activity", allocGCChart},
	}
	panels := make([]Panel, 0, len(builders))
	for _, b := range builders {
		img, err := renderPanel(b.name, b.build(d, panelWidth, panelHeight))
		if err != nil {
			return nil, err
		}
		panels = append(panels, Panel{Name: b.name, Image: img})
	}
	return panels, nil
}

// RenderGrid composes the four panels into a single 2x2 image with a
// supertitle band across the top.
func RenderGrid(d *metrics.Dataset) (image.Image, error) {
	panels, err := RenderPanels(d)
	if err != nil {
		return nil, err
	}
	return ComposeGrid(panels)
}

// ComposeGrid lays out exactly four pre-rendered panels on a white canvas.
func ComposeGrid(panels []Panel) (image.Image, error) {
	if len(panels) != 4 {
		return nil, fmt.Errorf("expected 4 panels, got %d", len(panels))
	}
	out := image.NewRGBA(image.Rect(0, 0, GridWidth, GridHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	offsets := []image.Point{
		{0, titleBand},
		{panelWidth, titleBand},
		{0, titleBand + panelHeight},
		{panelWidth, titleBand + panelHeight},
	}
	for i, p := range panels {
		b := p.Image.Bounds()
		dst := image.Rect(offsets[i].X, offsets[i].Y, offsets[i].X+b.Dx(), offsets[i].Y+b.Dy())
		draw.Draw(out, dst, p.Image, b.Min, draw.Over)
	}
	drawSupertitle(out, Supertitle)
	return out, nil
}

// drawSupertitle centers the title text in the band above the panels.
func drawSupertitle(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}),
		Face: face,
	}
	tw := dr.MeasureString(text).Ceil()
	x := (img.Bounds().Dx() - tw) / 2
	y := titleBand/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}

// WritePNG encodes img to path, overwriting any existing file.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// OutputPath derives the output PNG name from the input file: the input's
// base name with its extension replaced, in the current directory.
func OutputPath(csvPath string) string {
	base := filepath.Base(csvPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
