package plotter

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/RuntimeMetricsPlotter/src/metrics"
)

func testDataset() *metrics.Dataset {
	rows := []metrics.Row{
		{Timestamp: 0, HeapAllocMB: 10, HeapInuseMB: 12, HeapSysMB: 20, HeapObjects: 1000, Goroutines: 8, TotalAllocMB: 10, NumGC: 0},
		{Timestamp: 120, HeapAllocMB: 20, HeapInuseMB: 22, HeapSysMB: 30, HeapObjects: 2000, Goroutines: 9, TotalAllocMB: 55, NumGC: 3},
	}
	for i := range rows {
		rows[i].TimeMinutes = rows[i].Timestamp / 60
	}
	return &metrics.Dataset{Path: "profile-metrics.csv", Rows: rows}
}

func TestHeapMemoryChartFirstSeriesPoints(t *testing.T) {
	ch := heapMemoryChart(testDataset(), panelWidth, panelHeight)
	if len(ch.Series) != 3 {
		t.Fatalf("expected 3 series, got %d", len(ch.Series))
	}
	first, ok := ch.Series[0].(markerSeries)
	if !ok {
		t.Fatalf("expected markerSeries, got %T", ch.Series[0])
	}
	if first.Name != "HeapAlloc" {
		t.Fatalf("expected first series HeapAlloc, got %q", first.Name)
	}
	wantX := []float64{0, 2}
	wantY := []float64{10, 20}
	if len(first.XValues) != 2 {
		t.Fatalf("expected 2 points, got %d", len(first.XValues))
	}
	for i := range wantX {
		if first.XValues[i] != wantX[i] || first.YValues[i] != wantY[i] {
			t.Fatalf("point %d: got (%v,%v) want (%v,%v)", i, first.XValues[i], first.YValues[i], wantX[i], wantY[i])
		}
	}
	shapes := []markerShape{markerCircle, markerSquare, markerTriangle}
	for i, s := range ch.Series {
		ms := s.(markerSeries)
		if ms.Shape != shapes[i] {
			t.Fatalf("series %d: shape %v want %v", i, ms.Shape, shapes[i])
		}
	}
}

func TestAllocGCChartUsesSecondaryAxis(t *testing.T) {
	ch := allocGCChart(testDataset(), panelWidth, panelHeight)
	if len(ch.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(ch.Series))
	}
	gc := ch.Series[1].(markerSeries)
	if gc.Name != "GC Count" {
		t.Fatalf("expected GC Count series, got %q", gc.Name)
	}
	if gc.GetYAxis() != chart.YAxisSecondary {
		t.Fatal("GC series must map to the secondary axis")
	}
	if ch.YAxisSecondary.Name != "GC Count" {
		t.Fatalf("secondary axis name %q", ch.YAxisSecondary.Name)
	}
}

func TestRenderPanels(t *testing.T) {
	panels, err := RenderPanels(testDataset())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(panels) != 4 {
		t.Fatalf("expected 4 panels, got %d", len(panels))
	}
	names := []string{"Heap Memory Usage", "Heap Objects", "Active Goroutines", "Cumulative Allocations & GC Activity"}
	for i, p := range panels {
		if p.Name != names[i] {
			t.Fatalf("panel %d name %q want %q", i, p.Name, names[i])
		}
		b := p.Image.Bounds()
		if b.Dx() != panelWidth || b.Dy() != panelHeight {
			t.Fatalf("panel %q bounds %v", p.Name, b)
		}
	}
}

func TestRenderPanelsNonFiniteColumns(t *testing.T) {
	ds := testDataset()
	for i := range ds.Rows {
		ds.Rows[i].HeapAllocMB = math.NaN()
		ds.Rows[i].HeapInuseMB = math.NaN()
		ds.Rows[i].HeapSysMB = math.NaN()
	}
	// must surface a render error, not panic on a nil axis range
	if _, err := RenderPanels(ds); err == nil {
		t.Fatal("expected render error for all-NaN heap columns")
	}
}

func TestRenderPanelsEmptyDataset(t *testing.T) {
	if _, err := RenderPanels(&metrics.Dataset{}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestRenderPanelsSingleRow(t *testing.T) {
	ds := testDataset()
	ds.Rows = ds.Rows[:1]
	panels, err := RenderPanels(ds)
	if err != nil {
		t.Fatalf("single-row render: %v", err)
	}
	if len(panels) != 4 {
		t.Fatalf("expected 4 panels, got %d", len(panels))
	}
}

func TestRenderGridBounds(t *testing.T) {
	grid, err := RenderGrid(testDataset())
	if err != nil {
		t.Fatalf("render grid: %v", err)
	}
	b := grid.Bounds()
	if b.Dx() != GridWidth || b.Dy() != GridHeight {
		t.Fatalf("grid bounds %v, want %dx%d", b, GridWidth, GridHeight)
	}
}

func TestComposeGridRequiresFourPanels(t *testing.T) {
	if _, err := ComposeGrid(nil); err == nil {
		t.Fatal("expected error for wrong panel count")
	}
}

func TestWritePNGRoundTrip(t *testing.T) {
	grid, err := RenderGrid(testDataset())
	if err != nil {
		t.Fatalf("render grid: %v", err)
	}
	path := filepath.Join(t.TempDir(), "grid.png")
	if err := WritePNG(grid, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	// overwrite must succeed
	if err := WritePNG(grid, path); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != GridWidth {
		t.Fatalf("decoded width %d", img.Bounds().Dx())
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"foo.csv", "foo.png"},
		{"/tmp/data/profile-metrics.csv", "profile-metrics.png"},
		{"noext", "noext.png"},
		{"archive.metrics.csv", "archive.metrics.png"},
	}
	for _, c := range cases {
		if got := OutputPath(c.in); got != c.want {
			t.Fatalf("OutputPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
