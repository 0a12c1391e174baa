// Package viewer shows rendered metric charts in an interactive window.
package viewer

import (
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/RuntimeMetricsPlotter/src/metrics"
	"github.com/iafilius/RuntimeMetricsPlotter/src/plotter"
)

type uiState struct {
	app     fyne.App
	window  fyne.Window
	csvPath string

	gridCanvas    *canvas.Image
	panelCanvases []*canvas.Image
}

func windowTitle(csvPath string) string {
	return "Runtime Metrics - " + filepath.Base(csvPath)
}

// Show opens a window displaying the composed grid plus one tab per panel,
// with Reload (re-read the CSV and redraw) and Export controls. It blocks
// until the window is closed.
func Show(csvPath string, grid image.Image, panels []plotter.Panel) {
	a := app.NewWithID("com.iafilius.runtimemetricsplotter")
	w := a.NewWindow(windowTitle(csvPath))
	w.Resize(fyne.NewSize(1200, 850))

	state := &uiState{app: a, window: w, csvPath: csvPath}

	state.gridCanvas = newChartCanvas(grid, 1100, 740)
	tabs := container.NewAppTabs(container.NewTabItem("Grid", container.NewVScroll(state.gridCanvas)))
	for _, p := range panels {
		c := newChartCanvas(p.Image, 1100, 740)
		state.panelCanvases = append(state.panelCanvases, c)
		tabs.Append(container.NewTabItem(p.Name, container.NewVScroll(c)))
	}
	tabs.SetTabLocation(container.TabLocationTop)

	top := container.NewHBox(
		widget.NewButton("Reload", func() { reload(state) }),
		widget.NewButton("Export PNG…", func() { exportGridPNG(state) }),
		widget.NewLabel("File: "+csvPath),
	)

	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))
	w.ShowAndRun()
}

func newChartCanvas(img image.Image, minW, minH float32) *canvas.Image {
	c := canvas.NewImageFromImage(img)
	c.FillMode = canvas.ImageFillContain
	c.SetMinSize(fyne.NewSize(minW, minH))
	return c
}

// reload re-reads the CSV and refreshes every canvas in place.
func reload(state *uiState) {
	ds, err := metrics.Load(state.csvPath)
	if err != nil {
		dialog.ShowError(fmt.Errorf("reload %s: %w", state.csvPath, err), state.window)
		return
	}
	panels, err := plotter.RenderPanels(ds)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	grid, err := plotter.ComposeGrid(panels)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.gridCanvas.Image = grid
	state.gridCanvas.Refresh()
	updated := syncPanelImages(state.panelCanvases, panels)
	for i := 0; i < updated; i++ {
		state.panelCanvases[i].Refresh()
	}
	metrics.Infof("reloaded %d samples from %s", len(ds.Rows), state.csvPath)
}

// syncPanelImages copies freshly rendered panel images onto the matching
// canvases in order and reports how many were updated. Surplus panels or
// canvases are left untouched.
func syncPanelImages(canvases []*canvas.Image, panels []plotter.Panel) int {
	n := len(panels)
	if len(canvases) < n {
		n = len(canvases)
	}
	for i := 0; i < n; i++ {
		canvases[i].Image = panels[i].Image
	}
	return n
}

func exportGridPNG(state *uiState) {
	if state.gridCanvas == nil || state.gridCanvas.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if eerr := png.Encode(wc, state.gridCanvas.Image); eerr != nil {
			metrics.Errorf("export png: %v", eerr)
		}
	}, state.window)
	fs.SetFileName(plotter.OutputPath(state.csvPath))
	fs.Show()
}
