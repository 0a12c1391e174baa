// memplot renders memory/goroutine profiling CSVs as a 2x2 chart grid.
//
// Usage: memplot [flags] <csv_file>
//
// The grid is written as <input-stem>.png in the current directory (override
// with -out) and then shown in an interactive viewer window unless -no-show
// is given.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iafilius/RuntimeMetricsPlotter/src/metrics"
	"github.com/iafilius/RuntimeMetricsPlotter/src/plotter"
	"github.com/iafilius/RuntimeMetricsPlotter/src/viewer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("memplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outPath := fs.String("out", "", "Output PNG path (default: <input-stem>.png in the current directory)")
	noShow := fs.Bool("no-show", false, "Write the PNG without opening the viewer window")
	logLevel := fs.String("log-level", "info", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: memplot [flags] <csv_file>")
		return 1
	}
	metrics.SetLogLevel(*logLevel)

	csvPath := fs.Arg(0)
	if _, err := os.Stat(csvPath); err != nil {
		fmt.Fprintf(stderr, "Error: file '%s' not found\n", csvPath)
		return 1
	}

	ds, err := metrics.Load(csvPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: load %s: %v\n", csvPath, err)
		return 1
	}
	panels, err := plotter.RenderPanels(ds)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	grid, err := plotter.ComposeGrid(panels)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := *outPath
	if out == "" {
		out = plotter.OutputPath(csvPath)
	}
	if err := plotter.WritePNG(grid, out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Plot saved to: %s\n", out)

	if !*noShow {
		viewer.Show(csvPath, grid, panels)
	}
	return 0
}
