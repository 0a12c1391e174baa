// Package metrics loads runtime profile metrics from CSV into memory.
//
// The expected input is the CSV emitted by a memory-profiling run: one row
// per sample with heap sizes in megabytes, object/goroutine counts and
// cumulative allocation/GC counters. The loader derives a time axis in
// minutes from the raw timestamp column; nothing else is transformed.
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Required CSV columns, exact and case-sensitive. Extra columns are ignored
// and column order is not significant.
var requiredColumns = []string{
	"timestamp",
	"heap_alloc_mb",
	"heap_inuse_mb",
	"heap_sys_mb",
	"heap_objects",
	"goroutines",
	"total_alloc_mb",
	"num_gc",
}

// Row is a single metrics sample.
type Row struct {
	Timestamp    float64 // seconds since profiling start
	HeapAllocMB  float64
	HeapInuseMB  float64
	HeapSysMB    float64
	HeapObjects  uint64
	Goroutines   int
	TotalAllocMB float64 // cumulative
	NumGC        uint32  // cumulative
	TimeMinutes  float64 // derived: Timestamp / 60
}

// Dataset holds all samples from one CSV file in input order.
type Dataset struct {
	Path string
	Rows []Row
}

// Load reads the CSV at path and returns the dataset with the derived
// TimeMinutes column populated. It fails if the header is missing any
// required column or a cell of a required column does not parse.
func Load(path string) (*Dataset, error) {
	defer TimeTrack(time.Now(), "load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	ds := &Dataset{Path: path}
	line := 1 // header consumed
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		row, perr := parseRow(rec, cols)
		if perr != nil {
			return nil, fmt.Errorf("parse row %d: %w", line, perr)
		}
		ds.Rows = append(ds.Rows, row)
	}
	Debugf("loaded %d samples from %s", len(ds.Rows), path)
	return ds, nil
}

func parseRow(rec []string, cols map[string]int) (Row, error) {
	var row Row
	var err error
	floatField := func(name string, dst *float64) {
		if err != nil {
			return
		}
		v, perr := strconv.ParseFloat(rec[cols[name]], 64)
		if perr != nil {
			err = fmt.Errorf("column %q: %w", name, perr)
			return
		}
		*dst = v
	}
	floatField("timestamp", &row.Timestamp)
	floatField("heap_alloc_mb", &row.HeapAllocMB)
	floatField("heap_inuse_mb", &row.HeapInuseMB)
	floatField("heap_sys_mb", &row.HeapSysMB)
	floatField("total_alloc_mb", &row.TotalAllocMB)
	if err == nil {
		v, perr := strconv.ParseUint(rec[cols["heap_objects"]], 10, 64)
		if perr != nil {
			err = fmt.Errorf("column %q: %w", "heap_objects", perr)
		}
		row.HeapObjects = v
	}
	if err == nil {
		v, perr := strconv.Atoi(rec[cols["goroutines"]])
		if perr != nil {
			err = fmt.Errorf("column %q: %w", "goroutines", perr)
		}
		row.Goroutines = v
	}
	if err == nil {
		v, perr := strconv.ParseUint(rec[cols["num_gc"]], 10, 32)
		if perr != nil {
			err = fmt.Errorf("column %q: %w", "num_gc", perr)
		}
		row.NumGC = uint32(v)
	}
	if err != nil {
		return Row{}, err
	}
	row.TimeMinutes = row.Timestamp / 60
	return row, nil
}

// Column vector accessors consumed by the plotting layer. Each returns a
// fresh slice; the dataset itself is never mutated after Load.

func (d *Dataset) TimeMinutes() []float64 {
	return d.column(func(r Row) float64 { return r.TimeMinutes })
}

func (d *Dataset) HeapAllocMB() []float64 {
	return d.column(func(r Row) float64 { return r.HeapAllocMB })
}

func (d *Dataset) HeapInuseMB() []float64 {
	return d.column(func(r Row) float64 { return r.HeapInuseMB })
}

func (d *Dataset) HeapSysMB() []float64 {
	return d.column(func(r Row) float64 { return r.HeapSysMB })
}

func (d *Dataset) HeapObjects() []float64 {
	return d.column(func(r Row) float64 { return float64(r.HeapObjects) })
}

func (d *Dataset) Goroutines() []float64 {
	return d.column(func(r Row) float64 { return float64(r.Goroutines) })
}

func (d *Dataset) TotalAllocMB() []float64 {
	return d.column(func(r Row) float64 { return r.TotalAllocMB })
}

func (d *Dataset) NumGC() []float64 {
	return d.column(func(r Row) float64 { return float64(r.NumGC) })
}

func (d *Dataset) column(get func(Row) float64) []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = get(r)
	}
	return out
}
