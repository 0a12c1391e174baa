package plotter

import (
	"math"
	"testing"

	chart "github.com/wcharczuk/go-chart/v2"
)

func TestNiceAxisBoundsWidensDegenerateRange(t *testing.T) {
	a, b := niceAxisBounds(10, 10)
	if a >= b {
		t.Fatalf("expected widened range; got [%v,%v]", a, b)
	}
	if a > 10 || b < 10 {
		t.Fatalf("range must contain the input value: [%v,%v]", a, b)
	}
}

func TestNiceAxisBoundsContainsInputs(t *testing.T) {
	cases := []struct{ min, max float64 }{
		{0, 1},
		{5, 123},
		{0.01, 0.02},
		{1000, 50000},
	}
	for _, c := range cases {
		a, b := niceAxisBounds(c.min, c.max)
		if a > c.min || b < c.max {
			t.Fatalf("bounds [%v,%v] do not contain [%v,%v]", a, b, c.min, c.max)
		}
	}
}

func TestNiceTicksAscendingAndCovering(t *testing.T) {
	ticks := niceTicks(0, 100, 6)
	if len(ticks) < 2 {
		t.Fatalf("expected >=2 ticks, got %d", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value <= ticks[i-1].Value {
			t.Fatalf("ticks not ascending at %d: %v <= %v", i, ticks[i].Value, ticks[i-1].Value)
		}
	}
	if ticks[0].Value > 0 || ticks[len(ticks)-1].Value < 100 {
		t.Fatalf("ticks do not span the range: first %v last %v", ticks[0].Value, ticks[len(ticks)-1].Value)
	}
}

func TestNiceTicksDegenerateInput(t *testing.T) {
	if ticks := niceTicks(5, 5, 1); ticks != nil {
		t.Fatalf("expected nil ticks for n<2, got %d", len(ticks))
	}
	if ticks := niceTicks(math.NaN(), 10, 6); ticks != nil {
		t.Fatalf("expected nil ticks for NaN input")
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{1500, "1500"},
		{250, "250"},
		{12.34, "12.3"},
		{1.234, "1.23"},
	}
	for _, c := range cases {
		if got := formatTick(c.v); got != c.want {
			t.Fatalf("formatTick(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestYAxisForEmptyValues(t *testing.T) {
	rng, ticks := yAxisFor(nil)
	if rng != nil || ticks != nil {
		t.Fatalf("expected nil range/ticks for empty input")
	}
}

func TestYAxisForSkipsNaN(t *testing.T) {
	rng, _ := yAxisFor([]float64{math.NaN(), 10, 20})
	if rng == nil {
		t.Fatal("expected a range")
	}
	cr := rng.(*chart.ContinuousRange)
	if cr.Min > 10 || cr.Max < 20 {
		t.Fatalf("range [%v,%v] must contain [10,20]", cr.Min, cr.Max)
	}
}

func TestYAxisForNoFiniteValuesIsUntypedNil(t *testing.T) {
	cases := [][]float64{
		{math.NaN(), math.NaN()},
		{math.Inf(1), math.Inf(-1)},
	}
	for _, vs := range cases {
		rng, ticks := yAxisFor(vs)
		// must compare nil through the interface: a typed nil pointer here
		// would later panic inside go-chart's range checks
		if rng != nil {
			t.Fatalf("expected untyped nil range for %v, got %#v", vs, rng)
		}
		if ticks != nil {
			t.Fatalf("expected nil ticks for %v", vs)
		}
	}
}
