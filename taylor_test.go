package snappyko

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

// directXY computes the sky-plane position from a full Kepler solution.
func directXY(t, t0, p, a, i, e, ω float64) (x, y float64) {
	ν := TrueAnomalyAt(t, t0, p, e, ω)
	r := a * (1 - e*e) / (1 + e*math.Cos(ν))
	return -r * math.Cos(ω+ν), -r * math.Sin(ω+ν) * math.Cos(i)
}

func TestOrbitTablePeriodicClosure(t *testing.T) {
	tb, err := NewOrbitTable(2.8, 6.0, Deg2rad(88), 0.15, 1.2, 100)
	if err != nil {
		t.Fatal(err)
	}
	first, last := tb.MotionAt(0), tb.MotionAt(len(tb.Points())-1)
	if first != last {
		t.Fatalf("table does not close periodically:\nfirst %+v\nlast  %+v", first, last)
	}
}

func TestOrbitTableInvalidConfiguration(t *testing.T) {
	if _, err := NewOrbitTable(0, 6.0, halfπ, 0.1, 0, 100); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("degenerate period: got %v", err)
	}
	if _, err := NewOrbitTable(2.8, 6.0, halfπ, 0.1, 0, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("single-point table: got %v", err)
	}
}

func TestOrbitTableMatchesKepler(t *testing.T) {
	t0, p, a, i, e, ω := 1.2, 3.0, 7.0, Deg2rad(87), 0.1, 1.1
	tb, err := NewOrbitTable(p, a, i, e, ω, 200)
	if err != nil {
		t.Fatal(err)
	}
	ts := floats.Span(make([]float64, 301), t0-p, t0+2*p)
	for _, tt := range ts {
		x, y := tb.XYAt(tt, t0)
		xd, yd := directXY(tt, t0, p, a, i, e, ω)
		if !floats.EqualWithinAbs(x, xd, 1e-4) || !floats.EqualWithinAbs(y, yd, 1e-4) {
			t.Fatalf("t=%f: table (%f,%f) vs kepler (%f,%f)", tt, x, y, xd, yd)
		}
		pd := tb.ProjectedDistanceAt(tt, t0)
		if !floats.EqualWithinAbs(pd, math.Hypot(xd, yd), 1e-4) {
			t.Fatalf("t=%f: table distance %f vs kepler %f", tt, pd, math.Hypot(xd, yd))
		}
	}
}

func TestOrbitTableFoldBoundary(t *testing.T) {
	t0, p := 0.0, 3.0
	tb, err := NewOrbitTable(p, 7.0, halfπ, 0.0, halfπ, 50)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []float64{t0, t0 + p, t0 - p, math.Nextafter(t0+p, 0), math.Nextafter(t0+p, 4)} {
		x, y := tb.XYAt(tt, t0)
		if math.IsNaN(x) || math.IsNaN(y) {
			t.Fatalf("t=%v: NaN position at fold boundary", tt)
		}
	}
	x0, y0 := tb.XYAt(t0, t0)
	x1, y1 := tb.XYAt(t0+p, t0)
	if !floats.EqualWithinAbs(x0, x1, 1e-9) || !floats.EqualWithinAbs(y0, y1, 1e-9) {
		t.Fatalf("position not periodic across fold: (%f,%f) vs (%f,%f)", x0, y0, x1, y1)
	}
}

func TestOrbitTableSeriesEquivalence(t *testing.T) {
	t0, p := 0.6, 2.2
	tb, err := NewOrbitTable(p, 5.0, Deg2rad(89), 0.05, 0.4, 120)
	if err != nil {
		t.Fatal(err)
	}
	ts := floats.Span(make([]float64, 40), t0-p, t0+p)
	xs, ys := tb.XYSeries(ts, t0)
	zs := tb.ProjectedDistanceSeries(ts, t0)
	for j, tt := range ts {
		x, y := tb.XYAt(tt, t0)
		if xs[j] != x || ys[j] != y {
			t.Fatalf("batched table position differs from scalar at %d", j)
		}
		if zs[j] != tb.ProjectedDistanceAt(tt, t0) {
			t.Fatalf("batched table distance differs from scalar at %d", j)
		}
	}
}

func TestTransitLocalExpansion(t *testing.T) {
	t0, p, a, i, e, ω := 2.0, 3.0, 7.0, Deg2rad(90), 0.0, halfπ
	m := MotionAtPhase(0, p, a, i, e, ω)

	dts := floats.Span(make([]float64, 41), -0.04, 0.04)
	for _, dt := range dts {
		tt := t0 + dt
		xd, yd := directXY(tt, t0, p, a, i, e, ω)
		x, y := m.XYNearTransit(tt, t0, p)
		if !floats.EqualWithinAbs(x, xd, 1e-5) || !floats.EqualWithinAbs(y, yd, 1e-5) {
			t.Fatalf("dt=%f: expansion (%e,%e) vs kepler (%e,%e)", dt, x, y, xd, yd)
		}
		pd := m.ProjectedDistanceNearTransit(tt, t0, p)
		if !floats.EqualWithinAbs(pd, math.Hypot(xd, yd), 1e-5) {
			t.Fatalf("dt=%f: expansion distance %e vs kepler %e", dt, pd, math.Hypot(xd, yd))
		}
	}
}

func TestTransitLocalEpochFolding(t *testing.T) {
	t0, p, a, i, e, ω := 1.0, 2.5, 6.0, Deg2rad(88), 0.1, 1.4
	m := MotionAtPhase(0, p, a, i, e, ω)
	for _, dt := range []float64{-0.02, 0, 0.015} {
		base := m.ProjectedDistanceNearTransit(t0+dt, t0, p)
		for _, k := range []float64{-3, 1, 7} {
			folded := m.ProjectedDistanceNearTransit(t0+dt+k*p, t0, p)
			if !floats.EqualWithinAbs(base, folded, 1e-9) {
				t.Fatalf("dt=%f k=%.0f: folding changed distance: %e vs %e", dt, k, base, folded)
			}
		}
	}
}

func TestTransitLocalSeriesEquivalence(t *testing.T) {
	t0, p := 0.0, 3.0
	m := MotionAtPhase(0, p, 7.0, halfπ, 0.0, halfπ)
	ts := floats.Span(make([]float64, 21), t0-0.05, t0+0.05)
	zs := m.ProjectedDistancesNearTransit(ts, t0, p)
	for j, tt := range ts {
		if zs[j] != m.ProjectedDistanceNearTransit(tt, t0, p) {
			t.Fatalf("batched near-transit distance differs from scalar at %d", j)
		}
	}
}

func TestDualTransitExpansion(t *testing.T) {
	p, a, i, e, ω := 3.0, 7.0, Deg2rad(89), 0.08, 1.0
	offset := 0.02
	d := NewDualTransitExpansion(p, a, i, e, ω, offset)

	ts := floats.Span(make([]float64, 61), -0.06, 0.06)
	for _, tt := range ts {
		xd, yd := directXY(tt, 0, p, a, i, e, ω)
		pd := d.ProjectedDistanceAt(tt, 0, p)
		if !floats.EqualWithinAbs(pd, math.Hypot(xd, yd), 1e-4) {
			t.Fatalf("t=%f: dual expansion %e vs kepler %e", tt, pd, math.Hypot(xd, yd))
		}
	}

	// The two expansions must agree where they hand over.
	left := d.ProjectedDistanceAt(-1e-9, 0, p)
	right := d.ProjectedDistanceAt(1e-9, 0, p)
	if !floats.EqualWithinAbs(left, right, 1e-6) {
		t.Fatalf("discontinuity at transit center: %e vs %e", left, right)
	}

	zs := d.ProjectedDistanceSeries(ts, 0, p)
	for j, tt := range ts {
		if zs[j] != d.ProjectedDistanceAt(tt, 0, p) {
			t.Fatalf("batched dual-segment distance differs from scalar at %d", j)
		}
	}
}

func TestMotionDerivativesCircular(t *testing.T) {
	// For an edge-on circular orbit the motion at mid-transit is uniform
	// along x with angular rate 2π/p: vx = a·2π/p, ax ≈ 0 along x.
	p, a := 3.0, 7.0
	m := MotionAtPhase(0, p, a, halfπ, 0, halfπ)
	want := a * twoπ / p
	if !floats.EqualWithinRel(m.VX, want, 1e-6) {
		t.Fatalf("transit velocity %f, want %f", m.VX, want)
	}
	if !floats.EqualWithinAbs(m.AX, 0, 1e-4) {
		t.Fatalf("transit x acceleration %e, want ~0", m.AX)
	}
}
