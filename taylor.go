package snappyko

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// taylorStep is the time step of the central finite differences behind
// Motion. The value is a compromise: small enough to resolve ultra short
// period orbits, large enough that the fourth derivative stays clear of
// the double precision cancellation floor.
const taylorStep = 2e-2

// defaultTablePoints is the phase resolution used by NewDefaultOrbitTable.
const defaultTablePoints = 200

// Motion holds the planet's sky-plane position and its first four time
// derivatives (velocity, acceleration, jerk, snap) at one orbital phase,
// in [R_star] and [R_star/day^n]. It doubles as the coefficient set of a
// fourth-order Taylor expansion of the position around its anchor phase.
type Motion struct {
	X, Y   float64
	VX, VY float64
	AX, AY float64
	JX, JY float64
	SX, SY float64
}

// MotionAtPhase solves the orbit at seven phases centered on phase and
// differentiates the sky-plane position with fixed seven-point central
// stencils. The orbit is anchored so that phase zero is inferior
// conjunction (the same convention as TrueAnomalyAt with t0 = 0).
func MotionAtPhase(phase, p, a, i, e, ω float64) Motion {
	dt := snappykoConfig().taylorStep
	ae := a * (1 - e*e)
	ci := math.Cos(i)

	var x, y [7]float64
	for k := range x {
		ν := TrueAnomalyAt(phase+float64(k-3)*dt, 0, p, e, ω)
		r := ae / (1 + e*math.Cos(ν))
		x[k] = -r * math.Cos(ω+ν)
		y[k] = -r * math.Sin(ω+ν) * ci
	}

	var m Motion
	m.X, m.Y = x[3], y[3]

	// First derivative: velocity.
	ca, cb, cc := 1.0/60, 9.0/60, 45.0/60
	m.VX = (ca*(x[6]-x[0]) + cb*(x[1]-x[5]) + cc*(x[4]-x[2])) / dt
	m.VY = (ca*(y[6]-y[0]) + cb*(y[1]-y[5]) + cc*(y[4]-y[2])) / dt

	// Second derivative: acceleration.
	ca, cb, cc, cd := 1.0/90, 3.0/20, 3.0/2, 49.0/18
	m.AX = (ca*(x[0]+x[6]) - cb*(x[1]+x[5]) + cc*(x[2]+x[4]) - cd*x[3]) / (dt * dt)
	m.AY = (ca*(y[0]+y[6]) - cb*(y[1]+y[5]) + cc*(y[2]+y[4]) - cd*y[3]) / (dt * dt)

	// Third derivative: jerk.
	ca, cb, cc = 1.0/8, 1.0, 13.0/8
	m.JX = (ca*(x[0]-x[6]) + cb*(x[5]-x[1]) + cc*(x[2]-x[4])) / (dt * dt * dt)
	m.JY = (ca*(y[0]-y[6]) + cb*(y[5]-y[1]) + cc*(y[2]-y[4])) / (dt * dt * dt)

	// Fourth derivative: snap.
	ca, cb, cc, cd = 1.0/6, 2.0, 13.0/2, 28.0/3
	m.SX = (-ca*(x[0]+x[6]) + cb*(x[1]+x[5]) - cc*(x[2]+x[4]) + cd*x[3]) / (dt * dt * dt * dt)
	m.SY = (-ca*(y[0]+y[6]) + cb*(y[1]+y[5]) - cc*(y[2]+y[4]) + cd*y[3]) / (dt * dt * dt * dt)
	return m
}

// taylor evaluates the fourth-order expansion at offset tc from the anchor.
func (m Motion) taylor(tc float64) (x, y float64) {
	tc2 := tc * tc
	tc3 := tc2 * tc
	tc4 := tc3 * tc
	x = m.X + m.VX*tc + 0.5*m.AX*tc2 + m.JX*tc3/6 + m.SX*tc4/24
	y = m.Y + m.VY*tc + 0.5*m.AY*tc2 + m.JY*tc3/6 + m.SY*tc4/24
	return x, y
}

// XYNearTransit evaluates the expansion at time t, folding t into the
// transit-centered window [t0 - p/2, t0 + p/2). The expansion is assumed
// anchored at (or very near) inferior conjunction; accuracy degrades a few
// stencil steps away from the anchor.
func (m Motion) XYNearTransit(t, t0, p float64) (x, y float64) {
	epoch := math.Floor((t - t0 + 0.5*p) / p)
	return m.taylor(t - (t0 + epoch*p))
}

// ProjectedDistanceNearTransit returns the projected star-planet separation
// at time t from a transit-centered expansion.
func (m Motion) ProjectedDistanceNearTransit(t, t0, p float64) float64 {
	x, y := m.XYNearTransit(t, t0, p)
	return math.Sqrt(x*x + y*y)
}

// ProjectedDistancesNearTransit returns the projected separation at each
// time in ts from a transit-centered expansion.
func (m Motion) ProjectedDistancesNearTransit(ts []float64, t0, p float64) []float64 {
	zs := make([]float64, len(ts))
	for j, t := range ts {
		zs[j] = m.ProjectedDistanceNearTransit(t, t0, p)
	}
	return zs
}

// row flattens the motion into a coefficient table row.
func (m Motion) row() []float64 {
	return []float64{m.X, m.Y, m.VX, m.VY, m.AX, m.AY, m.JX, m.JY, m.SX, m.SY}
}

func motionFromRow(r []float64) Motion {
	return Motion{r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], r[9]}
}

// OrbitTable caches per-segment Taylor expansions over one full orbital
// period, so that repeated position queries on the same orbit avoid
// re-solving Kepler's equation. Build once, read from any number of
// goroutines: the table is never mutated after construction.
type OrbitTable struct {
	p      float64
	dt     float64
	points []float64
	coeffs *mat64.Dense // npt×10, one Motion per row
}

// NewOrbitTable builds a table of npt evenly spaced expansions covering one
// period of the orbit (p, a, i, e, ω). The last row is forced equal to the
// first so the table closes exactly at phase = p.
func NewOrbitTable(p, a, i, e, ω float64, npt int) (*OrbitTable, error) {
	if p <= 0 {
		return nil, fmt.Errorf("%w: period %f must be positive", ErrInvalidConfiguration, p)
	}
	if npt < 2 {
		return nil, fmt.Errorf("%w: need at least 2 table points, got %d", ErrInvalidConfiguration, npt)
	}
	points := floats.Span(make([]float64, npt), 0, p)
	coeffs := mat64.NewDense(npt, 10, nil)
	for ix := 0; ix < npt-1; ix++ {
		coeffs.SetRow(ix, MotionAtPhase(points[ix], p, a, i, e, ω).row())
	}
	coeffs.SetRow(npt-1, mat64.Row(nil, 0, coeffs))
	return &OrbitTable{p: p, dt: points[1] - points[0], points: points, coeffs: coeffs}, nil
}

// NewDefaultOrbitTable builds a table with the configured default phase
// resolution.
func NewDefaultOrbitTable(p, a, i, e, ω float64) (*OrbitTable, error) {
	return NewOrbitTable(p, a, i, e, ω, snappykoConfig().tablePoints)
}

// Points returns the phase grid of the table.
func (tb *OrbitTable) Points() []float64 { return tb.points }

// SegmentWidth returns the phase spacing between expansions.
func (tb *OrbitTable) SegmentWidth() float64 { return tb.dt }

// MotionAt returns the cached expansion at grid index ix.
func (tb *OrbitTable) MotionAt(ix int) Motion {
	return motionFromRow(tb.coeffs.RawRowView(ix))
}

// XYAt returns the planet's sky-plane position at time t for an orbit with
// transit epoch t0, valid at any orbital phase. The time is folded into
// [0, p) and evaluated against the nearest cached expansion; rounding at
// the fold boundary is clamped back onto the grid.
func (tb *OrbitTable) XYAt(t, t0 float64) (x, y float64) {
	epoch := math.Floor((t - t0) / tb.p)
	tc := t - t0 - epoch*tb.p
	ix := int(math.Floor(tc/tb.dt + 0.5))
	if ix >= len(tb.points) {
		ix = len(tb.points) - 1
	}
	return motionFromRow(tb.coeffs.RawRowView(ix)).taylor(tc - tb.points[ix])
}

// XYSeries returns the planet positions at each time in ts.
func (tb *OrbitTable) XYSeries(ts []float64, t0 float64) (xs, ys []float64) {
	xs = make([]float64, len(ts))
	ys = make([]float64, len(ts))
	for j, t := range ts {
		xs[j], ys[j] = tb.XYAt(t, t0)
	}
	return xs, ys
}

// ProjectedDistanceAt returns the projected star-planet separation at time
// t, valid at any orbital phase.
func (tb *OrbitTable) ProjectedDistanceAt(t, t0 float64) float64 {
	x, y := tb.XYAt(t, t0)
	return math.Sqrt(x*x + y*y)
}

// ProjectedDistanceSeries returns the projected separation at each time in
// ts.
func (tb *OrbitTable) ProjectedDistanceSeries(ts []float64, t0 float64) []float64 {
	zs := make([]float64, len(ts))
	for j, t := range ts {
		zs[j] = tb.ProjectedDistanceAt(t, t0)
	}
	return zs
}

// DualTransitExpansion stitches two local expansions whose anchors straddle
// a transit center: Before is anchored Offset days before mid-transit and
// After the same amount after it. Times handed to the evaluators must be
// relative to the transit center (t < 0 selects Before, t ≥ 0 After), which
// covers transits whose ingress-to-egress window outruns the radius of
// validity of a single expansion.
type DualTransitExpansion struct {
	Before, After Motion
	Offset        float64
}

// NewDualTransitExpansion builds the two expansions for the orbit
// (p, a, i, e, ω) at phases ∓offset around inferior conjunction.
func NewDualTransitExpansion(p, a, i, e, ω, offset float64) DualTransitExpansion {
	return DualTransitExpansion{
		Before: MotionAtPhase(-offset, p, a, i, e, ω),
		After:  MotionAtPhase(offset, p, a, i, e, ω),
		Offset: offset,
	}
}

// ProjectedDistanceAt returns the projected star-planet separation at time
// t near a transit centered on t0 + k·p.
func (d DualTransitExpansion) ProjectedDistanceAt(t, t0, p float64) float64 {
	epoch := math.Floor((t - t0 + 0.5*p) / p)
	tc := t - (t0 + epoch*p)
	var m Motion
	if t < 0 {
		m = d.Before
		tc += d.Offset
	} else {
		m = d.After
		tc -= d.Offset
	}
	x, y := m.taylor(tc)
	return math.Sqrt(x*x + y*y)
}

// ProjectedDistanceSeries returns the projected separation at each time in
// ts.
func (d DualTransitExpansion) ProjectedDistanceSeries(ts []float64, t0, p float64) []float64 {
	zs := make([]float64, len(ts))
	for j, t := range ts {
		zs[j] = d.ProjectedDistanceAt(t, t0, p)
	}
	return zs
}
