// Package snappyko computes the relative geometry of a star-planet Keplerian
// orbit as a function of time: mean, eccentric and true anomaly conversions,
// the normalized sky-projected star-planet separation, and fast local Taylor
// approximations of the planet position near transit. It is meant to sit
// inside transit light curve models that evaluate orbital positions for
// millions of time samples per model evaluation.
package snappyko

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidElements is returned when an orbital element is outside its
	// physical range (p ≤ 0, a ≤ 0, or e outside [0, 1)).
	ErrInvalidElements = errors.New("invalid orbital elements")
	// ErrInvalidConfiguration is returned for degenerate solver or table
	// configurations, such as a table with fewer than two points.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Orbit defines a star-planet orbit via its orbital elements. The semi-major
// axis is scaled to the stellar radius, the zero epoch t0 marks inferior
// conjunction (mid-transit), not periastron passage. Immutable once built.
type Orbit struct {
	t0, p, a, i, e, ω float64
}

// NewOrbit creates an orbit from the transit epoch t0, period p [days],
// scaled semi-major axis a [R_star], inclination i [rad], eccentricity e
// and argument of periastron ω [rad]. The eccentricity must stay strictly
// below one: Kepler's equation has no bound solution at e ≥ 1.
func NewOrbit(t0, p, a, i, e, ω float64) (Orbit, error) {
	if p <= 0 {
		return Orbit{}, fmt.Errorf("%w: period %f must be positive", ErrInvalidElements, p)
	}
	if a <= 0 {
		return Orbit{}, fmt.Errorf("%w: semi-major axis %f must be positive", ErrInvalidElements, a)
	}
	if e < 0 || e >= 1 {
		return Orbit{}, fmt.Errorf("%w: eccentricity %f outside [0,1)", ErrInvalidElements, e)
	}
	return Orbit{t0, p, a, i, e, ω}, nil
}

// Elements returns the six orbital elements.
func (o Orbit) Elements() (t0, p, a, i, e, ω float64) {
	return o.t0, o.p, o.a, o.i, o.e, o.ω
}

// Epoch returns the zero epoch (mid-transit time).
func (o Orbit) Epoch() float64 { return o.t0 }

// Period returns the orbital period in days.
func (o Orbit) Period() float64 { return o.p }

// TrueAnomalyAt returns the true anomaly at time t.
func (o Orbit) TrueAnomalyAt(t float64) float64 {
	return TrueAnomalyAt(t, o.t0, o.p, o.e, o.ω)
}

// ZAt returns the normalized projected star-planet separation at time t.
func (o Orbit) ZAt(t float64) float64 {
	return ProjectedDistance(o.TrueAnomalyAt(t), o.a, o.i, o.e, o.ω)
}

// ZSeries returns the normalized projected separation for each time in ts.
func (o Orbit) ZSeries(ts []float64) []float64 {
	zs := make([]float64, len(ts))
	for j, t := range ts {
		zs[j] = o.ZAt(t)
	}
	return zs
}

// TransitFactor returns the (1-e²)/(1+e sin ω) radius factor at transit.
func (o Orbit) TransitFactor() float64 {
	return TransitFactor(o.e, o.ω)
}

// EclipsePhase returns the phase of the secondary eclipse center relative
// to the transit center, in (0, p]. Exact for all eccentricities.
func (o Orbit) EclipsePhase() float64 {
	return EclipsePhase(o.p, o.i, o.e, o.ω)
}

// ImpactParameter returns the projected separation at inferior conjunction.
func (o Orbit) ImpactParameter() float64 {
	return o.a * math.Cos(o.i) * o.TransitFactor()
}

// String implements the Stringer interface.
func (o Orbit) String() string {
	return fmt.Sprintf("t0=%f p=%f a=%.2f i=%.3f e=%.4f ω=%.3f", o.t0, o.p, o.a, Rad2deg(o.i), o.e, Rad2deg(o.ω))
}

// TransitFactor returns the scaled orbital radius factor (1-e²)/(1+e sin ω)
// at inferior conjunction.
func TransitFactor(e, ω float64) float64 {
	return (1 - e*e) / (1 + e*math.Sin(ω))
}

// InclinationFromImpactParam returns the orbital inclination [rad] implied
// by an impact parameter b, scaled semi-major axis a [R_star], eccentricity
// e and argument of periastron ω [rad]. Returns NaN when b exceeds the
// projected orbital radius at transit.
func InclinationFromImpactParam(b, a, e, ω float64) float64 {
	return math.Acos(b / (a * TransitFactor(e, ω)))
}

// EclipsePhase returns the phase of the secondary eclipse center for an
// orbit with period p, inclination i, eccentricity e and argument of
// periastron ω. Exact for all eccentricities, wrapped into (0, p].
func EclipsePhase(p, i, e, ω float64) float64 {
	etr := math.Atan2(math.Sqrt(1-e*e)*math.Sin(halfπ-ω), e+math.Cos(halfπ-ω))
	eec := math.Atan2(math.Sqrt(1-e*e)*math.Sin(halfπ+math.Pi-ω), e+math.Cos(halfπ+math.Pi-ω))
	mtr := etr - e*math.Sin(etr)
	mec := eec - e*math.Sin(eec)
	phase := (mec - mtr) * p / twoπ
	if phase <= 0 {
		phase += p
	}
	return phase
}
