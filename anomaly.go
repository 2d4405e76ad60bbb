package snappyko

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// Newton iteration defaults for Kepler's equation. The tolerance applies to
// the residual E - e·sinE - M, not the step size, and the cap bounds the
// worst case near e → 1 where the derivative 1 - e·cosE approaches zero.
// Both can be overridden through the configuration file (see config.go).
const (
	newtonε       = 1e-8
	newtonMaxIter = 1000
)

var pkgLog kitlog.Logger = kitlog.NewNopLogger()

// SetLogger routes solver diagnostics to the provided go-kit logger. The
// default logger discards everything, which preserves the historical
// behavior of failing silently on a hit iteration cap.
func SetLogger(l kitlog.Logger) {
	if l == nil {
		l = kitlog.NewNopLogger()
	}
	pkgLog = l
}

// TrueAnomalyFromEccentric converts an eccentric anomaly E to the true
// anomaly for eccentricity e, in (-π, π]. The atan2 quadrant handling here
// is load bearing: ProjectedDistance signs z from sin(ω+ν).
func TrueAnomalyFromEccentric(E, e float64) float64 {
	denom := 1 - e*math.Cos(E)
	sν := math.Sqrt(1-e*e) * math.Sin(E) / denom
	cν := (math.Cos(E) - e) / denom
	return math.Atan2(sν, cν)
}

// MeanAnomalyOffset returns the mean anomaly of periastron passage measured
// from inferior conjunction. This is the reparametrization that lets the
// zero epoch t0 be the observed mid-transit time instead of the (usually
// unobservable) periastron passage time.
func MeanAnomalyOffset(e, ω float64) float64 {
	Eo := math.Atan2(math.Sqrt(1-e*e)*math.Sin(halfπ-ω), e+math.Cos(halfπ-ω))
	return Eo - e*math.Sin(Eo)
}

// MeanAnomaly returns the mean anomaly at time t, in [0, 2π).
func MeanAnomaly(t, t0, p, e, ω float64) float64 {
	Mo := MeanAnomalyOffset(e, ω)
	return wrapTwoPi(twoπ * (t - (t0 - Mo*p/twoπ)) / p)
}

// solveKepler iterates Newton's method on f(E) = E - e·sinE - M from the
// initial guess E = M. Non-convergence within the cap is not an error: the
// last iterate is returned along with the iteration count and residual.
func solveKepler(M, e float64) (E float64, iter int, resid float64) {
	cfg := snappykoConfig()
	E = M
	resid = 0.05
	for math.Abs(resid) > cfg.newtonTol && iter < cfg.newtonMaxIter {
		resid = E - e*math.Sin(E) - M
		E -= resid / (1 - e*math.Cos(E))
		iter++
	}
	if iter >= cfg.newtonMaxIter {
		pkgLog.Log("level", "warning", "subsys", "kepler", "message", "iteration cap hit", "e", e, "M", M, "resid", resid)
	}
	return E, iter, resid
}

// EccentricAnomaly solves Kepler's equation for the eccentric anomaly at
// time t. Precondition: 0 ≤ e < 1; the iteration may diverge otherwise.
func EccentricAnomaly(t, t0, p, e, ω float64) float64 {
	E, _, _ := solveKepler(MeanAnomaly(t, t0, p, e, ω), e)
	return E
}

// EccentricAnomalyDiag solves Kepler's equation like EccentricAnomaly and
// additionally reports the iteration count and the final residual of
// E - e·sinE - M, for callers that want convergence diagnostics.
func EccentricAnomalyDiag(t, t0, p, e, ω float64) (E float64, iter int, resid float64) {
	return solveKepler(MeanAnomaly(t, t0, p, e, ω), e)
}

// EccentricAnomalies solves Kepler's equation for each time in ts. Each
// element is solved independently; the result is elementwise identical to
// calling EccentricAnomaly in a loop.
func EccentricAnomalies(ts []float64, t0, p, e, ω float64) []float64 {
	Es := make([]float64, len(ts))
	for j, t := range ts {
		Es[j] = EccentricAnomaly(t, t0, p, e, ω)
	}
	return Es
}

// TrueAnomalyAt returns the true anomaly at time t for an orbit with
// transit epoch t0, period p, eccentricity e and argument of periastron ω.
func TrueAnomalyAt(t, t0, p, e, ω float64) float64 {
	return TrueAnomalyFromEccentric(EccentricAnomaly(t, t0, p, e, ω), e)
}

// TrueAnomaliesAt returns the true anomaly for each time in ts.
func TrueAnomaliesAt(ts []float64, t0, p, e, ω float64) []float64 {
	νs := make([]float64, len(ts))
	for j, t := range ts {
		νs[j] = TrueAnomalyAt(t, t0, p, e, ω)
	}
	return νs
}

// ProjectedDistance returns the normalized projected star-planet center
// separation z for a true anomaly ν. Positive z means the planet is on the
// far side of the sky plane; z crosses zero exactly at conjunction, where
// sin(ω+ν) = 0.
func ProjectedDistance(ν, a, i, e, ω float64) float64 {
	sων := math.Sin(ω + ν)
	si := math.Sin(i)
	z := a * (1 - e*e) / (1 + e*math.Cos(ν)) * math.Sqrt(1-sων*sων*si*si)
	return z * sign(sων)
}

// ProjectedDistances returns the projected separation for each true anomaly
// in νs.
func ProjectedDistances(νs []float64, a, i, e, ω float64) []float64 {
	zs := make([]float64, len(νs))
	for j, ν := range νs {
		zs[j] = ProjectedDistance(ν, a, i, e, ω)
	}
	return zs
}

// ZAt composes the Kepler solver and the sky projection: the projected
// separation at time t from the raw element tuple.
func ZAt(t, t0, p, a, i, e, ω float64) float64 {
	return ProjectedDistance(TrueAnomalyAt(t, t0, p, e, ω), a, i, e, ω)
}

// ZSeries returns the projected separation at each time in ts.
func ZSeries(ts []float64, t0, p, a, i, e, ω float64) []float64 {
	zs := make([]float64, len(ts))
	for j, t := range ts {
		zs[j] = ZAt(t, t0, p, a, i, e, ω)
	}
	return zs
}
