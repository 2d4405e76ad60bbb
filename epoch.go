package snappyko

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// Times in this package are plain day numbers on whatever scale the caller
// prefers, as long as t and t0 share it. Transit ephemerides are usually
// published as Julian dates (or BJD with a fixed offset), so these helpers
// bridge time.Time and the JD scale.

// EpochFromTime returns t as a Julian day number.
func EpochFromTime(t time.Time) float64 {
	return julian.TimeToJD(t)
}

// TimeFromEpoch returns the UTC time of a Julian day number.
func TimeFromEpoch(jd float64) time.Time {
	return julian.JDToTime(jd)
}

// FoldPhase folds time t into the orbital phase [0, p) relative to t0.
func FoldPhase(t, t0, p float64) float64 {
	phase := math.Mod(t-t0, p)
	if phase < 0 {
		phase += p
	}
	return phase
}
