package snappyko

import "math"

const (
	halfπ   = 0.5 * math.Pi
	twoπ    = 2 * math.Pi
	deg2rad = math.Pi / 180
)

// wrapTwoPi wraps an angle into [0, 2π).
func wrapTwoPi(a float64) float64 {
	a = math.Mod(a, twoπ)
	if a < 0 {
		a += twoπ
	}
	return a
}

// sign returns the sign of a given number, with sign(±0) = ±1.
func sign(v float64) float64 {
	return math.Copysign(1, v)
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, twoπ)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += twoπ
	}
	return math.Mod(a/deg2rad, 360)
}
