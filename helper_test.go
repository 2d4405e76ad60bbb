package snappyko

import (
	"fmt"
	"math"
	"testing"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// anglesEqual returns whether two angles in radians are equal within ε,
// ignoring full-turn wraps.
func anglesEqual(a, b, ε float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), twoπ)
	if diff > math.Pi {
		diff = twoπ - diff
	}
	if diff < ε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %.12f rad", diff)
}
