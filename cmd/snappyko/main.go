package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	kitlog "github.com/go-kit/kit/log"
	snappyko "github.com/hpparvi/SnappyKO"
)

// Prints the projected star-planet separation over a time span, both from
// the direct Kepler solution and from the Taylor table, mostly as a sanity
// and benchmarking aid.

var (
	t0, p, a, i, e, w float64
	from, to, step    float64
	npt               int
	verbose           bool
)

func init() {
	flag.Float64Var(&t0, "t0", 0, "transit epoch [days]")
	flag.Float64Var(&p, "p", 3, "orbital period [days]")
	flag.Float64Var(&a, "a", 7, "scaled semi-major axis [R_star]")
	flag.Float64Var(&i, "i", 90, "inclination [deg]")
	flag.Float64Var(&e, "e", 0, "eccentricity")
	flag.Float64Var(&w, "w", 90, "argument of periastron [deg]")
	flag.Float64Var(&from, "from", 0, "start time [days]")
	flag.Float64Var(&to, "to", 3, "end time [days]")
	flag.Float64Var(&step, "step", 0.01, "time step [days]")
	flag.IntVar(&npt, "npt", 200, "orbit table resolution")
	flag.BoolVar(&verbose, "verbose", false, "log solver diagnostics")
}

func main() {
	flag.Parse()
	if verbose {
		snappyko.SetLogger(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)))
	}
	orbit, err := snappyko.NewOrbit(t0, p, a, snappyko.Deg2rad(i), e, snappyko.Deg2rad(w))
	if err != nil {
		log.Fatalf("invalid orbit: %s", err)
	}
	table, err := snappyko.NewOrbitTable(p, a, snappyko.Deg2rad(i), e, snappyko.Deg2rad(w), npt)
	if err != nil {
		log.Fatalf("could not build orbit table: %s", err)
	}
	fmt.Printf("# %s\n", orbit)
	fmt.Printf("# %-12s %-14s %-14s\n", "t", "z(kepler)", "z(table)")
	for t := from; t <= to; t += step {
		fmt.Printf("%14.6f %14.8f %14.8f\n", t, orbit.ZAt(t), table.ProjectedDistanceAt(t, t0))
	}
}
