package snappyko

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _skoconfig{}
)

// _skoconfig is a "hidden" struct, just use `snappykoConfig`
type _skoconfig struct {
	newtonTol     float64
	newtonMaxIter int
	taylorStep    float64
	tablePoints   int
}

// snappykoConfig returns the solver tuning configuration. The defaults are
// the compiled-in constants; when the SNAPPYKO_CONFIG environment variable
// names a directory with a conf.toml, its [newton], [taylor] and [table]
// sections override them. A missing environment variable is not an error
// (this is a library, not a mission runner), but a named yet unreadable
// configuration file is.
func snappykoConfig() _skoconfig {
	if cfgLoaded {
		return config
	}
	config = _skoconfig{
		newtonTol:     newtonε,
		newtonMaxIter: newtonMaxIter,
		taylorStep:    taylorStep,
		tablePoints:   defaultTablePoints,
	}
	confPath := os.Getenv("SNAPPYKO_CONFIG")
	if confPath == "" {
		cfgLoaded = true
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	if v := viper.GetFloat64("newton.tolerance"); v > 0 {
		config.newtonTol = v
	}
	if v := viper.GetInt("newton.maxiter"); v > 0 {
		config.newtonMaxIter = v
	}
	if v := viper.GetFloat64("taylor.step"); v > 0 {
		config.taylorStep = v
	}
	if v := viper.GetInt("table.points"); v >= 2 {
		config.tablePoints = v
	}
	cfgLoaded = true
	return config
}
