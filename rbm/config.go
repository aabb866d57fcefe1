package rbm

import (
	"time"

	"github.com/RiEtsuney/EbmLib/units"
)

// Config configures a restricted Boltzmann machine.
type Config struct {
	Visible int // visible unit count
	Hidden  int // hidden unit count

	// unit kinds for each layer. These identify the layers for
	// serialization and select the activation family available to callers;
	// state sampling always thresholds probabilistically (see SampleHidden).
	VisibleUnit units.Kind
	HiddenUnit  units.Kind

	Seed int64 // seed for the model's random source. 0 seeds from the clock
}

// DefaultConf returns a Config with probabilistic-threshold visible units and
// sigmoid hidden units.
func DefaultConf(nvis, nhid int) Config {
	return Config{
		Visible:     nvis,
		Hidden:      nhid,
		VisibleUnit: units.PThresh,
		HiddenUnit:  units.Sigmoid,
	}
}

func (conf Config) IsValid() bool {
	return conf.Visible >= 1 &&
		conf.Hidden >= 1 &&
		conf.VisibleUnit.Valid() &&
		conf.HiddenUnit.Valid()
}

func (conf Config) seed() int64 {
	if conf.Seed == 0 {
		return time.Now().UnixNano()
	}
	return conf.Seed
}
