package sensors

import (
	"math"

	"github.com/XC-/motion"
)

// Synthetic generates smoothly changing axes for hosts without a sensor.
// Every Axes call advances its phase, so the readings depend only on the
// number of reads.
type Synthetic struct {
	step float64
	n    [3]int
}

// NewSynthetic returns a Synthetic driver. step is the phase advance per
// read in radians.
func NewSynthetic(step float64) *Synthetic {
	return &Synthetic{step: step}
}

// Amplitudes of the synthetic channels in driver units.
const (
	syntheticAccel = 1000  // mg
	syntheticGyro  = 20000 // mdps
	syntheticMag   = 400   // mgauss
)

// Axes implements motion.Driver.
func (s *Synthetic) Axes(ch motion.Channel) motion.Axes {
	var amp float64
	switch ch {
	case motion.Accelero:
		amp = syntheticAccel
	case motion.Gyro:
		amp = syntheticGyro
	case motion.Magneto:
		amp = syntheticMag
	default:
		return motion.Axes{}
	}

	phase := float64(s.n[ch]) * s.step
	s.n[ch]++
	return motion.Axes{
		X: int16(amp * math.Sin(phase)),
		Y: int16(amp * math.Cos(phase*0.7)),
		Z: int16(amp * math.Sin(phase*0.3+math.Pi/2)),
	}
}
