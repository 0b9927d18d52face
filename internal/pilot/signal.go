package pilot

import "math"

// signal is a demand as a function of time in seconds.
type signal func(t float64) float64

func constant(c float64) signal {
	return func(float64) float64 {
		return c
	}
}

func step(amp, at float64) signal {
	return func(t float64) float64 {
		if t < at {
			return 0
		}
		return amp
	}
}

func oscillate(amp, period float64) signal {
	return func(t float64) float64 {
		return math.Sin(t/period*2*math.Pi) * amp
	}
}

func ramp(height, length float64) signal {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= length {
			return height
		}
		return height * t / length
	}
}

func (f signal) delay(d float64) signal {
	return func(t float64) float64 {
		return f(t - d)
	}
}

// window passes f through in [from, to) and is zero elsewhere.
func (f signal) window(from, to float64) signal {
	return func(t float64) float64 {
		if t < from || t >= to {
			return 0
		}
		return f(t - from)
	}
}

func (f signal) mix(fs ...signal) signal {
	return func(t float64) float64 {
		r := f(t)
		for _, g := range fs {
			r += g(t)
		}
		return r
	}
}
