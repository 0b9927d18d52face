package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the first half of the FFT of data
// after removing its mean and zero padding it to a power of two. Bin i is
// at i/(n*dt) Hz where n is the padded length.
func PowerSpectrum(data []float64) []float64 {
	n := nextPow2(len(data))
	padded := make([]float64, n)

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Peak describes the strongest oscillation in a trace.
type Peak struct {
	Frequency float64 // Hz
	Power     float64
	// Ratio is the peak's share of the total spectral power above DC.
	Ratio float64
}

// Oscillation finds the dominant non-DC frequency of a trace sampled
// every dt seconds. A flat or too short trace gives the zero Peak.
func Oscillation(data []float64, dt float64) Peak {
	if len(data) < 4 || dt <= 0 {
		return Peak{}
	}

	ps := PowerSpectrum(data)
	n := 2 * len(ps)

	total := 0.0
	best := 0
	for i := 1; i < len(ps); i++ {
		total += ps[i]
		if ps[i] > ps[best] || best == 0 {
			best = i
		}
	}
	if total == 0 {
		return Peak{}
	}

	return Peak{
		Frequency: float64(best) / (float64(n) * dt),
		Power:     ps[best],
		Ratio:     ps[best] / total,
	}
}
