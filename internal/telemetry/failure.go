package telemetry

import "math"

// InjectFailure returns a copy of s with pore pressure multiplied by factor
// over the trailing fraction of points. It simulates sensor or data
// corruption and is applied by callers after generation.
func InjectFailure(s Series, fraction, factor float64) Series {
	out := s.Clone()
	n := len(out.Points)
	if n == 0 || fraction <= 0 {
		return out
	}
	if fraction > 1 {
		fraction = 1
	}
	start := int(math.Floor(float64(n)*(1-fraction) + 1e-9))
	for i := start; i < n; i++ {
		out.Points[i].PorePressureKPa *= factor
	}
	return out
}

// BandEnergy approximates the split between machinery noise and rock
// fracture energy in an acoustic signal: low = 0.8*mean|x|, high = 100*var(x).
func BandEnergy(signal []float64) (low, high float64) {
	if len(signal) == 0 {
		return 0, 0
	}
	var absSum, sum float64
	for _, v := range signal {
		absSum += math.Abs(v)
		sum += v
	}
	n := float64(len(signal))
	mean := sum / n
	var ss float64
	for _, v := range signal {
		ss += (v - mean) * (v - mean)
	}
	return absSum / n * 0.8, ss / n * 100
}
