// Package physics implements the closed-form slope stability criteria:
// Mohr-Coulomb factor of safety and the Fukuzono inverse-velocity method.
package physics

import "math"

// Defaults of the shear and time-to-failure models.
const (
	DefaultShearBaseKPa = 80.0
	DefaultShearRate    = 2.5
	DefaultTTFScaling   = 0.5
)

// Floors applied before division.
const (
	MinEffectiveStressKPa = 0.1
	MinShearStressKPa     = 0.1
)

// Sentinel inverse velocities.
const (
	// InsufficientData is returned when fewer than MinSamples displacements exist.
	InsufficientData = 999.0
	// NearZeroVelocity is returned when the slope is effectively not moving.
	NearZeroVelocity = 99.0

	MinSamples      = 5
	VelocityWindow  = 10
	VelocityEpsilon = 1e-4
)

// ShearStress returns driving shear stress in kPa for a displacement in mm.
// Displacement raises effective shear stress through strain softening.
func ShearStress(displacementMM, base, rate float64) float64 {
	return base + displacementMM*rate
}

// FactorOfSafety evaluates the Mohr-Coulomb ratio of shear strength to
// shear stress. Effective normal stress follows Terzaghi (sigma - u) and is
// floored at 0.1 kPa; shear stress is floored at 0.1 kPa.
func FactorOfSafety(cohesion, frictionAngleDeg, normalStress, porePressure, shearStress float64) float64 {
	effective := math.Max(normalStress-porePressure, MinEffectiveStressKPa)
	strength := cohesion + effective*math.Tan(frictionAngleDeg*math.Pi/180)
	return strength / math.Max(shearStress, MinShearStressKPa)
}

// Gradient computes dy/dx with second-order central differences in the
// interior and first-order one-sided differences at both ends. A nil x
// means unit spacing. Series shorter than two samples yield zeros.
func Gradient(y, x []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	at := func(i int) float64 {
		if x == nil {
			return float64(i)
		}
		return x[i]
	}
	out[0] = (y[1] - y[0]) / (at(1) - at(0))
	out[n-1] = (y[n-1] - y[n-2]) / (at(n-1) - at(n-2))
	for i := 1; i < n-1; i++ {
		hs := at(i) - at(i-1)
		hd := at(i+1) - at(i)
		out[i] = (hs*hs*y[i+1] + (hd*hd-hs*hs)*y[i] - hd*hd*y[i-1]) / (hs * hd * (hd + hs))
	}
	return out
}

// InverseVelocity returns 1/|v| for the latest displacement velocity over
// the last VelocityWindow samples. times may be nil, in which case velocity
// is taken per sample. Higher values mean a more stable slope.
func InverseVelocity(displacement, times []float64) float64 {
	if len(displacement) < MinSamples {
		return InsufficientData
	}
	d := tail(displacement, VelocityWindow)
	var t []float64
	if times != nil {
		t = tail(times, VelocityWindow)
	}
	g := Gradient(d, t)
	v := g[len(g)-1]
	if math.Abs(v) < VelocityEpsilon || math.IsNaN(v) {
		return NearZeroVelocity
	}
	return 1 / math.Abs(v)
}

// TimeToFailure maps inverse velocity to hours with a calibration factor.
func TimeToFailure(displacement, times []float64, scaling float64) float64 {
	return InverseVelocity(displacement, times) * scaling
}

func tail(v []float64, n int) []float64 {
	if len(v) <= n {
		return v
	}
	return v[len(v)-n:]
}
