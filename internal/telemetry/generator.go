package telemetry

import (
	"math"
	"math/rand"
	"time"

	"lithosguard/internal/scenario"
)

// Generator produces synthetic scenario telemetry.
type Generator struct {
	rand *rand.Rand
}

// NewGenerator creates a generator. A zero seed draws from the clock so
// repeated runs differ; any other seed makes output reproducible.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rand: rand.New(rand.NewSource(seed))}
}

// Generate is a convenience wrapper around a fresh Generator and the built-in
// scenario of the given kind.
func Generate(kind scenario.Kind, count int, seed int64) (Series, error) {
	sc, err := scenario.Lookup(string(kind))
	if err != nil {
		return Series{}, err
	}
	return NewGenerator(seed).Generate(sc, count), nil
}

// Generate returns count points spanning [0, sc.HorizonHours].
func (g *Generator) Generate(sc scenario.Scenario, count int) Series {
	if count <= 0 {
		return Series{Scenario: sc.Kind}
	}
	t := linspace(0, sc.HorizonHours, count)
	rqd := make([]int, count)
	for i := range rqd {
		rqd[i] = 40 + g.rand.Intn(10)
	}

	var pressure, acoustic, displacement, intensity []float64
	switch sc.Kind {
	case scenario.Monsoon:
		pressure, acoustic, displacement, intensity = g.monsoon(sc, t)
	case scenario.Seismic:
		pressure, acoustic, displacement, intensity = g.seismic(sc, t)
	default:
		pressure, acoustic, displacement, intensity = g.stable(sc, t)
	}

	pts := make([]TelemetryPoint, count)
	for i := range pts {
		pts[i] = TelemetryPoint{
			TimeHours:         t[i],
			Lithology:         DefaultLithology,
			RQD:               rqd[i],
			PorePressureKPa:   pressure[i],
			AcousticEmission:  acoustic[i],
			DisplacementMM:    displacement[i],
			ScenarioIntensity: intensity[i],
		}
	}
	return Series{Scenario: sc.Kind, Points: pts}
}

// monsoon: logistic rain event, fracture bursts above the pressure
// threshold, exponential creep.
func (g *Generator) monsoon(sc scenario.Scenario, t []float64) (p, a, d, in []float64) {
	n := len(t)
	p, a, d, in = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, h := range t {
		in[i] = 1 / (1 + math.Exp(-sc.Event.Steepness*(h-sc.Event.CenterHours)))
		p[i] = sc.Pressure.Baseline + in[i]*sc.Pressure.Rise
	}
	for i, h := range t {
		a[i] = sc.Acoustic.CarrierAmplitude * math.Sin(2*math.Pi*sc.Acoustic.CarrierFrequency*h)
	}
	for i := range t {
		if p[i] > sc.Acoustic.BurstThresholdKPa {
			a[i] += sc.Acoustic.BurstAmplitude * g.rand.NormFloat64()
		}
	}
	for i := range t {
		a[i] += g.rand.NormFloat64() * sc.Acoustic.Noise
		d[i] = sc.Displacement.CreepScale * math.Exp(sc.Displacement.CreepPer10K*(p[i]/10))
	}
	return p, a, d, in
}

// seismic: flat pressure with noise, Gaussian pulse in acoustic and displacement.
func (g *Generator) seismic(sc scenario.Scenario, t []float64) (p, a, d, in []float64) {
	n := len(t)
	p, a, d, in = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	w := sc.Event.WidthHours
	if w <= 0 {
		w = 1
	}
	for i := range t {
		p[i] = sc.Pressure.Baseline + g.rand.NormFloat64()*sc.Pressure.Noise
	}
	for i, h := range t {
		dt := h - sc.Event.CenterHours
		in[i] = math.Exp(-(dt * dt) / (2 * w * w))
		a[i] = in[i]*sc.Acoustic.PulseAmplitude + g.rand.NormFloat64()*sc.Acoustic.Noise
		d[i] = sc.Displacement.Base + in[i]*sc.Displacement.PulseGain
	}
	return p, a, d, in
}

// stable: baseline noise with linear creep.
func (g *Generator) stable(sc scenario.Scenario, t []float64) (p, a, d, in []float64) {
	n := len(t)
	p, a, d, in = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range t {
		p[i] = sc.Pressure.Baseline + g.rand.NormFloat64()*sc.Pressure.Noise
	}
	for i, h := range t {
		a[i] = sc.Acoustic.CarrierAmplitude*math.Sin(2*math.Pi*sc.Acoustic.CarrierFrequency*h) + g.rand.NormFloat64()*sc.Acoustic.Noise
	}
	creep := linspace(sc.Displacement.Base, sc.Displacement.End, n)
	for i := range t {
		d[i] = creep[i] + g.rand.NormFloat64()*sc.Displacement.Noise
	}
	return p, a, d, in
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
