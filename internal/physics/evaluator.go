package physics

// Params is the fixed calling convention of the evaluator.
type Params struct {
	CohesionKPa      float64
	FrictionAngleDeg float64
	NormalStressKPa  float64
	ShearBaseKPa     float64
	ShearRate        float64
	CriticalFoS      float64
	TTFScaling       float64
}

// DefaultParams returns c=50 kPa, phi=35 deg, sigma=120 kPa, the linear
// shear model and a critical threshold of 1.05.
func DefaultParams() Params {
	return Params{
		CohesionKPa:      50,
		FrictionAngleDeg: 35,
		NormalStressKPa:  120,
		ShearBaseKPa:     DefaultShearBaseKPa,
		ShearRate:        DefaultShearRate,
		CriticalFoS:      1.05,
		TTFScaling:       DefaultTTFScaling,
	}
}

// Assessment is the physics part of a per-tick evaluation.
type Assessment struct {
	ShearStressKPa     float64 `json:"shear_stress_kpa"`
	FactorOfSafety     float64 `json:"factor_of_safety"`
	TimeToFailureHours float64 `json:"time_to_failure_hours"`
	Critical           bool    `json:"is_critical"`
}

// Evaluator applies Params to telemetry.
type Evaluator struct {
	params Params
}

// NewEvaluator returns an evaluator for p.
func NewEvaluator(p Params) *Evaluator {
	return &Evaluator{params: p}
}

// Params returns the evaluator's calling convention.
func (e *Evaluator) Params() Params { return e.params }

// Assess evaluates the current sample. displacements and times hold the
// history up to and including the current sample.
func (e *Evaluator) Assess(porePressureKPa, displacementMM float64, displacements, times []float64) Assessment {
	shear := ShearStress(displacementMM, e.params.ShearBaseKPa, e.params.ShearRate)
	fos := FactorOfSafety(e.params.CohesionKPa, e.params.FrictionAngleDeg, e.params.NormalStressKPa, porePressureKPa, shear)
	return Assessment{
		ShearStressKPa:     shear,
		FactorOfSafety:     fos,
		TimeToFailureHours: TimeToFailure(displacements, times, e.params.TTFScaling),
		Critical:           fos < e.params.CriticalFoS,
	}
}
