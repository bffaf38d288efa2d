package monitor

import (
	"lithosguard/internal/classifier"
	"lithosguard/internal/physics"
	"lithosguard/internal/telemetry"
)

// EvaluationResult is the per-tick assessment.
type EvaluationResult struct {
	ShearStressKPa     float64 `json:"shear_stress_kpa"`
	FactorOfSafety     float64 `json:"factor_of_safety"`
	TimeToFailureHours float64 `json:"time_to_failure_hours"`
	RiskLabel          string  `json:"risk_label"`
	RiskProbability    float64 `json:"risk_probability"`
	ModelLoaded        bool    `json:"model_loaded"`
	IsCritical         bool    `json:"is_critical"`
}

// Evaluator combines the physics criteria with the risk classifier.
type Evaluator struct {
	physics    *physics.Evaluator
	classifier classifier.Classifier
}

// NewEvaluator builds an evaluator. A nil classifier behaves as an
// unloaded model.
func NewEvaluator(p physics.Params, c classifier.Classifier) *Evaluator {
	if c == nil {
		c = classifier.Unavailable{}
	}
	return &Evaluator{physics: physics.NewEvaluator(p), classifier: c}
}

// Classifier returns the wrapped classifier.
func (e *Evaluator) Classifier() classifier.Classifier { return e.classifier }

// Evaluate assesses point given history, which ends with point. Only the
// velocity window of history is consulted.
func (e *Evaluator) Evaluate(point telemetry.TelemetryPoint, history []telemetry.TelemetryPoint) EvaluationResult {
	if len(history) > physics.VelocityWindow {
		history = history[len(history)-physics.VelocityWindow:]
	}
	d := make([]float64, len(history))
	t := make([]float64, len(history))
	for i, h := range history {
		d[i] = h.DisplacementMM
		t[i] = h.TimeHours
	}
	a := e.physics.Assess(point.PorePressureKPa, point.DisplacementMM, d, t)
	pred := e.classifier.Predict(point.PorePressureKPa, point.DisplacementMM)
	return EvaluationResult{
		ShearStressKPa:     a.ShearStressKPa,
		FactorOfSafety:     a.FactorOfSafety,
		TimeToFailureHours: a.TimeToFailureHours,
		RiskLabel:          pred.Label,
		RiskProbability:    pred.Probability,
		ModelLoaded:        pred.Loaded,
		IsCritical:         a.Critical,
	}
}
