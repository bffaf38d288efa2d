// Package classifier wraps the optional risk model used alongside the
// physics evaluator.
package classifier

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Labels reported by Predict.
const (
	LabelCritical  = "CRITICAL FAILURE"
	LabelStable    = "Stable"
	LabelNotLoaded = "Model Not Loaded"
	LabelError     = "Error"
)

// Architecture is reported by Info.
const Architecture = "Logistic (pressure, displacement)"

// Prediction is the outcome of one classifier invocation.
type Prediction struct {
	Label       string  `json:"risk_label"`
	Probability float64 `json:"risk_probability"`
	Loaded      bool    `json:"model_loaded"`
}

// Classifier predicts failure risk from pore pressure and displacement.
type Classifier interface {
	Predict(pressureKPa, displacementMM float64) Prediction
	Info() Info
}

// Info describes the classifier selected at construction.
type Info struct {
	Loaded       bool   `json:"loaded"`
	ModelPath    string `json:"model_path"`
	Architecture string `json:"architecture"`
}

// Artifact is the on-disk logistic model.
type Artifact struct {
	Features  []string  `yaml:"features"`
	Weights   []float64 `yaml:"weights"`
	Bias      float64   `yaml:"bias"`
	Threshold float64   `yaml:"threshold"`
}

// Validate checks the artifact shape.
func (a Artifact) Validate() error {
	if len(a.Weights) != 2 {
		return fmt.Errorf("expected 2 weights, got %d", len(a.Weights))
	}
	if len(a.Features) != 0 && len(a.Features) != len(a.Weights) {
		return fmt.Errorf("features (%d) and weights (%d) differ", len(a.Features), len(a.Weights))
	}
	if a.Threshold <= 0 || a.Threshold >= 1 {
		return fmt.Errorf("threshold %v outside (0,1)", a.Threshold)
	}
	for _, w := range append([]float64{a.Bias}, a.Weights...) {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("non-finite coefficient %v", w)
		}
	}
	return nil
}

// Load reads a model artifact. Any failure degrades to the unavailable
// stub with a warning; Load never fails.
func Load(path string, log *slog.Logger) Classifier {
	if log == nil {
		log = slog.Default()
	}
	art, err := ReadArtifact(path)
	if err != nil {
		log.Warn("risk model not loaded", "path", path, "err", err)
		return Unavailable{Path: path}
	}
	log.Info("risk model loaded", "path", path)
	return &Logistic{Artifact: art, Path: path}
}

// ReadArtifact parses and validates a YAML model file.
func ReadArtifact(path string) (Artifact, error) {
	var art Artifact
	if path == "" {
		return art, fmt.Errorf("no model path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return art, fmt.Errorf("read model: %w", err)
	}
	if err := yaml.Unmarshal(data, &art); err != nil {
		return art, fmt.Errorf("parse model: %w", err)
	}
	if art.Threshold == 0 {
		art.Threshold = 0.5
	}
	if err := art.Validate(); err != nil {
		return art, fmt.Errorf("invalid model: %w", err)
	}
	return art, nil
}

// Unavailable is used when no model could be loaded.
type Unavailable struct {
	Path string
}

// Predict always reports the model as not loaded.
func (u Unavailable) Predict(float64, float64) Prediction {
	return Prediction{Label: LabelNotLoaded}
}

// Info implements Classifier.
func (u Unavailable) Info() Info {
	return Info{ModelPath: u.Path, Architecture: Architecture}
}

// Logistic is a two-feature logistic regression.
type Logistic struct {
	Artifact Artifact
	Path     string
}

// Predict implements Classifier. Invocation failures yield LabelError.
func (l *Logistic) Predict(pressureKPa, displacementMM float64) (p Prediction) {
	defer func() {
		if r := recover(); r != nil {
			p = Prediction{Label: LabelError, Loaded: true}
		}
	}()
	if !finite(pressureKPa) || !finite(displacementMM) {
		return Prediction{Label: LabelError, Loaded: true}
	}
	z := l.Artifact.Bias + l.Artifact.Weights[0]*pressureKPa + l.Artifact.Weights[1]*displacementMM
	prob := 1 / (1 + math.Exp(-z))
	label := LabelStable
	if prob >= l.Artifact.Threshold {
		label = LabelCritical
	}
	return Prediction{Label: label, Probability: prob, Loaded: true}
}

// Info implements Classifier.
func (l *Logistic) Info() Info {
	return Info{Loaded: true, ModelPath: l.Path, Architecture: Architecture}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
