package physics

import (
	"math"
	"testing"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestShearStress(t *testing.T) {
	if got := ShearStress(4, DefaultShearBaseKPa, DefaultShearRate); got != 90 {
		t.Fatalf("ShearStress(4)=%f, want 90", got)
	}
	if got := ShearStress(0, 80, 2.5); got != 80 {
		t.Fatalf("ShearStress(0)=%f, want 80", got)
	}
}

func TestFactorOfSafetyReference(t *testing.T) {
	fos := FactorOfSafety(50, 35, 120, 0, 100)
	// 50 + 120*tan(35deg) = 134.02
	if !approx(fos, 1.3402, 1e-3) {
		t.Fatalf("FoS=%f, want ~1.34", fos)
	}
}

func TestFactorOfSafetyEffectiveStressFloor(t *testing.T) {
	want := 50 + 0.1*math.Tan(35*math.Pi/180)
	for _, u := range []float64{120, 150, 1e6} {
		if got := FactorOfSafety(50, 35, 120, u, 1); !approx(got, want, 1e-12) {
			t.Fatalf("u=%f: FoS=%f, want %f", u, got, want)
		}
	}
}

func TestFactorOfSafetyShearFloor(t *testing.T) {
	base := FactorOfSafety(50, 35, 120, 0, 0.1)
	for _, tau := range []float64{0, -5} {
		got := FactorOfSafety(50, 35, 120, 0, tau)
		if math.IsInf(got, 0) || math.IsNaN(got) {
			t.Fatalf("tau=%f produced non-finite FoS", tau)
		}
		if got != base {
			t.Fatalf("tau=%f: FoS=%f, want floored %f", tau, got, base)
		}
	}
}

func TestGradientMatchesCentralDifferences(t *testing.T) {
	y := []float64{0, 1, 4, 9, 16}
	g := Gradient(y, nil)
	want := []float64{1, 2, 4, 6, 7}
	for i := range want {
		if !approx(g[i], want[i], 1e-12) {
			t.Fatalf("g[%d]=%f, want %f", i, g[i], want[i])
		}
	}
}

func TestGradientNonUniform(t *testing.T) {
	x := []float64{0, 1, 3}
	y := []float64{0, 1, 9} // y = x^2
	g := Gradient(y, x)
	// interior second-order formula is exact for quadratics
	if !approx(g[1], 2, 1e-12) {
		t.Fatalf("g[1]=%f, want 2", g[1])
	}
	if !approx(g[2], 4, 1e-12) {
		t.Fatalf("g[2]=%f, want 4 (one-sided)", g[2])
	}
}

func TestInverseVelocityInsufficientData(t *testing.T) {
	if got := InverseVelocity([]float64{1, 1, 1, 1}, nil); got != InsufficientData {
		t.Fatalf("got %f, want 999", got)
	}
}

func TestInverseVelocityLinear(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	ts := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := InverseVelocity(d, ts); !approx(got, 1, 1e-12) {
		t.Fatalf("got %f, want 1", got)
	}
	if got := InverseVelocity(d, nil); !approx(got, 1, 1e-12) {
		t.Fatalf("index-based: got %f, want 1", got)
	}
}

func TestInverseVelocityStationary(t *testing.T) {
	if got := InverseVelocity([]float64{2, 2, 2, 2, 2, 2}, nil); got != NearZeroVelocity {
		t.Fatalf("got %f, want 99", got)
	}
}

func TestInverseVelocityUsesLastWindow(t *testing.T) {
	// fast early movement followed by a ten-sample window at 0.5 mm/h
	d := []float64{0, 50, 100}
	for i := 0; i < 10; i++ {
		d = append(d, 100+0.5*float64(i))
	}
	ts := make([]float64, len(d))
	for i := range ts {
		ts[i] = float64(i)
	}
	if got := InverseVelocity(d, ts); !approx(got, 2, 1e-9) {
		t.Fatalf("got %f, want 2", got)
	}
}

func TestTimeToFailure(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6}
	if got := TimeToFailure(d, nil, DefaultTTFScaling); !approx(got, 0.5, 1e-12) {
		t.Fatalf("TTF=%f, want 0.5", got)
	}
	if got := TimeToFailure(d[:3], nil, 0.5); got != InsufficientData*0.5 {
		t.Fatalf("TTF with short history=%f, want 499.5", got)
	}
}

func TestEvaluatorAssess(t *testing.T) {
	e := NewEvaluator(DefaultParams())
	a := e.Assess(0, 8, []float64{8}, []float64{0})
	if a.ShearStressKPa != 100 {
		t.Fatalf("shear=%f, want 100", a.ShearStressKPa)
	}
	if !approx(a.FactorOfSafety, 1.3402, 1e-3) || a.Critical {
		t.Fatalf("unexpected assessment %+v", a)
	}
	if a.TimeToFailureHours != InsufficientData*0.5 {
		t.Fatalf("ttf=%f", a.TimeToFailureHours)
	}
	// saturated slope under heavy creep is critical
	a = e.Assess(110, 20, []float64{20}, []float64{0})
	if !a.Critical {
		t.Fatalf("expected critical, got %+v", a)
	}
}

func TestSectorStatus(t *testing.T) {
	cases := map[float64]Status{
		1.8:  StatusStable,
		1.2:  StatusWarning,
		1.1:  StatusWarning,
		1.05: StatusWarning,
		1.04: StatusCritical,
		0.5:  StatusCritical,
	}
	for fos, want := range cases {
		if got := SectorStatus(fos); got != want {
			t.Errorf("SectorStatus(%f)=%s, want %s", fos, got, want)
		}
	}
}

func TestSectors(t *testing.T) {
	s := Sectors(0.9)
	if len(s) != 5 {
		t.Fatalf("expected 5 sectors, got %d", len(s))
	}
	for _, sec := range s {
		if sec.Name == LiveSector {
			if !sec.Live || sec.FactorOfSafety != 0.9 || sec.Status != StatusCritical {
				t.Fatalf("live sector wrong: %+v", sec)
			}
			continue
		}
		if sec.Live || sec.Status != StatusStable {
			t.Fatalf("reference sector wrong: %+v", sec)
		}
	}
}
