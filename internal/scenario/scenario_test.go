package scenario

import "testing"

func TestParseKind(t *testing.T) {
	for _, in := range []string{"monsoon", " Seismic ", "STABLE"} {
		if _, err := ParseKind(in); err != nil {
			t.Errorf("ParseKind(%q): %v", in, err)
		}
	}
	if _, err := ParseKind("landslide"); err == nil {
		t.Fatalf("expected error for unknown scenario")
	}
}

func TestLoadScenarioOverridesBuiltIn(t *testing.T) {
	sc, err := Load("testdata/wet_season.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "wet-season" || sc.Kind != Monsoon {
		t.Fatalf("unexpected header %s/%s", sc.Name, sc.Kind)
	}
	if sc.Event.CenterHours != 14 || sc.Pressure.Rise != 80 {
		t.Fatalf("overrides not applied: %+v %+v", sc.Event, sc.Pressure)
	}
	// fields absent from the file keep the monsoon defaults
	if sc.Event.Steepness != 0.5 || sc.Pressure.Baseline != 20 || sc.Acoustic.BurstThresholdKPa != 60 {
		t.Fatalf("built-in values lost: %+v %+v %+v", sc.Event, sc.Pressure, sc.Acoustic)
	}
	if sc.HorizonHours != HorizonHours {
		t.Fatalf("expected horizon %v, got %v", HorizonHours, sc.HorizonHours)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBuiltInScenarios(t *testing.T) {
	arcs := BuiltIn()
	for _, k := range Kinds() {
		sc, ok := arcs[k]
		if !ok {
			t.Fatalf("scenario %s not found", k)
		}
		if sc.Description == "" {
			t.Fatalf("scenario %s missing description", k)
		}
		if sc.Kind != k || sc.HorizonHours != 24 {
			t.Fatalf("scenario %s malformed: %+v", k, sc)
		}
	}
	if arcs[Monsoon].Event.CenterHours != 18 {
		t.Fatalf("monsoon should be centred at hour 18")
	}
	if arcs[Seismic].Event.CenterHours != 12 {
		t.Fatalf("seismic pulse should be centred at hour 12")
	}
}

func TestLookup(t *testing.T) {
	sc, err := Lookup("seismic")
	if err != nil || sc.Kind != Seismic {
		t.Fatalf("Lookup seismic: %v %+v", err, sc)
	}
	if _, err := Lookup("tsunami"); err == nil {
		t.Fatalf("expected error")
	}
}
