package scenario

// HorizonHours is the simulated span of every built-in scenario.
const HorizonHours = 24.0

// BuiltIn returns the predefined scenario shapes.
func BuiltIn() map[Kind]Scenario {
	return map[Kind]Scenario{
		Monsoon: {
			Name:         "monsoon",
			Kind:         Monsoon,
			Description:  "Rain event saturates the slope; pore pressure rises on a logistic curve centred at hour 18 and drives exponential creep.",
			HorizonHours: HorizonHours,
			Event:        Event{CenterHours: 18, Steepness: 0.5},
			Pressure:     Pressure{Baseline: 20, Rise: 65},
			Acoustic: Acoustic{
				CarrierAmplitude:  0.2,
				CarrierFrequency:  0.5,
				BurstAmplitude:    0.05,
				BurstThresholdKPa: 60,
				Noise:             0.01,
			},
			Displacement: Displacement{CreepScale: 0.5, CreepPer10K: 0.3},
		},
		Seismic: {
			Name:         "seismic",
			Kind:         Seismic,
			Description:  "Earthquake arrival at hour 12 produces a Gaussian pulse in acoustic emission and displacement over steady pore pressure.",
			HorizonHours: HorizonHours,
			Event:        Event{CenterHours: 12, WidthHours: 1},
			Pressure:     Pressure{Baseline: 30, Noise: 2},
			Acoustic:     Acoustic{PulseAmplitude: 2.0, Noise: 0.05},
			Displacement: Displacement{Base: 1.0, PulseGain: 8},
		},
		Stable: {
			Name:         "stable",
			Kind:         Stable,
			Description:  "Normal operations with baseline sensor noise and slow linear creep.",
			HorizonHours: HorizonHours,
			Pressure:     Pressure{Baseline: 25, Noise: 1},
			Acoustic:     Acoustic{CarrierAmplitude: 0.02, CarrierFrequency: 0.5, Noise: 0.01},
			Displacement: Displacement{Base: 0.5, End: 1.5, Noise: 0.05},
		},
	}
}
