package classifier

// Seismic event classes.
const (
	EventMachinery      = "Heavy Machinery (Noise)"
	EventFracture       = "CRITICAL FRACTURE"
	EventMicroSeismic   = "Rock Micro-seismicity"
	EventBackground     = "Background Vibration"
	fractureAmplitude   = 0.3
	machineryCeilingHz  = 60.0
	microseismicFloorHz = 1000.0
)

// ClassifySeismicEvent labels a vibration by its dominant frequency and
// amplitude.
func ClassifySeismicEvent(amplitude, dominantHz float64) string {
	switch {
	case dominantHz < machineryCeilingHz:
		return EventMachinery
	case dominantHz > microseismicFloorHz && amplitude > fractureAmplitude:
		return EventFracture
	case dominantHz > microseismicFloorHz:
		return EventMicroSeismic
	default:
		return EventBackground
	}
}
