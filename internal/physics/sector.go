package physics

// Status bands a factor of safety for display.
type Status string

const (
	StatusStable   Status = "stable"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Band limits for SectorStatus.
const (
	StableAbove   = 1.2
	CriticalBelow = 1.05
)

// SectorStatus classifies a FoS: stable above 1.2, critical below 1.05,
// warning in between.
func SectorStatus(fos float64) Status {
	switch {
	case fos > StableAbove:
		return StatusStable
	case fos < CriticalBelow:
		return StatusCritical
	default:
		return StatusWarning
	}
}

// Sector is one cell of the site map.
type Sector struct {
	Name           string  `json:"name"`
	FactorOfSafety float64 `json:"fos"`
	Status         Status  `json:"status"`
	Live           bool    `json:"live"`
}

var referenceSectors = []struct {
	name string
	fos  float64
}{
	{"Sector 1", 1.8},
	{"Sector 2", 1.6},
	{"Sector 3", 1.5},
	{"Sector 4", 0},
	{"Sector 5", 1.7},
}

// LiveSector is the instrumented sector whose FoS comes from telemetry.
const LiveSector = "Sector 4"

// Sectors returns the site map with the live sector carrying fos and the
// others at their surveyed reference values.
func Sectors(fos float64) []Sector {
	out := make([]Sector, 0, len(referenceSectors))
	for _, r := range referenceSectors {
		s := Sector{Name: r.name, FactorOfSafety: r.fos}
		if r.name == LiveSector {
			s.FactorOfSafety = fos
			s.Live = true
		}
		s.Status = SectorStatus(s.FactorOfSafety)
		out = append(out, s)
	}
	return out
}
