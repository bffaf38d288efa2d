// ColorStdoutWriter prints human-friendly, colorized frames to STDOUT.
package monitor

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"lithosguard/internal/config"
	"lithosguard/internal/physics"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints frames using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.MonitorConfig
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.MonitorConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Monitoring Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Site:\t%s\n", w.cfg.Site.Name)
	fmt.Fprintf(tw, "Formation:\t%s\n", w.cfg.Site.Formation)
	fmt.Fprintf(tw, "Data Source:\t%s\n", w.cfg.Monitor.DataSource)
	fmt.Fprintf(tw, "Cohesion (kPa):\t%.1f\n", w.cfg.Physics.CohesionKPa)
	fmt.Fprintf(tw, "Friction Angle (deg):\t%.1f\n", w.cfg.Physics.FrictionAngleDeg)
	fmt.Fprintf(tw, "Normal Stress (kPa):\t%.1f\n", w.cfg.Physics.NormalStressKPa)
	fmt.Fprintf(tw, "Critical FoS:\t%.2f\n", w.cfg.Physics.CriticalFoS)
	fmt.Fprintf(tw, "Playback Speed:\t%d\n", w.cfg.Monitor.PlaybackSpeed)
	tw.Flush()
	fmt.Fprintln(w.out)
}

func statusColor(s physics.Status) string {
	switch s {
	case physics.StatusCritical:
		return colorRed
	case physics.StatusWarning:
		return colorYellow
	default:
		return colorGreen
	}
}

// WriteFrame outputs a single frame in colorized format.
func (w *ColorStdoutWriter) WriteFrame(f Frame) error {
	w.once.Do(w.printOverview)

	risk := "SAFE"
	riskColor := colorGreen
	if f.Evaluation.IsCritical {
		risk = "CRITICAL"
		riskColor = colorRed
	}
	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, f.Timestamp.Format(timestampLayout), colorReset)
	fmt.Fprintf(w.out, "%s%s %d/%d%s ", colorBlue, f.Mode, f.Index, f.Total, colorReset)
	fmt.Fprintf(w.out, "%st=%.2fh%s ", colorGray, f.Point.TimeHours, colorReset)
	fmt.Fprintf(w.out, "%sP=%.2fkPa%s ", colorCyan, f.Point.PorePressureKPa, colorReset)
	fmt.Fprintf(w.out, "%sD=%.3fmm%s ", colorMagenta, f.Point.DisplacementMM, colorReset)
	fmt.Fprintf(w.out, "%sAE=%.3fg%s ", colorYellow, f.Point.AcousticEmission, colorReset)
	fmt.Fprintf(w.out, "%sFoS=%.3f%s ", statusColor(f.SectorStatus), f.Evaluation.FactorOfSafety, colorReset)
	fmt.Fprintf(w.out, "%sTTF=%.1fh%s ", colorBlue, f.Evaluation.TimeToFailureHours, colorReset)
	fmt.Fprintf(w.out, "%sml=%s(%.2f)%s ", colorGray, f.Evaluation.RiskLabel, f.Evaluation.RiskProbability, colorReset)
	fmt.Fprintf(w.out, "%s%s%s", riskColor, risk, colorReset)
	if f.Alarm.Triggered {
		fmt.Fprintf(w.out, " %sALARM%s", colorRed, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteFrames outputs multiple frames.
func (w *ColorStdoutWriter) WriteFrames(frames []Frame) error {
	for _, f := range frames {
		_ = w.WriteFrame(f)
	}
	return nil
}

// WriteCommands prints outbound command records.
func (w *ColorStdoutWriter) WriteCommands(rows []CommandRecord) error {
	w.once.Do(w.printOverview)
	for _, r := range rows {
		c := colorRed
		if r.Channel == ChannelTest {
			c = colorYellow
		}
		fmt.Fprintf(w.out, "%s%s%s\n", c, r.Line, colorReset)
	}
	return nil
}
