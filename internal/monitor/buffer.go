package monitor

import "lithosguard/internal/telemetry"

// DefaultBufferSize is the number of ticks kept for charting consumers.
const DefaultBufferSize = 200

// BufferSnapshot is a copy of the rolling buffer. The four series are
// always the same length.
type BufferSnapshot struct {
	Time         []float64 `json:"time"`
	Pressure     []float64 `json:"pressure"`
	Displacement []float64 `json:"displacement"`
	FoS          []float64 `json:"fos"`
}

// Len returns the number of buffered ticks.
func (b BufferSnapshot) Len() int { return len(b.Time) }

// RollingBuffer keeps the most recent ticks of a stream, evicting the
// oldest first.
type RollingBuffer struct {
	size int
	data BufferSnapshot
}

// NewRollingBuffer returns a buffer holding at most size ticks.
func NewRollingBuffer(size int) *RollingBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &RollingBuffer{size: size}
}

// Append adds one tick.
func (b *RollingBuffer) Append(p telemetry.TelemetryPoint, fos float64) {
	b.data.Time = appendCapped(b.data.Time, p.TimeHours, b.size)
	b.data.Pressure = appendCapped(b.data.Pressure, p.PorePressureKPa, b.size)
	b.data.Displacement = appendCapped(b.data.Displacement, p.DisplacementMM, b.size)
	b.data.FoS = appendCapped(b.data.FoS, fos, b.size)
}

// Len returns the number of buffered ticks.
func (b *RollingBuffer) Len() int { return len(b.data.Time) }

// Cap returns the eviction threshold.
func (b *RollingBuffer) Cap() int { return b.size }

// Clear empties all series.
func (b *RollingBuffer) Clear() { b.data = BufferSnapshot{} }

// Snapshot copies the buffer contents.
func (b *RollingBuffer) Snapshot() BufferSnapshot {
	return BufferSnapshot{
		Time:         append([]float64(nil), b.data.Time...),
		Pressure:     append([]float64(nil), b.data.Pressure...),
		Displacement: append([]float64(nil), b.data.Displacement...),
		FoS:          append([]float64(nil), b.data.FoS...),
	}
}

func appendCapped(s []float64, v float64, size int) []float64 {
	s = append(s, v)
	if len(s) > size {
		s = append(s[:0], s[len(s)-size:]...)
	}
	return s
}
