package monitor

import (
	"context"
	"io"

	"lithosguard/internal/telemetry"
)

// ReplayLog streams JSONL telemetry from r through m.
func ReplayLog(ctx context.Context, r io.Reader, m *Monitor) (Summary, error) {
	s, err := telemetry.ReadJSONL(r)
	if err != nil {
		return Summary{}, err
	}
	return m.Stream(ctx, s)
}

// ReplayLogFile opens a file and replays its telemetry.
func ReplayLogFile(ctx context.Context, path string, m *Monitor) (Summary, error) {
	s, err := telemetry.ReadJSONLFile(path)
	if err != nil {
		return Summary{}, err
	}
	return m.Stream(ctx, s)
}
