package monitor

import (
	"time"

	"lithosguard/internal/physics"
	"lithosguard/internal/telemetry"
)

// State is the monitoring loop state.
type State string

const (
	StateIdle            State = "idle"
	StateStreaming       State = "streaming"
	StateCriticalLatched State = "critical_latched"
	StateReset           State = "reset"
)

// Mode distinguishes live streaming from timeline inspection.
type Mode string

const (
	ModeStreaming Mode = "streaming"
	ModeForensic  Mode = "forensic"
)

// Frame is the display state published after every tick.
type Frame struct {
	SessionID    string                   `json:"session_id"`
	Mode         Mode                     `json:"mode"`
	Index        int                      `json:"index"`
	Total        int                      `json:"total"`
	Timestamp    time.Time                `json:"timestamp"`
	DataSource   string                   `json:"data_source"`
	Point        telemetry.TelemetryPoint `json:"point"`
	Evaluation   EvaluationResult         `json:"evaluation"`
	SectorStatus physics.Status           `json:"sector_status"`
	Alarm        AlarmState               `json:"alarm"`
	State        State                    `json:"state"`
	BatchEmitted bool                     `json:"batch_emitted"`
	NewCommands  []CommandRecord          `json:"new_commands,omitempty"`
}
