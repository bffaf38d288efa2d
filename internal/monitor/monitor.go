// Package monitor runs the slope monitoring loop: it evaluates telemetry
// tick by tick, latches the alarm and publishes frames to writers.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lithosguard/internal/classifier"
	"lithosguard/internal/config"
	"lithosguard/internal/logging"
	"lithosguard/internal/physics"
	"lithosguard/internal/sensors"
	"lithosguard/internal/telemetry"
)

// StopReason explains why Stream returned.
type StopReason string

const (
	StopCompleted     StopReason = "completed"
	StopCriticalPause StopReason = "critical_pause"
	StopCancelled     StopReason = "cancelled"
	StopReset         StopReason = "reset"
)

var (
	// ErrStreamRunning is returned when a second stream is started.
	ErrStreamRunning = errors.New("stream already running")
	// ErrEmptySeries is returned when there is nothing to inspect.
	ErrEmptySeries = errors.New("series has no points")
)

// Options configures a Monitor.
type Options struct {
	SessionID         string
	Physics           physics.Params
	Classifier        classifier.Classifier
	Alarm             AlarmProfile
	BufferSize        int
	PlaybackSpeed     int
	Pacing            time.Duration
	EarlyStop         bool
	EarlyStopFraction float64
	DataSource        string
	Clock             func() time.Time
}

// DefaultOptions mirrors config.Default without a classifier.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default(), nil)
}

// OptionsFromConfig maps the loaded configuration onto monitor options.
func OptionsFromConfig(cfg *config.MonitorConfig, c classifier.Classifier) Options {
	alarm := AlarmProfile{
		Topic:   cfg.Alarm.Topic,
		Sector:  cfg.Site.Sector,
		Workers: cfg.Alarm.Workers,
		Truck:   cfg.Alarm.Truck,
	}
	return Options{
		Physics: physics.Params{
			CohesionKPa:      cfg.Physics.CohesionKPa,
			FrictionAngleDeg: cfg.Physics.FrictionAngleDeg,
			NormalStressKPa:  cfg.Physics.NormalStressKPa,
			ShearBaseKPa:     cfg.Physics.ShearBaseKPa,
			ShearRate:        cfg.Physics.ShearRateKPaPerMM,
			CriticalFoS:      cfg.Physics.CriticalFoS,
			TTFScaling:       cfg.Physics.TTFScaling,
		},
		Classifier:        c,
		Alarm:             alarm,
		BufferSize:        cfg.Monitor.BufferSize,
		PlaybackSpeed:     cfg.Monitor.PlaybackSpeed,
		Pacing:            cfg.Monitor.Pacing,
		EarlyStop:         cfg.Monitor.EarlyStop,
		EarlyStopFraction: cfg.Monitor.EarlyStopFraction,
		DataSource:        cfg.Monitor.DataSource,
	}
}

// Summary describes a finished stream.
type Summary struct {
	Ticks     int        `json:"ticks"`
	LastIndex int        `json:"last_index"`
	Reason    StopReason `json:"reason"`
	Alarm     AlarmState `json:"alarm"`
	Commands  int        `json:"commands"`
}

// Status is a point-in-time view of the monitor for the admin server.
type Status struct {
	SessionID   string           `json:"session_id"`
	State       State            `json:"state"`
	DataSource  string           `json:"data_source"`
	Standby     bool             `json:"standby"`
	Streaming   bool             `json:"streaming"`
	Alarm       AlarmState       `json:"alarm"`
	SirenActive bool             `json:"siren_active"`
	Commands    int              `json:"commands"`
	Buffered    int              `json:"buffered"`
	Last        *Frame           `json:"last,omitempty"`
	Sectors     []physics.Sector `json:"sectors,omitempty"`
	Model       classifier.Info  `json:"model"`
}

// Monitor owns one monitoring session. The loop itself is sequential; the
// mutex lets the admin server read snapshots and post commands.
type Monitor struct {
	mu        sync.Mutex
	opts      Options
	eval      *Evaluator
	writer    FrameWriter
	session   *Session
	state     State
	source    string
	connected bool
	last      *Frame
	cancel    context.CancelFunc
	resetGen  uint64
}

// New creates a monitor publishing to writer, which may be nil.
func New(opts Options, writer FrameWriter) *Monitor {
	if opts.PlaybackSpeed <= 0 {
		opts.PlaybackSpeed = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.DataSource == "" {
		opts.DataSource = config.SourceSimulator
	}
	if opts.Physics == (physics.Params{}) {
		opts.Physics = physics.DefaultParams()
	}
	if opts.Alarm == (AlarmProfile{}) {
		opts.Alarm = DefaultAlarmProfile()
	}
	return &Monitor{
		opts:    opts,
		eval:    NewEvaluator(opts.Physics, opts.Classifier),
		writer:  writer,
		session: NewSession(opts.SessionID, opts.BufferSize),
		state:   StateIdle,
		source:  opts.DataSource,
	}
}

// SessionID returns the session identifier.
func (m *Monitor) SessionID() string { return m.session.ID }

// State returns the current loop state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Alarm returns the alarm latch.
func (m *Monitor) Alarm() AlarmState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Alarm
}

// Commands returns a copy of the command log.
func (m *Monitor) Commands() []CommandRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CommandRecord(nil), m.session.Commands...)
}

// Buffer returns a copy of the rolling buffer.
func (m *Monitor) Buffer() BufferSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Buffer.Snapshot()
}

// Status returns a snapshot for display.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{
		SessionID:   m.session.ID,
		State:       m.state,
		DataSource:  m.source,
		Standby:     sensors.Standby(m.source, m.connected),
		Streaming:   m.cancel != nil,
		Alarm:       m.session.Alarm,
		SirenActive: m.session.Alarm.Triggered,
		Commands:    len(m.session.Commands),
		Buffered:    m.session.Buffer.Len(),
		Model:       m.eval.Classifier().Info(),
	}
	if m.last != nil {
		f := *m.last
		st.Last = &f
		st.Sectors = physics.Sectors(f.Evaluation.FactorOfSafety)
	}
	return st
}

// Nodes returns the sensor registry as seen from the current data source.
func (m *Monitor) Nodes() []sensors.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sensors.Nodes(m.source, m.connected)
}

// DataSource returns the selected data source.
func (m *Monitor) DataSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// SetDataSource switches the data source. Switching clears the rolling
// buffer and drops any physical connection.
func (m *Monitor) SetDataSource(source string) error {
	switch source {
	case config.SourceSimulator, config.SourcePhysicalAPI:
	default:
		return fmt.Errorf("unknown data source %q", source)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if source != m.source {
		m.session.Buffer.Clear()
		m.connected = false
		m.source = source
	}
	return nil
}

// Reset clears alarm, command log and buffer and stops a running stream.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetGen++
	m.session.Clear()
	m.last = nil
	if m.cancel != nil {
		m.state = StateReset
		m.cancel()
		return
	}
	m.state = StateIdle
}

// Rearm clears the already-logged guard so the next critical tick emits a
// new batch. Used when a failure is injected into a running session.
func (m *Monitor) Rearm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Alarm.AlreadyLogged = false
}

// TestSiren logs a manual siren test without touching the alarm latch.
func (m *Monitor) TestSiren(ctx context.Context) CommandRecord {
	m.mu.Lock()
	rec := SirenTestRecord(m.opts.Clock(), uuid.NewString())
	m.session.Commands = append(m.session.Commands, rec)
	m.mu.Unlock()
	logging.FromContext(ctx).Info("manual siren test", "session", m.session.ID)
	m.writeCommands(logging.FromContext(ctx), []CommandRecord{rec})
	return rec
}

// Stream walks s at the configured playback speed until the series ends,
// the stream pauses at a critical point, ctx is cancelled or Reset is
// called.
func (m *Monitor) Stream(ctx context.Context, s telemetry.Series) (Summary, error) {
	log := logging.FromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return Summary{}, ErrStreamRunning
	}
	m.cancel = cancel
	gen := m.resetGen
	if !m.session.Alarm.Triggered {
		m.state = StateStreaming
	}
	standby := sensors.Standby(m.source, m.connected)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.cancel = nil
		if m.state == StateStreaming || m.state == StateReset {
			m.state = StateIdle
		}
		m.mu.Unlock()
	}()

	if standby {
		log.Warn("no physical nodes detected, using simulator standby", "source", config.SourcePhysicalAPI)
	}

	n := s.Len()
	step := m.opts.PlaybackSpeed
	sum := Summary{Reason: StopCompleted, LastIndex: -1}
	log.Info("stream started", "session", m.session.ID, "scenario", s.Scenario, "points", n, "step", step)

loop:
	for i := 0; i < n; i += step {
		if ctx.Err() != nil {
			sum.Reason = m.stopReason(gen)
			break
		}
		frame, batch, ok := m.tick(ModeStreaming, s.Points[i], s.Points[:i+1], i, n, gen)
		if !ok {
			sum.Reason = StopReset
			break
		}
		sum.Ticks++
		sum.LastIndex = i
		m.publish(log, frame, batch)

		if m.opts.EarlyStop && frame.Evaluation.IsCritical && float64(i) > m.opts.EarlyStopFraction*float64(n) {
			sum.Reason = StopCriticalPause
			log.Info("stream paused at critical point", "index", i, "fos", frame.Evaluation.FactorOfSafety)
			break
		}
		if m.opts.Pacing > 0 && i+step < n {
			select {
			case <-ctx.Done():
				sum.Reason = m.stopReason(gen)
				break loop
			case <-time.After(m.opts.Pacing):
			}
		}
	}

	m.mu.Lock()
	sum.Alarm = m.session.Alarm
	sum.Commands = len(m.session.Commands)
	m.mu.Unlock()
	log.Info("stream stopped", "reason", sum.Reason, "ticks", sum.Ticks, "alarm", sum.Alarm.Triggered)
	return sum, nil
}

// Inspect evaluates the timeline position hour: the slice of s up to hour
// (or its first point). The alarm latches on critical and clears once the
// position is no longer critical.
func (m *Monitor) Inspect(ctx context.Context, s telemetry.Series, hour float64) (Frame, error) {
	if s.Len() == 0 {
		return Frame{}, ErrEmptySeries
	}
	slice := s.Until(hour)
	last := len(slice.Points) - 1
	m.mu.Lock()
	gen := m.resetGen
	m.mu.Unlock()
	frame, batch, _ := m.tick(ModeForensic, slice.Points[last], slice.Points, last, s.Len(), gen)
	m.publish(logging.FromContext(ctx), frame, batch)
	return frame, nil
}

// Scrub inspects several timeline positions in order.
func (m *Monitor) Scrub(ctx context.Context, s telemetry.Series, hours ...float64) ([]Frame, error) {
	frames := make([]Frame, 0, len(hours))
	for _, h := range hours {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		f, err := m.Inspect(ctx, s, h)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (m *Monitor) stopReason(gen uint64) StopReason {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetGen != gen {
		return StopReset
	}
	return StopCancelled
}

// tick evaluates one point and applies the latch rules of mode. It reports
// false when a reset happened since gen was read.
func (m *Monitor) tick(mode Mode, p telemetry.TelemetryPoint, history []telemetry.TelemetryPoint, index, total int, gen uint64) (Frame, []CommandRecord, bool) {
	res := m.eval.Evaluate(p, history)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.resetGen {
		return Frame{}, nil, false
	}
	now := m.opts.Clock()
	if mode == ModeStreaming {
		m.session.Buffer.Append(p, res.FactorOfSafety)
	}

	var batch []CommandRecord
	switch {
	case res.IsCritical && !m.session.Alarm.AlreadyLogged:
		m.session.latch()
		id := uuid.NewString()
		if mode == ModeStreaming {
			batch = StreamingBatch(m.opts.Alarm, now, id)
		} else {
			batch = ForensicBatch(m.opts.Alarm, now, id)
		}
		m.session.Commands = append(m.session.Commands, batch...)
		m.state = StateCriticalLatched
	case mode == ModeForensic && !res.IsCritical && m.session.Alarm.AlreadyLogged:
		m.session.Alarm = AlarmState{}
		m.state = StateIdle
	}

	frame := Frame{
		SessionID:    m.session.ID,
		Mode:         mode,
		Index:        index,
		Total:        total,
		Timestamp:    now,
		DataSource:   m.source,
		Point:        p,
		Evaluation:   res,
		SectorStatus: physics.SectorStatus(res.FactorOfSafety),
		Alarm:        m.session.Alarm,
		State:        m.state,
		BatchEmitted: len(batch) > 0,
		NewCommands:  batch,
	}
	last := frame
	m.last = &last
	return frame, batch, true
}

// publish hands a frame to the writer. Writer failures are logged and
// never stop the loop.
func (m *Monitor) publish(log *slog.Logger, frame Frame, batch []CommandRecord) {
	if len(batch) > 0 {
		log.Warn("alarm latched", "session", frame.SessionID, "mode", frame.Mode, "index", frame.Index,
			"fos", frame.Evaluation.FactorOfSafety, "batch_id", batch[0].BatchID)
	}
	if m.writer == nil {
		return
	}
	if err := m.writer.WriteFrame(frame); err != nil {
		log.Error("frame write failed", "index", frame.Index, "err", err)
	}
	m.writeCommands(log, batch)
}

func (m *Monitor) writeCommands(log *slog.Logger, batch []CommandRecord) {
	if len(batch) == 0 || m.writer == nil {
		return
	}
	cw, ok := m.writer.(CommandWriter)
	if !ok {
		return
	}
	if err := cw.WriteCommands(batch); err != nil {
		log.Error("command write failed", "batch_id", batch[0].BatchID, "err", err)
	}
}
