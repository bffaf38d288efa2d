package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lithosguard/internal/config"
	"lithosguard/internal/telemetry"
)

// mockWriter collects frames and command records for validation.
type mockWriter struct {
	mu       sync.Mutex
	frames   []Frame
	commands []CommandRecord
	err      error
}

func (w *mockWriter) WriteFrame(f Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames = append(w.frames, f)
	return w.err
}

func (w *mockWriter) WriteCommands(rows []CommandRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commands = append(w.commands, rows...)
	return w.err
}

var fixedTime = time.Date(2026, 7, 14, 9, 30, 5, 0, time.UTC)

func testOptions() Options {
	o := DefaultOptions()
	o.Pacing = 0
	o.EarlyStop = false
	o.Clock = func() time.Time { return fixedTime }
	return o
}

const (
	safePressure     = 0.0
	criticalPressure = 110.0
)

// series builds n points one minute apart; critical(i) selects the pressure.
func series(n int, critical func(i int) bool) telemetry.Series {
	pts := make([]telemetry.TelemetryPoint, n)
	for i := range pts {
		p := telemetry.TelemetryPoint{TimeHours: float64(i) / 60, DisplacementMM: 1, PorePressureKPa: safePressure}
		if critical(i) {
			p.PorePressureKPa = criticalPressure
			p.DisplacementMM = 20
		}
		pts[i] = p
	}
	return telemetry.Series{Points: pts}
}

func always(int) bool { return true }
func never(int) bool  { return false }

func TestStreamLatchesOnce(t *testing.T) {
	w := &mockWriter{}
	m := New(testOptions(), w)
	sum, err := m.Stream(context.Background(), series(50, always))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if sum.Reason != StopCompleted || sum.Ticks != 50 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	cmds := m.Commands()
	if len(cmds) != 5 {
		t.Fatalf("expected one batch of 5 records, got %d", len(cmds))
	}
	if len(w.commands) != 5 {
		t.Fatalf("writer received %d records", len(w.commands))
	}
	emitted := 0
	for _, f := range w.frames {
		if f.BatchEmitted {
			emitted++
		}
	}
	if emitted != 1 || !w.frames[0].BatchEmitted {
		t.Fatalf("batch should be flagged on first frame only, got %d", emitted)
	}
	if a := m.Alarm(); !a.Triggered || !a.AlreadyLogged {
		t.Fatalf("alarm not latched: %+v", a)
	}
	if m.State() != StateCriticalLatched {
		t.Fatalf("state %s, want critical_latched", m.State())
	}
}

func TestStreamBatchLines(t *testing.T) {
	m := New(testOptions(), nil)
	if _, err := m.Stream(context.Background(), series(5, always)); err != nil {
		t.Fatalf("stream: %v", err)
	}
	want := []string{
		`[09:30:05] MQTT >> mine/pit1/control/alarm {"cmd": "SIREN_ON"}`,
		`[09:30:05] API >> POST /v1/trigger/alarm {"sector": 4, "severity": "CRITICAL"}`,
		`[09:30:05] SMS >> Broadcast to 42 workers: EVACUATE SECTOR 4`,
		`[09:30:05] RELAY >> Truck #091 engine cutoff activated`,
		`[09:30:05] RELAY >> Emergency lighting Zone 4: ON`,
	}
	cmds := m.Commands()
	for i, line := range want {
		if cmds[i].Line != line {
			t.Errorf("line %d = %q, want %q", i, cmds[i].Line, line)
		}
		if cmds[i].BatchID != cmds[0].BatchID {
			t.Errorf("line %d has batch %s, want %s", i, cmds[i].BatchID, cmds[0].BatchID)
		}
	}
}

func TestStreamStaysLatchedAfterRecovery(t *testing.T) {
	m := New(testOptions(), nil)
	s := series(30, func(i int) bool { return i < 10 || i >= 20 })
	if _, err := m.Stream(context.Background(), s); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got := len(m.Commands()); got != 5 {
		t.Fatalf("streaming must emit exactly one batch, got %d records", got)
	}
	if !m.Alarm().Triggered {
		t.Fatalf("streaming latch must not auto-clear")
	}
}

func TestStreamNoAlarmWhenStable(t *testing.T) {
	w := &mockWriter{}
	m := New(testOptions(), w)
	if _, err := m.Stream(context.Background(), series(20, never)); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(m.Commands()) != 0 || m.Alarm().Triggered {
		t.Fatalf("unexpected alarm")
	}
	if m.State() != StateIdle {
		t.Fatalf("state %s, want idle after completed stream", m.State())
	}
	if len(w.frames) != 20 || w.frames[3].State != StateStreaming {
		t.Fatalf("unexpected frames: %d", len(w.frames))
	}
}

func TestStreamRollingBuffer(t *testing.T) {
	m := New(testOptions(), nil)
	s := series(250, never)
	if _, err := m.Stream(context.Background(), s); err != nil {
		t.Fatalf("stream: %v", err)
	}
	b := m.Buffer()
	if b.Len() != 200 || len(b.Pressure) != 200 || len(b.Displacement) != 200 || len(b.FoS) != 200 {
		t.Fatalf("buffer lengths %d/%d/%d/%d", len(b.Time), len(b.Pressure), len(b.Displacement), len(b.FoS))
	}
	for i, v := range b.Time {
		if want := s.Points[50+i].TimeHours; v != want {
			t.Fatalf("buffer[%d] time %f, want %f", i, v, want)
		}
	}
}

func TestStreamPlaybackSpeed(t *testing.T) {
	w := &mockWriter{}
	o := testOptions()
	o.PlaybackSpeed = 5
	m := New(o, w)
	sum, err := m.Stream(context.Background(), series(23, never))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if sum.Ticks != 5 || sum.LastIndex != 20 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	for i, f := range w.frames {
		if f.Index != i*5 {
			t.Fatalf("frame %d index %d", i, f.Index)
		}
	}
}

func TestStreamEarlyStop(t *testing.T) {
	o := testOptions()
	o.EarlyStop = true
	o.EarlyStopFraction = 0.8
	m := New(o, nil)
	s := series(1000, func(i int) bool { return i >= 700 })
	sum, err := m.Stream(context.Background(), s)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if sum.Reason != StopCriticalPause || sum.LastIndex != 801 {
		t.Fatalf("expected pause at 801, got %+v", sum)
	}
	if sum.Commands != 5 {
		t.Fatalf("expected single batch, got %d", sum.Commands)
	}
}

func TestStreamEarlyStopDisabled(t *testing.T) {
	o := testOptions()
	o.EarlyStop = false
	m := New(o, nil)
	sum, _ := m.Stream(context.Background(), series(1000, always))
	if sum.Reason != StopCompleted || sum.Ticks != 1000 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(testOptions(), nil)
	sum, err := m.Stream(ctx, series(10, never))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if sum.Reason != StopCancelled || sum.Ticks != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestResetStopsRunningStream(t *testing.T) {
	o := testOptions()
	o.Pacing = 5 * time.Millisecond
	m := New(o, nil)
	done := make(chan Summary)
	go func() {
		sum, _ := m.Stream(context.Background(), series(10000, always))
		done <- sum
	}()
	deadline := time.After(2 * time.Second)
	for m.Buffer().Len() < 3 {
		select {
		case <-deadline:
			t.Fatalf("stream did not start")
		case <-time.After(time.Millisecond):
		}
	}
	m.Reset()
	select {
	case sum := <-done:
		if sum.Reason != StopReset {
			t.Fatalf("reason %s, want reset", sum.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not stop after reset")
	}
	if m.State() != StateIdle {
		t.Fatalf("state %s, want idle", m.State())
	}
	if len(m.Commands()) != 0 || m.Buffer().Len() != 0 || m.Alarm().Triggered {
		t.Fatalf("session not cleared")
	}
}

func TestSecondStreamRejected(t *testing.T) {
	o := testOptions()
	o.Pacing = 5 * time.Millisecond
	m := New(o, nil)
	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = m.Stream(context.Background(), series(1000, never))
	}()
	<-started
	deadline := time.After(2 * time.Second)
	for !m.Status().Streaming {
		select {
		case <-deadline:
			t.Fatalf("stream did not start")
		case <-time.After(time.Millisecond):
		}
	}
	if _, err := m.Stream(context.Background(), series(3, never)); !errors.Is(err, ErrStreamRunning) {
		t.Fatalf("expected ErrStreamRunning, got %v", err)
	}
	m.Reset()
}

func TestReset(t *testing.T) {
	m := New(testOptions(), nil)
	_, _ = m.Stream(context.Background(), series(10, always))
	m.Reset()
	if m.State() != StateIdle || m.Alarm() != (AlarmState{}) {
		t.Fatalf("reset did not clear alarm")
	}
	if len(m.Commands()) != 0 || m.Buffer().Len() != 0 {
		t.Fatalf("reset did not clear log/buffer")
	}
	if m.Status().Last != nil {
		t.Fatalf("reset should drop the last frame")
	}
	// latch is armed again
	_, _ = m.Stream(context.Background(), series(10, always))
	if len(m.Commands()) != 5 {
		t.Fatalf("expected new batch after reset")
	}
}

func TestRearmAllowsSecondBatch(t *testing.T) {
	m := New(testOptions(), nil)
	_, _ = m.Stream(context.Background(), series(10, always))
	m.Rearm()
	_, _ = m.Stream(context.Background(), series(10, always))
	if got := len(m.Commands()); got != 10 {
		t.Fatalf("expected two batches, got %d records", got)
	}
}

func TestTestSirenDoesNotLatch(t *testing.T) {
	w := &mockWriter{}
	m := New(testOptions(), w)
	rec := m.TestSiren(context.Background())
	if rec.Line != "[09:30:05] TEST: Manual siren test initiated" {
		t.Fatalf("unexpected line %q", rec.Line)
	}
	if m.Alarm().Triggered || len(m.Commands()) != 1 || len(w.commands) != 1 {
		t.Fatalf("siren test must only log one record")
	}
	_, _ = m.Stream(context.Background(), series(3, always))
	if got := len(m.Commands()); got != 6 {
		t.Fatalf("siren test must not consume the latch, got %d records", got)
	}
}

func TestInspectAutoClears(t *testing.T) {
	w := &mockWriter{}
	m := New(testOptions(), w)
	// critical for t < 0.5h and t >= 1h
	s := series(120, func(i int) bool { return i < 30 || i >= 60 })
	frames, err := m.Scrub(context.Background(), s, 0.25, 0.75, 1.5)
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if !frames[0].Alarm.Triggered || frames[1].Alarm.Triggered || !frames[2].Alarm.Triggered {
		t.Fatalf("unexpected latch sequence: %+v %+v %+v", frames[0].Alarm, frames[1].Alarm, frames[2].Alarm)
	}
	cmds := m.Commands()
	if len(cmds) != 8 {
		t.Fatalf("expected two forensic batches (8 records), got %d", len(cmds))
	}
	if cmds[0].BatchID == cmds[4].BatchID {
		t.Fatalf("batches must have distinct ids")
	}
	if cmds[1].Line != "[09:30:05] API >> POST /v1/trigger/alarm" || cmds[2].Line != "[09:30:05] SMS >> 42 workers notified" || cmds[3].Line != "[09:30:05] RELAY >> Truck #091 cutoff" {
		t.Fatalf("unexpected forensic batch: %q %q %q", cmds[1].Line, cmds[2].Line, cmds[3].Line)
	}
	if frames[1].State != StateIdle {
		t.Fatalf("cleared frame state %s", frames[1].State)
	}
	if m.Buffer().Len() != 0 {
		t.Fatalf("inspection must not touch the rolling buffer")
	}
}

func TestInspectSlice(t *testing.T) {
	m := New(testOptions(), nil)
	s := series(120, never)
	f, err := m.Inspect(context.Background(), s, 0.5)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if f.Index != 30 || f.Point.TimeHours != 0.5 {
		t.Fatalf("unexpected slice end %d (%f)", f.Index, f.Point.TimeHours)
	}
	f, _ = m.Inspect(context.Background(), s, -1)
	if f.Index != 0 {
		t.Fatalf("empty slice should fall back to first point, got %d", f.Index)
	}
	if f.Evaluation.TimeToFailureHours != 999*0.5 {
		t.Fatalf("single-point ttf %f", f.Evaluation.TimeToFailureHours)
	}
	if _, err := m.Inspect(context.Background(), telemetry.Series{}, 1); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestWriterErrorsDoNotStopLoop(t *testing.T) {
	w := &mockWriter{err: errors.New("sink down")}
	m := New(testOptions(), w)
	sum, err := m.Stream(context.Background(), series(10, always))
	if err != nil || sum.Ticks != 10 {
		t.Fatalf("loop stopped on writer error: %+v %v", sum, err)
	}
	if len(m.Commands()) != 5 {
		t.Fatalf("command log must not depend on writer")
	}
}

func TestSetDataSourceClearsBuffer(t *testing.T) {
	m := New(testOptions(), nil)
	_, _ = m.Stream(context.Background(), series(10, never))
	if err := m.SetDataSource(config.SourceSimulator); err != nil {
		t.Fatalf("same source: %v", err)
	}
	if m.Buffer().Len() != 10 {
		t.Fatalf("buffer cleared without a switch")
	}
	if err := m.SetDataSource(config.SourcePhysicalAPI); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if m.Buffer().Len() != 0 {
		t.Fatalf("switch should clear buffer")
	}
	st := m.Status()
	if !st.Standby || st.DataSource != config.SourcePhysicalAPI {
		t.Fatalf("unexpected status %+v", st)
	}
	if err := m.SetDataSource("satellite"); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestStatusSnapshot(t *testing.T) {
	m := New(testOptions(), nil)
	if st := m.Status(); st.Last != nil || len(st.Sectors) != 0 || st.State != StateIdle {
		t.Fatalf("unexpected initial status %+v", st)
	}
	_, _ = m.Stream(context.Background(), series(4, always))
	st := m.Status()
	if st.Last == nil || len(st.Sectors) != 5 || !st.SirenActive || st.Buffered != 4 {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.Model.Loaded {
		t.Fatalf("no classifier configured")
	}
	if !strings.HasPrefix(st.Last.Evaluation.RiskLabel, "Model") {
		t.Fatalf("risk label %q", st.Last.Evaluation.RiskLabel)
	}
}

func TestNewSessionID(t *testing.T) {
	a := New(testOptions(), nil)
	b := New(testOptions(), nil)
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Fatalf("session ids must be unique")
	}
	o := testOptions()
	o.SessionID = "pit1"
	if New(o, nil).SessionID() != "pit1" {
		t.Fatalf("explicit session id ignored")
	}
}
