package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lithosguard/internal/config"
	"lithosguard/internal/monitor"
	"lithosguard/internal/sensors"
	"lithosguard/internal/telemetry"
)

func newTestServer(t *testing.T) (*Server, *monitor.Monitor) {
	t.Helper()
	o := monitor.DefaultOptions()
	o.Pacing = 0
	o.EarlyStop = false
	o.Clock = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	m := monitor.New(o, nil)
	return NewServer(m), m
}

func criticalSeries(n int) telemetry.Series {
	pts := make([]telemetry.TelemetryPoint, n)
	for i := range pts {
		pts[i] = telemetry.TelemetryPoint{TimeHours: float64(i), PorePressureKPa: 110, DisplacementMM: 20}
	}
	return telemetry.Series{Points: pts}
}

func TestHandleStatus(t *testing.T) {
	server, m := newTestServer(t)
	if _, err := m.Stream(context.Background(), criticalSeries(3)); err != nil {
		t.Fatalf("stream: %v", err)
	}
	w := httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	var st monitor.Status
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Alarm.Triggered || st.Commands != 5 || st.Buffered != 3 || len(st.Sectors) != 5 {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.State != monitor.StateCriticalLatched {
		t.Fatalf("state %s", st.State)
	}
}

func TestHandleResetRequiresPost(t *testing.T) {
	server, m := newTestServer(t)
	_, _ = m.Stream(context.Background(), criticalSeries(3))

	w := httptest.NewRecorder()
	server.handleReset(w, httptest.NewRequest(http.MethodGet, "/reset", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if !m.Alarm().Triggered {
		t.Fatalf("GET must not reset")
	}

	w = httptest.NewRecorder()
	server.handleReset(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if m.Alarm().Triggered || len(m.Commands()) != 0 || m.Buffer().Len() != 0 {
		t.Fatalf("reset did not clear session")
	}
}

func TestHandleTestSiren(t *testing.T) {
	server, m := newTestServer(t)
	w := httptest.NewRecorder()
	server.handleTestSiren(w, httptest.NewRequest(http.MethodPost, "/test-siren", nil))
	var rec monitor.CommandRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Line != "[10:00:00] TEST: Manual siren test initiated" {
		t.Fatalf("unexpected record %q", rec.Line)
	}
	if m.Alarm().Triggered {
		t.Fatalf("siren test must not latch the alarm")
	}
}

func TestHandleCommandsLimit(t *testing.T) {
	server, m := newTestServer(t)
	_, _ = m.Stream(context.Background(), criticalSeries(2))
	w := httptest.NewRecorder()
	server.handleCommands(w, httptest.NewRequest(http.MethodGet, "/commands?limit=2", nil))
	var cmds []monitor.CommandRecord
	if err := json.NewDecoder(w.Body).Decode(&cmds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cmds) != 2 || cmds[1].Channel != monitor.ChannelRelay {
		t.Fatalf("expected last two records, got %+v", cmds)
	}

	server2, _ := newTestServer(t)
	w = httptest.NewRecorder()
	server2.handleCommands(w, httptest.NewRequest(http.MethodGet, "/commands", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %q", w.Body.String())
	}
}

func TestHandleDataSourceAndSensors(t *testing.T) {
	server, m := newTestServer(t)
	_, _ = m.Stream(context.Background(), criticalSeries(3))

	w := httptest.NewRecorder()
	server.handleDataSource(w, httptest.NewRequest(http.MethodPost, "/data-source?source=physical-api", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if m.Buffer().Len() != 0 || m.DataSource() != config.SourcePhysicalAPI {
		t.Fatalf("switch not applied")
	}

	w = httptest.NewRecorder()
	server.handleSensors(w, httptest.NewRequest(http.MethodGet, "/sensors", nil))
	var nodes []sensors.Node
	if err := json.NewDecoder(w.Body).Decode(&nodes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nodes) != 4 || nodes[0].Status != sensors.StatusOffline {
		t.Fatalf("unexpected nodes %+v", nodes)
	}

	w = httptest.NewRecorder()
	server.handleDataSource(w, httptest.NewRequest(http.MethodPost, "/data-source?source=radio", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSeismic(t *testing.T) {
	server, _ := newTestServer(t)
	w := httptest.NewRecorder()
	server.handleSeismic(w, httptest.NewRequest(http.MethodGet, "/seismic?amplitude=0.5&freq=1500", nil))
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["class"] != "CRITICAL FRACTURE" {
		t.Fatalf("unexpected class %v", out["class"])
	}
	w = httptest.NewRecorder()
	server.handleSeismic(w, httptest.NewRequest(http.MethodGet, "/seismic?amplitude=x", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	server, m := newTestServer(t)
	_, _ = m.Stream(context.Background(), criticalSeries(2))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	for _, want := range []string{"ALARM ACTIVE", "SN-4492-7B", "EVACUATE SECTOR 4", "Sector 4"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q", want)
		}
	}
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
