package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"lithosguard/internal/telemetry"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes frames and command records to GreptimeDB.
type GreptimeDBWriter struct {
	client       greptimeClient
	site         string
	frameTable   string
	commandTable string
	log          *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host:port") and writes into
// database. Tables are created by the server on first insert.
func NewGreptimeDBWriter(endpoint, database, site string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return nil, fmt.Errorf("greptime endpoint %q: %w", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("greptime port %q: %w", portStr, err)
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{
		client:       client,
		site:         site,
		frameTable:   telemetry.TelemetryTableName,
		commandTable: telemetry.CommandTableName,
		log:          log,
	}, nil
}

// WriteFrame inserts a single frame.
func (w *GreptimeDBWriter) WriteFrame(f Frame) error {
	return w.WriteFrames([]Frame{f})
}

func (w *GreptimeDBWriter) frameSchema() (*table.Table, error) {
	tbl, err := table.New(w.frameTable)
	if err != nil {
		return nil, err
	}
	tags := []string{"session_id", "site", "mode", "sector_status"}
	for _, c := range tags {
		if err := tbl.AddTagColumn(c, types.STRING); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"time_hrs", types.FLOAT64},
		{"pore_pressure_kpa", types.FLOAT64},
		{"displacement_mm", types.FLOAT64},
		{"acoustic_emission_g", types.FLOAT64},
		{"scenario_intensity", types.FLOAT64},
		{"shear_stress_kpa", types.FLOAT64},
		{"factor_of_safety", types.FLOAT64},
		{"time_to_failure_hrs", types.FLOAT64},
		{"risk_label", types.STRING},
		{"risk_probability", types.FLOAT64},
		{"is_critical", types.BOOLEAN},
		{"alarm_triggered", types.BOOLEAN},
		{"state", types.STRING},
	}
	for _, c := range fields {
		if err := tbl.AddFieldColumn(c.name, c.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}

// WriteFrames inserts multiple frames.
func (w *GreptimeDBWriter) WriteFrames(frames []Frame) error {
	if len(frames) == 0 {
		return nil
	}
	tbl, err := w.frameSchema()
	if err != nil {
		return err
	}
	for _, f := range frames {
		err := tbl.AddRow(
			f.SessionID, w.site, string(f.Mode), string(f.SectorStatus),
			f.Point.TimeHours,
			f.Point.PorePressureKPa,
			f.Point.DisplacementMM,
			f.Point.AcousticEmission,
			f.Point.ScenarioIntensity,
			f.Evaluation.ShearStressKPa,
			f.Evaluation.FactorOfSafety,
			f.Evaluation.TimeToFailureHours,
			f.Evaluation.RiskLabel,
			f.Evaluation.RiskProbability,
			f.Evaluation.IsCritical,
			f.Alarm.Triggered,
			string(f.State),
			f.Timestamp,
		)
		if err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime frame write failed", "table", w.frameTable, "err", err)
		return err
	}
	w.log.Debug("greptime frames written", "rows", len(frames))
	return nil
}

// WriteCommands inserts outbound command records.
func (w *GreptimeDBWriter) WriteCommands(rows []CommandRecord) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.commandTable)
	if err != nil {
		return err
	}
	for _, c := range []string{"batch_id", "channel"} {
		if err := tbl.AddTagColumn(c, types.STRING); err != nil {
			return err
		}
	}
	for _, c := range []string{"site", "target", "payload", "line"} {
		if err := tbl.AddFieldColumn(c, types.STRING); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.BatchID, r.Channel, w.site, r.Target, r.Payload, r.Line, r.Timestamp); err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime command write failed", "table", w.commandTable, "err", err)
		return err
	}
	return nil
}
