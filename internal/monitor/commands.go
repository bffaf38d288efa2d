package monitor

import (
	"fmt"
	"time"
)

// Command channels.
const (
	ChannelMQTT  = "MQTT"
	ChannelAPI   = "API"
	ChannelSMS   = "SMS"
	ChannelRelay = "RELAY"
	ChannelTest  = "TEST"
)

const timestampLayout = "15:04:05"

// CommandRecord is one simulated outbound command. Nothing is dispatched;
// records only feed the command log and writers.
type CommandRecord struct {
	BatchID   string    `json:"batch_id"`
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	Target    string    `json:"target"`
	Payload   string    `json:"payload"`
	Line      string    `json:"line"`
}

// AlarmProfile parameterizes the command batches.
type AlarmProfile struct {
	Topic   string
	Sector  int
	Workers int
	Truck   string
}

// DefaultAlarmProfile matches the pit 1 installation.
func DefaultAlarmProfile() AlarmProfile {
	return AlarmProfile{Topic: "mine/pit1/control/alarm", Sector: 4, Workers: 42, Truck: "#091"}
}

func record(batchID string, at time.Time, channel, target, payload string) CommandRecord {
	body := target
	if payload != "" {
		body += " " + payload
	}
	sep := " >> "
	if channel == ChannelTest {
		sep = ": "
	}
	return CommandRecord{
		BatchID:   batchID,
		Timestamp: at,
		Channel:   channel,
		Target:    target,
		Payload:   payload,
		Line:      fmt.Sprintf("[%s] %s%s%s", at.Format(timestampLayout), channel, sep, body),
	}
}

// StreamingBatch is emitted once per session when a live stream first
// turns critical.
func StreamingBatch(p AlarmProfile, at time.Time, batchID string) []CommandRecord {
	return []CommandRecord{
		record(batchID, at, ChannelMQTT, p.Topic, `{"cmd": "SIREN_ON"}`),
		record(batchID, at, ChannelAPI, "POST /v1/trigger/alarm", fmt.Sprintf(`{"sector": %d, "severity": "CRITICAL"}`, p.Sector)),
		record(batchID, at, ChannelSMS, fmt.Sprintf("Broadcast to %d workers:", p.Workers), fmt.Sprintf("EVACUATE SECTOR %d", p.Sector)),
		record(batchID, at, ChannelRelay, fmt.Sprintf("Truck %s", p.Truck), "engine cutoff activated"),
		record(batchID, at, ChannelRelay, fmt.Sprintf("Emergency lighting Zone %d:", p.Sector), "ON"),
	}
}

// ForensicBatch is the shorter batch emitted by timeline inspection.
func ForensicBatch(p AlarmProfile, at time.Time, batchID string) []CommandRecord {
	return []CommandRecord{
		record(batchID, at, ChannelMQTT, p.Topic, `{"cmd": "SIREN_ON"}`),
		record(batchID, at, ChannelAPI, "POST /v1/trigger/alarm", ""),
		record(batchID, at, ChannelSMS, fmt.Sprintf("%d workers notified", p.Workers), ""),
		record(batchID, at, ChannelRelay, fmt.Sprintf("Truck %s", p.Truck), "cutoff"),
	}
}

// SirenTestRecord is logged by a manual siren test.
func SirenTestRecord(at time.Time, batchID string) CommandRecord {
	return record(batchID, at, ChannelTest, "Manual siren test initiated", "")
}
