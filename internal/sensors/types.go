package sensors

import "lithosguard/internal/config"

// Protocol is the uplink a node reports over.
type Protocol string

const (
	ProtocolLoRaWAN  Protocol = "LoRaWAN"
	ProtocolMQTTWiFi Protocol = "MQTT/WiFi"
)

// Status of a node as seen from the active data source.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusOffline Status = "OFFLINE"
)

// Node is one field sensor in the registry.
type Node struct {
	ID         string   `json:"id"`
	MAC        string   `json:"mac"`
	Protocol   Protocol `json:"protocol"`
	BatteryPct int      `json:"battery_pct"`
	RSSIdBm    int      `json:"rssi_dbm"`
	Status     Status   `json:"status"`
}

var registry = []Node{
	{ID: "SN-4492-7B", MAC: "A4:CF:12:8E:4D:92", Protocol: ProtocolLoRaWAN, BatteryPct: 85, RSSIdBm: -67},
	{ID: "SN-4493-2C", MAC: "B2:1F:8A:3C:7E:44", Protocol: ProtocolLoRaWAN, BatteryPct: 91, RSSIdBm: -54},
	{ID: "SN-4494-9A", MAC: "C8:D4:5B:2F:1A:66", Protocol: ProtocolMQTTWiFi, BatteryPct: 78, RSSIdBm: -71},
	{ID: "SN-4495-1E", MAC: "D1:8C:4F:9B:3D:28", Protocol: ProtocolLoRaWAN, BatteryPct: 88, RSSIdBm: -62},
}

// Nodes returns the registry with status derived from the data source.
// Nodes are offline while the physical API is selected but not connected.
func Nodes(dataSource string, connected bool) []Node {
	status := StatusActive
	if dataSource == config.SourcePhysicalAPI && !connected {
		status = StatusOffline
	}
	out := make([]Node, len(registry))
	for i, n := range registry {
		n.Status = status
		out[i] = n
	}
	return out
}

// Standby reports whether the physical API has no nodes and the monitor
// falls back to simulated telemetry.
func Standby(dataSource string, connected bool) bool {
	return dataSource == config.SourcePhysicalAPI && !connected
}
