package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes one JSON record per point.
func WriteJSONL(w io.Writer, s Series) error {
	enc := json.NewEncoder(w)
	for _, p := range s.Points {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// ReadJSONL decodes points written by WriteJSONL. Points must be ordered
// by time.
func ReadJSONL(r io.Reader) (Series, error) {
	dec := json.NewDecoder(r)
	var s Series
	for {
		var p TelemetryPoint
		if err := dec.Decode(&p); err != nil {
			if err == io.EOF {
				return s, nil
			}
			return s, fmt.Errorf("record %d: %w", len(s.Points)+1, err)
		}
		if n := len(s.Points); n > 0 && p.TimeHours <= s.Points[n-1].TimeHours {
			return s, fmt.Errorf("record %d: time %.4f not after %.4f", n+1, p.TimeHours, s.Points[n-1].TimeHours)
		}
		s.Points = append(s.Points, p)
	}
}

// ReadJSONLFile opens path and decodes its points.
func ReadJSONLFile(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()
	return ReadJSONL(f)
}
