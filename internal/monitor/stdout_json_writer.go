package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONStdoutWriter prints frames and command records as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteFrame outputs a frame in JSON format.
func (w *JSONStdoutWriter) WriteFrame(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteFrames outputs multiple frames in JSON format.
func (w *JSONStdoutWriter) WriteFrames(frames []Frame) error {
	for _, f := range frames {
		if err := w.WriteFrame(f); err != nil {
			return err
		}
	}
	return nil
}

// WriteCommands outputs command records in JSON format.
func (w *JSONStdoutWriter) WriteCommands(rows []CommandRecord) error {
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(w.out, string(data))
	}
	return nil
}
