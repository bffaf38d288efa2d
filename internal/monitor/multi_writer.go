package monitor

import "errors"

// MultiWriter fans frames and command records out to multiple writers.
// Every writer is attempted; failures are joined.
type MultiWriter struct {
	writers []FrameWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...FrameWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteFrame sends a frame to all writers.
func (mw *MultiWriter) WriteFrame(f Frame) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteFrame(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteFrames sends multiple frames to all writers, using batch if supported.
func (mw *MultiWriter) WriteFrames(frames []Frame) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchFrameWriter); ok {
			if err := bw.WriteFrames(frames); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, f := range frames {
			if err := w.WriteFrame(f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WriteCommands sends command records to writers that accept them.
func (mw *MultiWriter) WriteCommands(rows []CommandRecord) error {
	var errs []error
	for _, w := range mw.writers {
		if cw, ok := w.(CommandWriter); ok {
			if err := cw.WriteCommands(rows); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin indicator.
func (mw *MultiWriter) SetAdminStatus(active bool) {
	for _, w := range mw.writers {
		SetAdminStatus(w, active)
	}
}

// Close closes writers that hold resources.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if c, ok := w.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
