package monitor

// FrameWriter is an interface to support different output writers.
type FrameWriter interface {
	WriteFrame(Frame) error
}

// CommandWriter receives outbound command records. Writers implement it
// optionally.
type CommandWriter interface {
	WriteCommands([]CommandRecord) error
}

// Optional: writers can also accept frames in batches.
type batchFrameWriter interface {
	WriteFrames([]Frame) error
}

// Optional: writers may show whether the admin server is reachable.
type adminStatusWriter interface {
	SetAdminStatus(bool)
}

// SetAdminStatus forwards the admin indicator to writers that display it.
func SetAdminStatus(w FrameWriter, active bool) {
	if aw, ok := w.(adminStatusWriter); ok {
		aw.SetAdminStatus(active)
	}
}
