package monitor

import "github.com/google/uuid"

// AlarmState is the one-shot alarm latch.
type AlarmState struct {
	Triggered     bool `json:"triggered"`
	AlreadyLogged bool `json:"already_logged"`
}

// Session holds everything a monitoring session mutates.
type Session struct {
	ID       string
	Alarm    AlarmState
	Commands []CommandRecord
	Buffer   *RollingBuffer
}

// NewSession creates a session. An empty id gets a random UUID.
func NewSession(id string, bufferSize int) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, Buffer: NewRollingBuffer(bufferSize)}
}

// Clear drops alarm, command log and buffer.
func (s *Session) Clear() {
	s.Alarm = AlarmState{}
	s.Commands = nil
	s.Buffer.Clear()
}

func (s *Session) latch() {
	s.Alarm = AlarmState{Triggered: true, AlreadyLogged: true}
}
