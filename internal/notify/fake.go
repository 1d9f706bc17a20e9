package notify

import "context"

// RecordingTransport is an in-memory MailTransport for tests. It records
// every transmitted message and can be told to fail at a given send.
type RecordingTransport struct {
	Sent [][]byte

	// OpenErr fails every Open when set.
	OpenErr error
	// FailAt fails the Nth transmit (1-based) with TransmitErr.
	FailAt      int
	TransmitErr error

	opened int
	closed int
}

func (t *RecordingTransport) Open(ctx context.Context) (Session, error) {
	if t.OpenErr != nil {
		return nil, t.OpenErr
	}
	t.opened++
	return &recordingSession{transport: t}, nil
}

// OpenSessions returns how many sessions were opened but not yet closed.
func (t *RecordingTransport) OpenSessions() int {
	return t.opened - t.closed
}

type recordingSession struct {
	transport *RecordingTransport
}

func (s *recordingSession) Transmit(data []byte) error {
	t := s.transport
	if t.FailAt > 0 && len(t.Sent)+1 == t.FailAt {
		return t.TransmitErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	t.Sent = append(t.Sent, stored)
	return nil
}

func (s *recordingSession) Close() error {
	s.transport.closed++
	return nil
}
