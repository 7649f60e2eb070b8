package websocket

import (
	"errors"
	"sync"
	"time"
)

// mockConnection records writes and serves reads from a channel
type mockConnection struct {
	mu      sync.Mutex
	written []mockMessage
	reads   chan mockMessage
	closed  bool
}

type mockMessage struct {
	Type int
	Data []byte
}

func newMockConnection() *mockConnection {
	return &mockConnection{reads: make(chan mockMessage, 8)}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.written = append(m.written, mockMessage{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	msg, ok := <-m.reads
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return msg.Type, msg.Data, nil
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.reads)
	}
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error     { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error    { return nil }
func (m *mockConnection) SetReadLimit(int64)                  {}
func (m *mockConnection) SetPongHandler(func(string) error)   {}
func (m *mockConnection) RemoteAddr() string                  { return "127.0.0.1:9999" }

func (m *mockConnection) messages() []mockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockMessage(nil), m.written...)
}

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
