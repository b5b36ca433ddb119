package room

import (
	"sync"

	"wordarena/internal/protocol"
)

// MockConn is a test double for types.Conn recording sent messages.
type MockConn struct {
	id string

	mu       sync.Mutex
	roomCode string
	messages []*protocol.Message
	closed   bool
}

func NewMockConn(id string) *MockConn {
	return &MockConn{id: id}
}

func (m *MockConn) GetID() string { return m.id }

func (m *MockConn) GetRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomCode
}

func (m *MockConn) SetRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roomCode = code
}

func (m *MockConn) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockConn) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Messages returns a copy of everything sent to this connection.
func (m *MockConn) Messages() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*protocol.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// LastOfType returns the most recent message of the given type, or nil.
func (m *MockConn) LastOfType(t protocol.MessageType) *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Type == t {
			return m.messages[i]
		}
	}
	return nil
}
