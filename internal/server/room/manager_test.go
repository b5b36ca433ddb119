package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordarena/internal/apperrors"
	"wordarena/internal/config"
)

func newTestManager() *Manager {
	cfg := config.Default()
	m := NewManager(&cfg.Game, testWords(), nil)
	return m
}

func TestManager_CreateAndJoin(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, p, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)
	assert.Len(t, r.Code, roomCodeLength)
	assert.True(t, p.IsHost)
	assert.Equal(t, r.Code, c1.GetRoom())
	assert.Equal(t, 1, m.Count())

	c2 := NewMockConn("c2")
	r2, p2, err := m.Join(c2, r.Code, "Bob")
	require.NoError(t, err)
	assert.Same(t, r, r2)
	assert.False(t, p2.IsHost)
}

func TestManager_Create_Options(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	// Defaults: adversarial mode, configured max players
	r, _, err := m.Create(NewMockConn("c1"), "Alice", Options{})
	require.NoError(t, err)
	assert.Equal(t, "adversarial", string(r.AnswerMode))
	assert.Equal(t, 4, r.MaxPlayers)

	// Explicit options
	r2, _, err := m.Create(NewMockConn("c2"), "Bob", Options{MaxPlayers: 2, AnswerMode: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", string(r2.AnswerMode))
	assert.Equal(t, 2, r2.MaxPlayers)

	// Bad mode rejected
	_, _, err = m.Create(NewMockConn("c3"), "Carol", Options{AnswerMode: "psychic"})
	assert.ErrorIs(t, err, apperrors.ErrBadAnswerMode)
}

func TestManager_Join_UnknownRoom(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	_, _, err := m.Join(NewMockConn("c1"), "000000", "Alice")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestManager_RoomCodesAreUnique(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r, _, err := m.Create(NewMockConn(fmt.Sprintf("c%d", i)), "P", Options{})
		require.NoError(t, err)
		assert.False(t, seen[r.Code], "room code %s issued twice", r.Code)
		seen[r.Code] = true
	}
}

func TestManager_Leave_RemovesEmptyRoom(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, _, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)

	require.NoError(t, m.Leave(c1))
	assert.Equal(t, "", c1.GetRoom())
	assert.Nil(t, m.Get(r.Code))
	assert.Equal(t, 0, m.Count())
}

func TestManager_Leave_NotInRoom(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	assert.ErrorIs(t, m.Leave(NewMockConn("c1")), apperrors.ErrNotInRoom)
}

func TestManager_ListWaiting(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, _, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)

	list := m.ListWaiting()
	require.Len(t, list, 1)
	assert.Equal(t, r.Code, list[0].RoomCode)

	// A playing room disappears from discovery
	c2 := NewMockConn("c2")
	_, _, err = m.Join(c2, r.Code, "Bob")
	require.NoError(t, err)
	require.NoError(t, r.Start(c1.GetID()))
	assert.Empty(t, m.ListWaiting())
}

func TestManager_ListWaiting_IncludesFullRooms(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	r, _, err := m.Create(NewMockConn("c1"), "Alice", Options{MaxPlayers: 2})
	require.NoError(t, err)
	_, _, err = m.Join(NewMockConn("c2"), r.Code, "Bob")
	require.NoError(t, err)

	// Still waiting, so still visible even at capacity
	list := m.ListWaiting()
	require.Len(t, list, 1)
	assert.Equal(t, list[0].PlayerCount, list[0].MaxPlayers)
}

func TestManager_Reconnect_RoutesToRoom(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, _, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)
	_, _, err = m.Join(NewMockConn("c2"), r.Code, "Bob")
	require.NoError(t, err)

	m.Disconnect(c1)

	c3 := NewMockConn("c3")
	_, p, err := m.Reconnect(c3, r.Code, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, r.Code, c3.GetRoom())
}

func TestManager_Sweep_RemovesExpiredRooms(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, _, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)

	// Age the room past the idle timeout
	r.mu.Lock()
	r.LastActivity = time.Now().Add(-24 * time.Hour)
	r.mu.Unlock()

	m.sweep()
	assert.Nil(t, m.Get(r.Code))
	assert.Equal(t, "", c1.GetRoom())
}

func TestManager_Sweep_RemovesAbandonedRoom(t *testing.T) {
	m := newTestManager()
	defer m.Close()

	c1 := NewMockConn("c1")
	r, _, err := m.Create(c1, "Alice", Options{})
	require.NoError(t, err)

	// Sole player disconnects and overstays the grace period
	m.Disconnect(c1)
	r.mu.Lock()
	for _, p := range r.Players {
		p.LastSeen = time.Now().Add(-24 * time.Hour)
	}
	r.mu.Unlock()

	m.sweep()
	assert.Nil(t, m.Get(r.Code))
}
