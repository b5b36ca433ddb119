package room

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordarena/internal/apperrors"
	"wordarena/internal/game"
	"wordarena/internal/protocol"
)

func testWords() []game.Word {
	raw := []string{"HELLO", "WORLD", "QUITE", "FANCY", "SHOUT", "SOUTH", "CRANE", "SLATE"}
	out := make([]game.Word, len(raw))
	for i, s := range raw {
		out[i] = game.MustWord(s)
	}
	return out
}

func newTestRoom(mode game.AnswerMode) *Room {
	now := time.Now()
	return &Room{
		Code:         "123456",
		AnswerMode:   mode,
		MaxPlayers:   4,
		State:        StateWaiting,
		Players:      make(map[string]*Player),
		connIndex:    make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
		maxGuesses:   6,
		maxRounds:    2,
		policy:       AutoAdvance{},
		words:        testWords(),
	}
}

// joinTwo adds two players and returns their connections.
func joinTwo(t *testing.T, r *Room) (*MockConn, *MockConn) {
	t.Helper()
	c1 := NewMockConn("c1")
	c2 := NewMockConn("c2")
	_, err := r.Join(c1, "Alice")
	require.NoError(t, err)
	_, err = r.Join(c2, "Bob")
	require.NoError(t, err)
	return c1, c2
}

func TestRoom_Join_FirstPlayerIsHost(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, _ := joinTwo(t, r)

	p, err := r.playerByConnLocked(c1.GetID())
	require.NoError(t, err)
	assert.True(t, p.IsHost)
	assert.Equal(t, "123456", c1.GetRoom())
}

func TestRoom_Join_Full(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	r.MaxPlayers = 2
	joinTwo(t, r)

	_, err := r.Join(NewMockConn("c3"), "Carol")
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestRoom_Join_RejectedWhilePlaying(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, _ := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	_, err := r.Join(NewMockConn("c3"), "Carol")
	assert.ErrorIs(t, err, apperrors.ErrRoomInProgress)
}

func TestRoom_Start(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1 := NewMockConn("c1")
	_, err := r.Join(c1, "Alice")
	require.NoError(t, err)

	// Alone: not enough players
	assert.ErrorIs(t, r.Start(c1.GetID()), apperrors.ErrNotEnoughPlayers)

	c2 := NewMockConn("c2")
	_, err = r.Join(c2, "Bob")
	require.NoError(t, err)

	// Non-host cannot start
	assert.ErrorIs(t, r.Start(c2.GetID()), apperrors.ErrNotHost)

	require.NoError(t, r.Start(c1.GetID()))
	assert.Equal(t, StatePlaying, r.State)
	assert.Equal(t, 1, r.CurrentRound)

	// Starting twice fails
	assert.ErrorIs(t, r.Start(c1.GetID()), apperrors.ErrAlreadyStarted)
}

func TestRoom_Guess_BeforeStart(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, _ := joinTwo(t, r)

	_, err := r.Guess(c1.GetID(), "CRANE")
	assert.ErrorIs(t, err, apperrors.ErrNotPlaying)
}

func TestRoom_Guess_WinAwardsPoints(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, _ := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	answer := r.currentAnswer()
	res, err := r.Guess(c1.GetID(), string(answer))
	require.NoError(t, err)
	assert.Equal(t, game.StatusWin, res.Status)

	p, err := r.playerByConnLocked(c1.GetID())
	require.NoError(t, err)
	// First-guess win: (6-1)*10 + 10
	assert.Equal(t, 60, p.Score)
	assert.Equal(t, StatusFinished, p.Status)
}

func TestRoom_Guess_AfterFinishingRound(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, _ := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	answer := r.currentAnswer()
	_, err := r.Guess(c1.GetID(), string(answer))
	require.NoError(t, err)

	// Round is still waiting on the other player
	_, err = r.Guess(c1.GetID(), "CRANE")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFinished)

	p, perr := r.playerByConnLocked(c1.GetID())
	require.NoError(t, perr)
	assert.Equal(t, 1, p.GuessCount(), "rejected guess is not recorded")
}

func TestRoom_RoundAdvancesWhenAllFinish(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	answer := r.currentAnswer()
	_, err := r.Guess(c1.GetID(), string(answer))
	require.NoError(t, err)
	assert.Equal(t, 1, r.snapshotRound(), "round holds until everyone finishes")

	_, err = r.Guess(c2.GetID(), string(answer))
	require.NoError(t, err)

	// Both finished, auto policy moves to round 2 with fresh sessions
	assert.Equal(t, 2, r.snapshotRound())
	p1, _ := r.playerByConnLocked(c1.GetID())
	assert.Equal(t, StatusPlaying, p1.Status)
	assert.Zero(t, p1.GuessCount(), "new round starts with an empty grid")
	assert.Equal(t, 60, p1.Score, "accumulated score survives the round boundary")
}

func TestRoom_GameOverAfterLastRound(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	r.maxRounds = 1
	c1, c2 := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	answer := r.currentAnswer()
	_, err := r.Guess(c1.GetID(), string(answer))
	require.NoError(t, err)
	_, err = r.Guess(c2.GetID(), string(answer))
	require.NoError(t, err)

	assert.Equal(t, StateFinished, r.snapshotState())

	msg := c1.LastOfType(protocol.MsgGameOver)
	require.NotNil(t, msg)
	var payload protocol.GameOverPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Len(t, payload.Ranking, 2)
	assert.Equal(t, 1, payload.Ranking[0].Rank)
	// Same score: join order breaks the tie
	assert.Equal(t, "Alice", payload.Ranking[0].PlayerName)
}

func TestRoom_DisconnectAndReconnect(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	_, err := r.Guess(c2.GetID(), "SLATE")
	require.NoError(t, err)

	p2, err := r.playerByConnLocked(c2.GetID())
	require.NoError(t, err)
	persistentID := p2.ID
	scoreBefore := p2.Score

	r.Disconnect(c2.GetID())
	assert.Len(t, r.Players, 2, "disconnect keeps the player")
	assert.Equal(t, StatusDisconnected, p2.Status)

	// Offline notification reaches the remaining player
	assert.NotNil(t, c1.LastOfType(protocol.MsgPlayerOffline))

	c3 := NewMockConn("c3")
	got, err := r.Reconnect(c3, "Bob")
	require.NoError(t, err)
	assert.Equal(t, persistentID, got.ID, "identity survives reconnection")
	assert.Equal(t, scoreBefore, got.Score)
	assert.Equal(t, 1, got.GuessCount(), "in-round progress survives")
	assert.Equal(t, StatusPlaying, got.Status)
	assert.Equal(t, "123456", c3.GetRoom())
}

func TestRoom_Reconnect_IdentityErrors(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	joinTwo(t, r)

	// Unknown name
	_, err := r.Reconnect(NewMockConn("cx"), "Mallory")
	assert.ErrorIs(t, err, apperrors.ErrPlayerNotFound)

	// Still online
	_, err = r.Reconnect(NewMockConn("cx"), "Bob")
	assert.ErrorIs(t, err, apperrors.ErrPlayerOnline)

	// Ambiguous: two offline players with the same name
	c3 := NewMockConn("c3")
	_, err = r.Join(c3, "Bob")
	require.NoError(t, err)
	r.Disconnect("c2")
	r.Disconnect("c3")
	_, err = r.Reconnect(NewMockConn("cx"), "Bob")
	assert.ErrorIs(t, err, apperrors.ErrPlayerAmbiguous)
}

func TestRoom_Reconnect_AcrossRoundBoundary(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	r.Disconnect(c2.GetID())

	// Remaining player finishes; auto policy advances to round 2
	answer := r.currentAnswer()
	_, err := r.Guess(c1.GetID(), string(answer))
	require.NoError(t, err)
	require.Equal(t, 2, r.snapshotRound())

	// Reconnecting player gets a fresh session for the current round
	c3 := NewMockConn("c3")
	got, err := r.Reconnect(c3, "Bob")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, got.Status)
	assert.Zero(t, got.GuessCount())

	_, err = r.Guess(c3.GetID(), "SLATE")
	assert.NoError(t, err)
}

func TestRoom_HostMigration(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)

	r.Disconnect(c1.GetID())

	p2, err := r.playerByConnLocked(c2.GetID())
	require.NoError(t, err)
	assert.True(t, p2.IsHost, "host moves to the first online player by join order")
}

func TestRoom_HostRestoredAfterFullDisconnect(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)

	// Everyone drops; nobody is left to hold the host role
	r.Disconnect(c1.GetID())
	r.Disconnect(c2.GetID())

	p1, err := r.Reconnect(NewMockConn("c3"), "Alice")
	require.NoError(t, err)
	assert.True(t, p1.IsHost, "first player back takes over as host")

	p2, err := r.Reconnect(NewMockConn("c4"), "Bob")
	require.NoError(t, err)
	assert.False(t, p2.IsHost)

	// The restored host can start the round
	require.NoError(t, r.Start("c3"))
	assert.Equal(t, StatePlaying, r.snapshotState())
}

func TestRoom_HostAssignedToJoinerOfOrphanedRoom(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)
	r.Disconnect(c1.GetID())
	r.Disconnect(c2.GetID())

	p3, err := r.Join(NewMockConn("c3"), "Carol")
	require.NoError(t, err)
	assert.True(t, p3.IsHost, "joining an all-offline room grants host")
}

func TestRoom_Leave_IsPermanent(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	c1, c2 := joinTwo(t, r)

	empty, err := r.Leave(c2.GetID())
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Len(t, r.Players, 1)

	// The departed name is free again
	_, err = r.Reconnect(NewMockConn("cx"), "Bob")
	assert.ErrorIs(t, err, apperrors.ErrPlayerNotFound)

	empty, err = r.Leave(c1.GetID())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestRoom_SweepIdlePlayers(t *testing.T) {
	r := newTestRoom(game.ModeFixed)
	_, c2 := joinTwo(t, r)

	r.Disconnect(c2.GetID())

	// Within grace: kept
	assert.False(t, r.SweepIdlePlayers(time.Hour))
	assert.Len(t, r.Players, 2)

	// Backdate the disconnect past the grace period
	r.mu.Lock()
	for _, p := range r.Players {
		if p.Status == StatusDisconnected {
			p.LastSeen = time.Now().Add(-2 * time.Hour)
		}
	}
	r.mu.Unlock()

	assert.False(t, r.SweepIdlePlayers(time.Hour))
	assert.Len(t, r.Players, 1)
}

func TestRoom_Snapshot_PersonalizedView(t *testing.T) {
	r := newTestRoom(game.ModeAdversarial)
	c1, _ := joinTwo(t, r)
	require.NoError(t, r.Start(c1.GetID()))

	_, err := r.Guess(c1.GetID(), "HELLO")
	require.NoError(t, err)

	p1, _ := r.playerByConnLocked(c1.GetID())
	snap := r.Snapshot(p1.ID)
	require.NotNil(t, snap.You)
	assert.Equal(t, p1.ID, snap.You.PlayerID)
	assert.Len(t, snap.You.Guesses, 1)
	assert.Empty(t, snap.You.Answer, "answer hidden while in progress")

	// Public player list shows guess counts but no guesses
	for _, info := range snap.Players {
		if info.ID == p1.ID {
			assert.Equal(t, 1, info.GuessCount)
		}
	}
}

// --- test helpers ---

func (r *Room) playerByConnLocked(connID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerByConn(connID)
}

func (r *Room) currentAnswer() game.Word {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answerCtx.Answer
}

func (r *Room) snapshotRound() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.CurrentRound
}

func (r *Room) snapshotState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.State
}
