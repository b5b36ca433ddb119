package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard(t *testing.T) *Leaderboard {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLeaderboard(client)
}

func TestRecordGameResult_NewPlayer(t *testing.T) {
	lb := newTestLeaderboard(t)

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 120, 1, 4))

	stats, err := lb.GetPlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "Alice", stats.PlayerName)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 120, stats.TotalPoints)
	assert.Equal(t, 120, stats.BestScore)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.MaxWinStreak)
	assert.NotZero(t, stats.CreatedAt)
	assert.NotZero(t, stats.LastPlayedAt)
}

func TestRecordGameResult_Accumulates(t *testing.T) {
	lb := newTestLeaderboard(t)

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 100, 1, 2))
	require.NoError(t, lb.RecordGameResult("p1", "Alice", 60, 2, 2))

	stats, err := lb.GetPlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 160, stats.TotalPoints)
	assert.Equal(t, 100, stats.BestScore, "best score keeps the higher single game")
}

func TestRecordGameResult_WinStreak(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 50, 1, 3))
	require.NoError(t, lb.RecordGameResult("p1", "Alice", 50, 1, 3))
	require.NoError(t, lb.RecordGameResult("p1", "Alice", 50, 1, 3))

	stats, err := lb.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxWinStreak)

	// Losing ends the streak but keeps the record
	require.NoError(t, lb.RecordGameResult("p1", "Alice", 50, 2, 3))
	stats, err = lb.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxWinStreak)
}

func TestRecordGameResult_RenameFollowsLatest(t *testing.T) {
	lb := newTestLeaderboard(t)

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 10, 2, 2))
	require.NoError(t, lb.RecordGameResult("p1", "Alicia", 10, 2, 2))

	stats, err := lb.GetPlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stats.PlayerName)
}

func TestGetPlayerStats_NotFound(t *testing.T) {
	lb := newTestLeaderboard(t)

	stats, err := lb.GetPlayerStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestGetLeaderboard_Ordering(t *testing.T) {
	lb := newTestLeaderboard(t)

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 100, 1, 3))
	require.NoError(t, lb.RecordGameResult("p2", "Bob", 300, 1, 3))
	require.NoError(t, lb.RecordGameResult("p3", "Carol", 200, 2, 3))

	entries, err := lb.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Bob", entries[0].PlayerName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 300, entries[0].Points)
	assert.Equal(t, "Carol", entries[1].PlayerName)
	assert.Equal(t, "Alice", entries[2].PlayerName)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestGetLeaderboard_LimitAndWinRate(t *testing.T) {
	lb := newTestLeaderboard(t)

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 100, 1, 2))
	require.NoError(t, lb.RecordGameResult("p1", "Alice", 100, 2, 2))
	require.NoError(t, lb.RecordGameResult("p2", "Bob", 50, 2, 2))

	entries, err := lb.GetLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].PlayerName)
	assert.InDelta(t, 50.0, entries[0].WinRate, 0.01)
}

func TestGetPlayerRank(t *testing.T) {
	lb := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.RecordGameResult("p1", "Alice", 100, 1, 2))
	require.NoError(t, lb.RecordGameResult("p2", "Bob", 200, 1, 2))

	rank, err := lb.GetPlayerRank(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	rank, err = lb.GetPlayerRank(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lb.GetPlayerRank(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)
}
