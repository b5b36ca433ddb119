package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:points"

	// 单次写入的超时上限
	opTimeout = 3 * time.Second
)

// PlayerStats 玩家生涯统计
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	TotalGames int `json:"total_games"` // 总局数
	Wins       int `json:"wins"`        // 夺冠次数（整局第一名）

	TotalPoints int `json:"total_points"` // 生涯累计积分
	BestScore   int `json:"best_score"`   // 单局最高积分

	CurrentStreak int `json:"current_streak"` // 当前连冠，夺冠 +1，否则清零
	MaxWinStreak  int `json:"max_win_streak"` // 历史最长连冠

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Points     int     `json:"points"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"` // 百分比
}

// Leaderboard 生涯统计与排行榜
type Leaderboard struct {
	redis *redis.Client
}

// NewLeaderboard 创建排行榜
func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{redis: client}
}

// GetPlayerStats 获取玩家统计，未找到返回 nil
func (lb *Leaderboard) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	data, err := lb.redis.Get(ctx, playerStatsKey+playerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlayerStats 保存玩家统计
func (lb *Leaderboard) SavePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lb.redis.Set(ctx, playerStatsKey+stats.PlayerID, data, 0).Err()
}

// getOrCreateStats 获取或创建玩家统计
func (lb *Leaderboard) getOrCreateStats(ctx context.Context, playerID, playerName string) (*PlayerStats, error) {
	stats, err := lb.GetPlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &PlayerStats{
			PlayerID:   playerID,
			PlayerName: playerName,
			CreatedAt:  time.Now().Unix(),
		}, nil
	}
	return stats, nil
}

// RecordGameResult 整局结束后记录一名玩家的战绩
// score 为该局累计积分，rank 为最终名次（1 起）
func (lb *Leaderboard) RecordGameResult(playerID, playerName string, score, rank, totalPlayers int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	stats, err := lb.getOrCreateStats(ctx, playerID, playerName)
	if err != nil {
		return err
	}

	stats.PlayerName = playerName
	stats.TotalGames++
	stats.TotalPoints += score
	stats.LastPlayedAt = time.Now().Unix()
	if score > stats.BestScore {
		stats.BestScore = score
	}

	if rank == 1 {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.MaxWinStreak {
			stats.MaxWinStreak = stats.CurrentStreak
		}
	} else {
		stats.CurrentStreak = 0
	}

	if err := lb.SavePlayerStats(ctx, stats); err != nil {
		return err
	}
	return lb.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.TotalPoints),
		Member: stats.PlayerID,
	}).Err()
}

// GetLeaderboard 按生涯积分从高到低返回前 limit 名
func (lb *Leaderboard) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := lb.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		playerID, _ := result.Member.(string)

		stats, err := lb.GetPlayerStats(ctx, playerID)
		if err != nil || stats == nil {
			continue
		}

		winRate := 0.0
		if stats.TotalGames > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalGames) * 100
		}

		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   playerID,
			PlayerName: stats.PlayerName,
			Points:     int(result.Score),
			Wins:       stats.Wins,
			WinRate:    winRate,
		})
	}
	return entries, nil
}

// GetPlayerRank 获取玩家总榜名次，未上榜返回 -1
func (lb *Leaderboard) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lb.redis.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
