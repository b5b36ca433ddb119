package room

import (
	"time"

	"wordarena/internal/game"
	"wordarena/internal/server/types"
)

// PlayerStatus 玩家状态
type PlayerStatus string

const (
	StatusReady        PlayerStatus = "ready"        // 等待回合开始
	StatusPlaying      PlayerStatus = "playing"      // 回合进行中
	StatusFinished     PlayerStatus = "finished"     // 本回合已完成（胜或负）
	StatusDisconnected PlayerStatus = "disconnected" // 掉线，等待重连或被清理
)

// Player 房间中的玩家
//
// ID 是持久身份，重连后保持不变；Conn 是临时连接，
// 掉线时置空，重连时重新绑定。
type Player struct {
	ID        string // 持久 ID（uuid）
	Name      string // 昵称
	Conn      types.Conn
	Status    PlayerStatus
	IsHost    bool
	Score     int  // 累计积分
	ReadyNext bool // 已准备进入下一回合

	JoinedAt time.Time
	LastSeen time.Time // 掉线时刻，在线时无意义

	session *game.Session // 本回合会话，回合推进时重建
}

// Online 判断玩家是否在线
func (p *Player) Online() bool {
	return p.Conn != nil
}

// GuessCount 返回本回合已用猜测数
func (p *Player) GuessCount() int {
	if p.session == nil {
		return 0
	}
	return p.session.GuessCount()
}
