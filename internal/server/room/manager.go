package room

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wordarena/internal/apperrors"
	"wordarena/internal/config"
	"wordarena/internal/game"
	"wordarena/internal/protocol"
	"wordarena/internal/server/types"
)

const (
	// 房间号长度
	roomCodeLength = 6
	// 房间号字符集（短小、可手输）
	roomCodeChars = "0123456789"
)

// Manager 房间注册表
//
// 进程级单例，在服务启动时创建并注入，房间条目只能经由
// Manager 的操作插入和删除。不同房间互相独立，可并发处理。
type Manager struct {
	cfg   *config.GameConfig
	words []game.Word
	stats StatsRecorder // 可为 nil

	rooms map[string]*Room
	mu    sync.RWMutex

	stop chan struct{}
}

// NewManager 创建房间注册表并启动清理协程
func NewManager(cfg *config.GameConfig, wordList []game.Word, stats StatsRecorder) *Manager {
	m := &Manager{
		cfg:   cfg,
		words: wordList,
		stats: stats,
		rooms: make(map[string]*Room),
		stop:  make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Options 创建房间的可选参数
type Options struct {
	MaxPlayers int
	AnswerMode string
}

// Create 创建新房间并让创建者加入
func (m *Manager) Create(conn types.Conn, name string, opts Options) (*Room, *Player, error) {
	mode := game.AnswerMode(opts.AnswerMode)
	if opts.AnswerMode == "" {
		mode = game.ModeAdversarial
	}
	if !mode.Valid() {
		return nil, nil, apperrors.ErrBadAnswerMode
	}

	maxPlayers := opts.MaxPlayers
	if maxPlayers <= 1 {
		maxPlayers = m.cfg.DefaultMaxPlayers
	}

	m.mu.Lock()
	code := m.generateRoomCode()
	now := time.Now()
	r := &Room{
		Code:         code,
		AnswerMode:   mode,
		MaxPlayers:   maxPlayers,
		State:        StateWaiting,
		Players:      make(map[string]*Player),
		connIndex:    make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
		maxGuesses:   m.cfg.MaxGuesses,
		maxRounds:    m.cfg.MaxRounds,
		policy:       PolicyByName(m.cfg.AdvancePolicy),
		words:        m.words,
		stats:        m.stats,
	}
	m.rooms[code] = r
	m.mu.Unlock()

	log.Info().Str("room", code).Str("mode", string(mode)).Int("max_players", maxPlayers).Msg("🏠 房间已创建")

	p, err := r.Join(conn, name)
	if err != nil {
		// 刚创建的空房间加入不会失败，防御性清理
		m.mu.Lock()
		delete(m.rooms, code)
		m.mu.Unlock()
		return nil, nil, err
	}
	return r, p, nil
}

// Join 加入既有房间
func (m *Manager) Join(conn types.Conn, code, name string) (*Room, *Player, error) {
	r := m.Get(code)
	if r == nil {
		return nil, nil, apperrors.ErrRoomNotFound
	}
	p, err := r.Join(conn, name)
	if err != nil {
		return nil, nil, err
	}
	return r, p, nil
}

// Reconnect 重连到既有房间
func (m *Manager) Reconnect(conn types.Conn, code, name string) (*Room, *Player, error) {
	r := m.Get(code)
	if r == nil {
		return nil, nil, apperrors.ErrRoomNotFound
	}
	p, err := r.Reconnect(conn, name)
	if err != nil {
		return nil, nil, err
	}
	return r, p, nil
}

// Leave 玩家主动退出，空房间随之删除
func (m *Manager) Leave(conn types.Conn) error {
	code := conn.GetRoom()
	if code == "" {
		return apperrors.ErrNotInRoom
	}
	r := m.Get(code)
	if r == nil {
		return apperrors.ErrRoomNotFound
	}

	empty, err := r.Leave(conn.GetID())
	if err != nil {
		return err
	}
	conn.SetRoom("")
	if empty {
		m.remove(code, "房间已空")
	}
	return nil
}

// Disconnect 连接断开时通知所属房间
func (m *Manager) Disconnect(conn types.Conn) {
	code := conn.GetRoom()
	if code == "" {
		return
	}
	if r := m.Get(code); r != nil {
		r.Disconnect(conn.GetID())
	}
}

// Get 获取房间
func (m *Manager) Get(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// ListWaiting 返回等待中房间的公开摘要（发现接口）
func (m *Manager) ListWaiting() []protocol.RoomSummary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	var out []protocol.RoomSummary
	for _, r := range rooms {
		if r.stateIs(StateWaiting) {
			out = append(out, r.Summary())
		}
	}
	return out
}

// Count 当前房间总数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Close 停止清理协程
func (m *Manager) Close() {
	close(m.stop)
}

// stateIs 加锁读取房间状态
func (r *Room) stateIs(s State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.State == s
}

// generateRoomCode 生成唯一房间号，冲突时重新生成
// 调用方需持有锁
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// sweepLoop 定期清理超时房间和掉线玩家
func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

// sweep 一次完整清扫
// 先清理各房间内的超时掉线玩家，再删除不可用的房间；
// 玩家清理与房间操作共用房间锁，不会交错
func (m *Manager) sweep() {
	m.mu.RLock()
	rooms := make(map[string]*Room, len(m.rooms))
	for code, r := range m.rooms {
		rooms[code] = r
	}
	m.mu.RUnlock()

	grace := m.cfg.OfflineGraceDuration()
	idle := m.cfg.RoomIdleTimeoutDuration()
	finished := m.cfg.RoomFinishedTimeoutDuration()
	now := time.Now()

	for code, r := range rooms {
		if r.SweepIdlePlayers(grace) {
			m.remove(code, "玩家全部离开")
			continue
		}

		r.mu.Lock()
		state := r.State
		last := r.LastActivity
		r.mu.Unlock()

		switch {
		case state == StateFinished && now.Sub(last) > finished:
			m.remove(code, "已结束房间超时")
		case now.Sub(last) > idle:
			r.mu.Lock()
			r.broadcast(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间长时间无活动，已关闭"))
			for _, p := range r.Players {
				if p.Conn != nil {
					p.Conn.SetRoom("")
				}
			}
			r.mu.Unlock()
			m.remove(code, "房间无活动超时")
		}
	}
}

// remove 从注册表删除房间
func (m *Manager) remove(code, reason string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	log.Info().Str("room", code).Str("reason", reason).Msg("🧹 房间已删除")
}
