package room

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wordarena/internal/apperrors"
	"wordarena/internal/game"
	"wordarena/internal/protocol"
	"wordarena/internal/server/types"
)

// State 房间状态
type State string

const (
	StateWaiting  State = "waiting"  // 等待玩家加入
	StatePlaying  State = "playing"  // 回合进行中
	StateFinished State = "finished" // 所有回合结束（终态）
)

// 积分规则：猜中用的次数越少得分越高，封顶轮保底 10 分
const (
	awardStep  = 10
	awardFloor = 10
)

// roundAward 计算一次获胜的积分（随已用猜测数严格递减）
func roundAward(guessesUsed, maxGuesses int) int {
	award := (maxGuesses-guessesUsed)*awardStep + awardFloor
	if award < awardFloor {
		return awardFloor
	}
	return award
}

// Room 游戏房间
//
// 所有操作都在 mu 保护下串行执行：加入、猜测、开始、
// 离开、重连和清理互不交错，同一房间内不存在竞态。
type Room struct {
	Code       string
	AnswerMode game.AnswerMode
	MaxPlayers int

	State        State
	CurrentRound int // 从 1 开始，0 表示未开始

	Players   map[string]*Player // 持久 ID -> 玩家
	joinOrder []string           // 按加入顺序，决定房主继任顺序
	connIndex map[string]string  // 连接 ID -> 持久 ID

	answerCtx *game.AnswerContext // 本回合共享答案上下文

	CreatedAt    time.Time
	LastActivity time.Time

	maxGuesses int
	maxRounds  int
	policy     AdvancePolicy
	words      []game.Word
	stats      StatsRecorder // 可为 nil

	mu sync.Mutex
}

// StatsRecorder 整局结束后记录玩家战绩
type StatsRecorder interface {
	RecordGameResult(playerID, playerName string, score, rank, totalPlayers int) error
}

// Join 加入房间
// 第一个加入的玩家成为房主；人数上限按全部玩家（含掉线者）计算
func (r *Room) Join(conn types.Conn, name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StateWaiting {
		return nil, apperrors.ErrRoomInProgress
	}
	if len(r.Players) >= r.MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}

	now := time.Now()
	p := &Player{
		ID:       uuid.New().String(),
		Name:     name,
		Conn:     conn,
		Status:   StatusReady,
		JoinedAt: now,
	}
	r.Players[p.ID] = p
	r.joinOrder = append(r.joinOrder, p.ID)
	r.connIndex[conn.GetID()] = p.ID
	conn.SetRoom(r.Code)
	r.LastActivity = now
	// 空房间的首位玩家成为房主；全员掉线的房间由新玩家补位
	r.ensureHost()

	log.Info().Str("room", r.Code).Str("player", p.Name).Bool("host", p.IsHost).Msg("👤 玩家加入房间")

	r.broadcastState()
	return p, nil
}

// Start 房主开始回合（WAITING → PLAYING）
func (r *Room) Start(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.playerByConn(connID)
	if err != nil {
		return err
	}
	if !p.IsHost {
		return apperrors.ErrNotHost
	}
	if r.State != StateWaiting {
		return apperrors.ErrAlreadyStarted
	}
	if r.connectedCount() < 2 {
		return apperrors.ErrNotEnoughPlayers
	}

	r.State = StatePlaying
	r.CurrentRound = 1
	r.beginRound()
	r.LastActivity = time.Now()

	log.Info().Str("room", r.Code).Int("round", r.CurrentRound).Msg("🎮 回合开始")

	r.broadcastState()
	return nil
}

// beginRound 创建本回合的共享答案上下文和各在线玩家的会话
// 调用方需持有锁
func (r *Room) beginRound() {
	if r.AnswerMode == game.ModeAdversarial {
		r.answerCtx = game.NewAdversarialContext(r.words)
	} else {
		r.answerCtx = game.NewFixedContext(r.randomAnswer())
	}

	for _, p := range r.Players {
		p.ReadyNext = false
		if p.Status == StatusDisconnected {
			p.session = nil // 重连时按当前回合懒创建
			continue
		}
		p.session = game.NewSession(r.answerCtx, r.maxGuesses)
		p.Status = StatusPlaying
	}
}

// Guess 处理一名玩家的猜测
func (r *Room) Guess(connID, raw string) (*game.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.playerByConn(connID)
	if err != nil {
		return nil, err
	}
	if r.State != StatePlaying || p.session == nil {
		return nil, apperrors.ErrNotPlaying
	}
	if p.Status == StatusFinished {
		return nil, apperrors.ErrAlreadyFinished
	}

	res, err := p.session.MakeGuess(raw)
	if err != nil {
		return nil, err // 校验失败或会话已终局，房间状态不变
	}

	r.LastActivity = time.Now()

	switch res.Status {
	case game.StatusWin:
		p.Score += roundAward(len(res.Guesses), r.maxGuesses)
		p.Status = StatusFinished
		log.Info().Str("room", r.Code).Str("player", p.Name).Int("guesses", len(res.Guesses)).Msg("🏆 玩家猜中")
	case game.StatusLose:
		p.Status = StatusFinished
		log.Info().Str("room", r.Code).Str("player", p.Name).Str("answer", string(res.Answer)).Msg("💀 玩家未猜中")
	}

	r.maybeAdvance()
	r.broadcastState()
	return res, nil
}

// ReadyNext 玩家标记准备进入下一回合
func (r *Room) ReadyNext(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.playerByConn(connID)
	if err != nil {
		return err
	}
	if r.State != StatePlaying {
		return apperrors.ErrNotPlaying
	}

	p.ReadyNext = true
	r.LastActivity = time.Now()

	r.maybeAdvance()
	r.broadcastState()
	return nil
}

// maybeAdvance 回合结束判定与推进
// 调用方需持有锁
func (r *Room) maybeAdvance() {
	if r.State != StatePlaying || !r.roundOver() {
		return
	}
	if !r.policy.ShouldAdvance(r) {
		return
	}

	if r.CurrentRound >= r.maxRounds {
		r.finishGame()
		return
	}

	r.CurrentRound++
	r.beginRound()
	log.Info().Str("room", r.Code).Int("round", r.CurrentRound).Msg("⏭️ 进入下一回合")
}

// roundOver 判断本回合是否结束：所有在线玩家都已完成
// 调用方需持有锁
func (r *Room) roundOver() bool {
	active := 0
	for _, p := range r.Players {
		if p.Status == StatusDisconnected {
			continue
		}
		active++
		if p.Status != StatusFinished {
			return false
		}
	}
	return active > 0
}

// finishGame 整局结束：生成最终排名并记录战绩
// 调用方需持有锁
func (r *Room) finishGame() {
	r.State = StateFinished

	ranking := r.ranking()
	r.broadcast(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		RoomCode: r.Code,
		Ranking:  ranking,
	}))

	log.Info().Str("room", r.Code).Int("players", len(ranking)).Msg("🏁 整局结束")

	if r.stats != nil {
		// 战绩写入不阻塞房间临界区
		entries := ranking
		total := len(entries)
		recorder := r.stats
		go func() {
			for _, e := range entries {
				if err := recorder.RecordGameResult(e.PlayerID, e.PlayerName, e.Score, e.Rank, total); err != nil {
					log.Warn().Err(err).Str("player", e.PlayerName).Msg("记录战绩失败")
				}
			}
		}()
	}
}

// ranking 按累计积分降序排名，同分按加入顺序
// 调用方需持有锁
func (r *Room) ranking() []protocol.RankEntry {
	order := make(map[string]int, len(r.joinOrder))
	for i, id := range r.joinOrder {
		order[id] = i
	}

	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return order[players[i].ID] < order[players[j].ID]
	})

	entries := make([]protocol.RankEntry, len(players))
	for i, p := range players {
		entries[i] = protocol.RankEntry{
			Rank:       i + 1,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      p.Score,
		}
	}
	return entries
}

// Disconnect 连接断开：保留玩家身份，等待重连
// 不是取消——断开时不存在进行中的猜测，已完成的猜测不受影响
func (r *Room) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, ok := r.connIndex[connID]
	if !ok {
		return
	}
	p := r.Players[playerID]

	delete(r.connIndex, connID)
	p.Conn = nil
	p.Status = StatusDisconnected
	p.LastSeen = time.Now()

	log.Info().Str("room", r.Code).Str("player", p.Name).Msg("📴 玩家掉线")

	if p.IsHost {
		r.migrateHost(p)
	}

	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))

	// 掉线可能让剩余玩家全部处于已完成状态
	r.maybeAdvance()
	r.broadcastState()
}

// Reconnect 按昵称重连
// 目标不存在、多名同名、或仍在线，分别返回不同的身份错误
func (r *Room) Reconnect(conn types.Conn, name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var match *Player
	count := 0
	for _, p := range r.Players {
		if p.Name == name {
			match = p
			count++
		}
	}
	switch {
	case count == 0:
		return nil, apperrors.ErrPlayerNotFound
	case count > 1:
		return nil, apperrors.ErrPlayerAmbiguous
	case match.Online():
		return nil, apperrors.ErrPlayerOnline
	}

	match.Conn = conn
	r.connIndex[conn.GetID()] = match.ID
	conn.SetRoom(r.Code)
	match.LastSeen = time.Time{}

	switch r.State {
	case StateWaiting:
		match.Status = StatusReady
	case StatePlaying:
		if match.session == nil {
			// 掉线跨越了回合推进，为当前回合懒创建会话
			match.session = game.NewSession(r.answerCtx, r.maxGuesses)
		}
		if match.session.Status() == game.StatusInProgress {
			match.Status = StatusPlaying
		} else {
			match.Status = StatusFinished
		}
	}
	r.LastActivity = time.Now()
	// 全员掉线会让房间暂时无主，回归的玩家按加入顺序补位
	r.ensureHost()

	log.Info().Str("room", r.Code).Str("player", match.Name).Msg("📶 玩家重连")

	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID:   match.ID,
		PlayerName: match.Name,
	}))
	r.broadcastState()
	return match, nil
}

// Leave 主动退出：与掉线不同，玩家和会话被永久移除
// 返回房间是否已空（由管理器负责删除房间）
func (r *Room) Leave(connID string) (empty bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, ok := r.connIndex[connID]
	if !ok {
		return false, apperrors.ErrNotInRoom
	}
	r.removePlayer(playerID)
	return len(r.Players) == 0, nil
}

// removePlayer 永久移除玩家，必要时移交房主
// 调用方需持有锁
func (r *Room) removePlayer(playerID string) {
	p, ok := r.Players[playerID]
	if !ok {
		return
	}

	if p.Conn != nil {
		delete(r.connIndex, p.Conn.GetID())
		p.Conn.SetRoom("")
	}
	delete(r.Players, playerID)
	for i, id := range r.joinOrder {
		if id == playerID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}

	log.Info().Str("room", r.Code).Str("player", p.Name).Msg("👋 玩家退出房间")

	if p.IsHost {
		r.migrateHost(p)
	}

	r.LastActivity = time.Now()

	if len(r.Players) > 0 {
		r.maybeAdvance()
		r.broadcastState()
	}
}

// migrateHost 把房主移交给按加入顺序第一个在线的玩家
// 全员掉线时房间暂时无主，待重连或新玩家加入时补位
// 调用方需持有锁
func (r *Room) migrateHost(old *Player) {
	old.IsHost = false
	r.ensureHost()
}

// ensureHost 保证只要有在线玩家就恰好有一名房主
// 调用方需持有锁
func (r *Room) ensureHost() {
	for _, p := range r.Players {
		if p.IsHost {
			return
		}
	}
	for _, id := range r.joinOrder {
		p, ok := r.Players[id]
		if ok && p.Online() {
			p.IsHost = true
			log.Info().Str("room", r.Code).Str("player", p.Name).Msg("👑 房主移交")
			return
		}
	}
}

// SweepIdlePlayers 永久移除掉线超过宽限期的玩家
// 与其他操作共用房间锁，不会与进行中的命令交错
func (r *Room) SweepIdlePlayers(grace time.Duration) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var expired []string
	for id, p := range r.Players {
		if p.Status == StatusDisconnected && now.Sub(p.LastSeen) > grace {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		log.Info().Str("room", r.Code).Str("player", r.Players[id].Name).Msg("🧹 清理超时掉线玩家")
		r.removePlayer(id)
	}
	return len(r.Players) == 0
}

// --- 辅助方法 ---

// playerByConn 按连接 ID 找到在线玩家
// 调用方需持有锁
func (r *Room) playerByConn(connID string) (*Player, error) {
	playerID, ok := r.connIndex[connID]
	if !ok {
		return nil, apperrors.ErrNotInRoom
	}
	return r.Players[playerID], nil
}

// connectedCount 在线玩家数
// 调用方需持有锁
func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Online() {
			n++
		}
	}
	return n
}

// randomAnswer 从词库取一个固定答案
// 调用方需持有锁
func (r *Room) randomAnswer() game.Word {
	return r.words[rand.IntN(len(r.words))]
}

// broadcast 给房间内所有在线玩家发送同一条消息
// 调用方需持有锁
func (r *Room) broadcast(msg *protocol.Message) {
	for _, p := range r.Players {
		if p.Conn != nil {
			p.Conn.SendMessage(msg)
		}
	}
}
