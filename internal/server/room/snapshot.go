package room

import (
	"wordarena/internal/game"
	"wordarena/internal/protocol"
)

// Snapshot 构建发给指定玩家的房间快照
// 公共字段对所有人一致，You 部分只包含接收者自己的猜测历史；
// 答案和剩余候选只在接收者的会话终局后揭示
func (r *Room) Snapshot(viewerID string) *protocol.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(viewerID)
}

// snapshotLocked 调用方需持有锁
func (r *Room) snapshotLocked(viewerID string) *protocol.RoomSnapshot {
	snap := &protocol.RoomSnapshot{
		RoomCode:     r.Code,
		State:        string(r.State),
		AnswerMode:   string(r.AnswerMode),
		CurrentRound: r.CurrentRound,
		MaxRounds:    r.maxRounds,
		MaxPlayers:   r.MaxPlayers,
	}

	snap.Players = make([]protocol.PlayerInfo, 0, len(r.Players))
	for _, id := range r.joinOrder {
		p, ok := r.Players[id]
		if !ok {
			continue
		}
		snap.Players = append(snap.Players, protocol.PlayerInfo{
			ID:         p.ID,
			Name:       p.Name,
			Status:     string(p.Status),
			IsHost:     p.IsHost,
			Online:     p.Online(),
			Score:      p.Score,
			GuessCount: p.GuessCount(),
		})
	}

	if viewer, ok := r.Players[viewerID]; ok {
		snap.You = r.selfState(viewer)
	}
	return snap
}

// selfState 构建玩家私有视图
// 调用方需持有锁
func (r *Room) selfState(p *Player) *protocol.SelfState {
	self := &protocol.SelfState{
		PlayerID: p.ID,
		Status:   string(game.StatusInProgress),
	}
	if p.session == nil {
		return self
	}

	self.Status = string(p.session.Status())
	self.RoundsLeft = p.session.RoundsLeft()
	for _, g := range p.session.Guesses() {
		self.Guesses = append(self.Guesses, protocol.GuessRecord{
			Word:     string(g.Word),
			Feedback: g.Feedback.Strings(),
		})
	}
	if p.session.Status() != game.StatusInProgress {
		self.Answer = string(p.session.Answer())
		for _, c := range p.session.Candidates() {
			self.Candidates = append(self.Candidates, string(c))
		}
	}
	return self
}

// broadcastState 给每个在线玩家推送按其个性化的快照
// 每次成功变更后调用；调用方需持有锁
func (r *Room) broadcastState() {
	for _, p := range r.Players {
		if p.Conn == nil {
			continue
		}
		p.Conn.SendMessage(protocol.MustNewMessage(protocol.MsgRoomState, r.snapshotLocked(p.ID)))
	}
}

// Summary 房间公开摘要（发现接口用）
func (r *Room) Summary() protocol.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return protocol.RoomSummary{
		RoomCode:    r.Code,
		AnswerMode:  string(r.AnswerMode),
		PlayerCount: len(r.Players),
		MaxPlayers:  r.MaxPlayers,
		CreatedAt:   r.CreatedAt.Unix(),
	}
}
