package room

// AdvancePolicy 回合推进策略
//
// 回合结束（所有在线玩家都已完成）后，由策略决定是否立即
// 推进到下一回合。两种策略可以通过配置互换。
type AdvancePolicy interface {
	Name() string
	// ShouldAdvance 在回合结束后被调用，调用时已持有房间锁
	ShouldAdvance(r *Room) bool
}

// AutoAdvance 自动推进：所有人完成即进入下一回合
type AutoAdvance struct{}

func (AutoAdvance) Name() string { return "auto" }

func (AutoAdvance) ShouldAdvance(_ *Room) bool { return true }

// ReadyGate 协作推进：除了完成，还要求每个在线玩家都
// 显式标记了"准备下一回合"
type ReadyGate struct{}

func (ReadyGate) Name() string { return "ready" }

func (ReadyGate) ShouldAdvance(r *Room) bool {
	for _, p := range r.Players {
		if p.Status == StatusDisconnected {
			continue
		}
		if !p.ReadyNext {
			return false
		}
	}
	return true
}

// PolicyByName 按配置名选择策略，未知名称退回自动推进
func PolicyByName(name string) AdvancePolicy {
	if name == "ready" {
		return ReadyGate{}
	}
	return AutoAdvance{}
}
