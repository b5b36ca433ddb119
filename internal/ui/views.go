package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wordarena/internal/protocol"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.phase {
	case PhaseConnecting:
		content = m.connectingView()
	case PhaseLobby:
		content = m.lobbyView()
	case PhaseRoomList:
		content = m.roomListView()
	case PhaseRoom:
		content = m.roomView()
	case PhaseGameOver:
		content = m.gameOverView()
	}

	return docStyle.Render(content)
}

func (m *Model) connectingView() string {
	if m.error != "" {
		return errorStyle.Render(m.error)
	}
	return "正在连接服务器..."
}

// statusLine renders the footer: error, reconnect state, latency.
func (m *Model) statusLine() string {
	var parts []string
	if m.reconnectMessage != "" {
		parts = append(parts, m.reconnectMessage)
	}
	if m.error != "" {
		parts = append(parts, errorStyle.Render(m.error))
	}
	if m.client.Latency > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("延迟 %dms", m.client.Latency)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n" + strings.Join(parts, "  ")
}

func (m *Model) lobbyView() string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle("🔤 WordArena 多人猜词")))
	sb.WriteString("\n\n")

	if m.playerName != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, fmt.Sprintf("欢迎, %s!", m.playerName)))
		sb.WriteString("\n")
	}

	menu := boxStyle.Render(strings.Join([]string{
		"1. 创建房间",
		"2. 房间列表",
		"",
		"或直接输入 6 位房间号加入",
	}, "\n"))
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menu))

	sb.WriteString(promptStyle.Render("\n" + m.input.View()))
	sb.WriteString(m.statusLine())
	sb.WriteString(dimStyle.Render("\n\nESC 退出"))
	return sb.String()
}

func (m *Model) roomListView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle("🏠 可加入的房间"))
	sb.WriteString("\n\n")

	if len(m.rooms) == 0 {
		sb.WriteString(dimStyle.Render("暂时没有等待中的房间，回车刷新或输入房间号\n"))
	}
	for i, r := range m.rooms {
		cursor := "  "
		if i == m.selectedRoom {
			cursor = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%s  %d/%d 人  模式: %s\n",
			cursor, r.RoomCode, r.PlayerCount, r.MaxPlayers, answerModeLabel(r.AnswerMode)))
	}

	sb.WriteString(promptStyle.Render("\n" + m.input.View()))
	sb.WriteString(m.statusLine())
	sb.WriteString(dimStyle.Render("\n\n↑/↓ 选择  Enter 加入  ESC 返回"))
	return sb.String()
}

func (m *Model) roomView() string {
	snap := m.snapshot
	if snap == nil {
		return "正在进入房间..."
	}

	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s", snap.RoomCode)))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  模式: %s", answerModeLabel(snap.AnswerMode))))
	if snap.State == "playing" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  回合 %d/%d", snap.CurrentRound, snap.MaxRounds)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.playersView(snap))
	sb.WriteString("\n")

	switch snap.State {
	case "waiting":
		if m.isHost() {
			sb.WriteString("输入 s 开始游戏（至少 2 名在线玩家）\n")
		} else {
			sb.WriteString("等待房主开始...\n")
		}
	case "playing":
		sb.WriteString(m.boardView(snap))
	}

	sb.WriteString(promptStyle.Render("\n" + m.input.View()))
	sb.WriteString(m.statusLine())
	sb.WriteString(dimStyle.Render("\n\n输入 quit 退出房间"))
	return sb.String()
}

// playersView lists every player with status, score and host mark.
func (m *Model) playersView(snap *protocol.RoomSnapshot) string {
	var lines []string
	for _, p := range snap.Players {
		icon := OnlineIcon
		if !p.Online {
			icon = OfflineIcon
		}
		host := ""
		if p.IsHost {
			host = " " + HostIcon
		}
		you := ""
		if snap.You != nil && p.ID == snap.You.PlayerID {
			you = dimStyle.Render(" (你)")
		}
		lines = append(lines, fmt.Sprintf("%s %s%s%s  %s  %d 分",
			icon, p.Name, host, you, statusLabel(p.Status), p.Score))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// boardView renders the viewer's guess grid for the current round.
func (m *Model) boardView(snap *protocol.RoomSnapshot) string {
	if snap.You == nil {
		return ""
	}

	var sb strings.Builder
	for _, g := range snap.You.Guesses {
		var row []string
		for i, mark := range g.Feedback {
			row = append(row, renderTile(string(g.Word[i]), mark))
		}
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}

	switch snap.You.Status {
	case "win":
		sb.WriteString("\n🏆 猜中了！等待其他玩家...\n")
		sb.WriteString("输入 r 准备进入下一回合\n")
	case "lose":
		if snap.You.Answer != "" {
			sb.WriteString(fmt.Sprintf("\n💀 没猜中，答案是 %s\n", snap.You.Answer))
		} else {
			sb.WriteString("\n💀 没猜中\n")
		}
		sb.WriteString("输入 r 准备进入下一回合\n")
	default:
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n剩余猜测次数: %d\n", snap.You.RoundsLeft)))
	}
	return sb.String()
}

func (m *Model) gameOverView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏁 最终排名"))
	sb.WriteString("\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	var lines []string
	for _, e := range m.ranking {
		medal := "  "
		if e.Rank-1 < len(medals) {
			medal = medals[e.Rank-1]
		}
		you := ""
		if e.PlayerID == m.client.PlayerID {
			you = dimStyle.Render(" (你)")
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s%s  %d 分", medal, e.Rank, e.PlayerName, you, e.Score))
	}
	sb.WriteString(boxStyle.Render(strings.Join(lines, "\n")))

	sb.WriteString(m.statusLine())
	sb.WriteString(dimStyle.Render("\n\nEnter 返回大厅"))
	return sb.String()
}

func answerModeLabel(mode string) string {
	if mode == "adversarial" {
		return "对抗"
	}
	return "固定"
}

func statusLabel(status string) string {
	switch status {
	case "ready":
		return "就绪"
	case "playing":
		return "猜词中"
	case "finished":
		return "已完成"
	case "disconnected":
		return "掉线"
	}
	return status
}
