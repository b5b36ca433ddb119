package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"wordarena/internal/client"
	"wordarena/internal/protocol"
	"wordarena/internal/sound"
)

// GamePhase is the current screen of the client.
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhaseRoomList
	PhaseRoom // waiting / playing / finished, driven by the snapshot
	PhaseGameOver
)

// ServerMessage wraps a protocol message as a tea.Msg.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg signals the initial connection succeeded.
type ConnectedMsg struct{}

// ConnectionErrorMsg carries a connect or read failure.
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectingMsg reports an in-flight reconnect attempt.
type ReconnectingMsg struct {
	Attempt  int
	MaxTries int
}

// ReconnectSuccessMsg signals the reconnect handshake finished.
type ReconnectSuccessMsg struct{}

// ClearErrorMsg clears a transient error line.
type ClearErrorMsg struct{}

// Model is the top-level bubbletea model for the online client.
type Model struct {
	client *client.Client
	phase  GamePhase
	error  string

	playerName string

	// Latest room snapshot; nil until joined
	snapshot *protocol.RoomSnapshot

	// Room discovery
	rooms        []protocol.RoomSummary
	selectedRoom int

	// Final ranking, set on game over
	ranking []protocol.RankEntry

	// Reconnect state
	reconnecting     bool
	reconnectMessage string
	reconnectChan    chan tea.Msg

	soundManager *sound.SoundManager

	input  textinput.Model
	width  int
	height int
}

// NewModel creates the online client model. name may be empty, in which
// case the server assigns a nickname on join.
func NewModel(serverURL, name string) *Model {
	ti := textinput.New()
	ti.Placeholder = "1=创建房间  2=房间列表  或输入 6 位房间号"
	ti.CharLimit = 16
	ti.Width = 40
	ti.Focus()

	c := client.NewClient(serverURL)
	c.PlayerName = name
	reconnectChan := make(chan tea.Msg, 10)

	m := &Model{
		client:        c,
		phase:         PhaseConnecting,
		playerName:    name,
		input:         ti,
		reconnectChan: reconnectChan,
		soundManager:  sound.NewSoundManager(),
	}

	c.OnReconnecting = func(attempt, maxTries int) {
		select {
		case reconnectChan <- ReconnectingMsg{Attempt: attempt, MaxTries: maxTries}:
		default:
		}
	}
	c.OnReconnect = func() {
		select {
		case reconnectChan <- ReconnectSuccessMsg{}:
		default:
		}
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	go func() {
		_ = m.soundManager.Init()
	}()

	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
		m.listenForReconnect(),
	)
}

// connectToServer dials the server once at startup.
func (m *Model) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listenForMessages waits for the next server message.
func (m *Model) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// listenForReconnect forwards reconnect callbacks into the tea loop.
func (m *Model) listenForReconnect() tea.Cmd {
	return func() tea.Msg {
		return <-m.reconnectChan
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.client.StartHeartbeat()
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		if !m.client.IsReconnecting() {
			m.error = fmt.Sprintf("连接失败: %v\n\n按 ESC 退出", msg.Err)
		}

	case ReconnectingMsg:
		m.reconnecting = true
		m.reconnectMessage = fmt.Sprintf("🔄 正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries)
		cmds = append(cmds, m.listenForReconnect())

	case ReconnectSuccessMsg:
		m.reconnecting = false
		m.reconnectMessage = "✅ 重连成功！"
		cmds = append(cmds, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ClearErrorMsg{}
		}))
		cmds = append(cmds, m.listenForReconnect())
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case ClearErrorMsg:
		m.error = ""
		m.reconnectMessage = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleServerMessage applies a server message to the model state.
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomState:
		var snap protocol.RoomSnapshot
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			return nil
		}
		prevGuesses := m.guessCount()
		m.applySnapshot(&snap)
		if m.guessCount() > prevGuesses {
			m.soundManager.Play(sound.CueGuess)
		}

	case protocol.MsgRoomList:
		var payload protocol.RoomListPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil
		}
		m.rooms = payload.Rooms
		m.selectedRoom = 0

	case protocol.MsgGameOver:
		var payload protocol.GameOverPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil
		}
		m.ranking = payload.Ranking
		m.phase = PhaseGameOver
		m.soundManager.Play(sound.CueOver)

	case protocol.MsgError:
		var payload protocol.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil
		}
		m.error = payload.Message
		return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ClearErrorMsg{}
		})
	}
	return nil
}

// applySnapshot installs a room snapshot and moves to the room phase.
func (m *Model) applySnapshot(snap *protocol.RoomSnapshot) {
	prevStatus := ""
	if m.snapshot != nil && m.snapshot.You != nil {
		prevStatus = m.snapshot.You.Status
	}

	m.snapshot = snap
	m.client.RoomCode = snap.RoomCode
	if snap.You != nil {
		m.client.PlayerID = snap.You.PlayerID
	}
	if m.phase == PhaseLobby || m.phase == PhaseRoomList {
		m.phase = PhaseRoom
		m.input.Reset()
		m.input.Placeholder = "输入 5 字母猜测..."
	}

	// Round result cues
	if snap.You != nil && snap.You.Status != prevStatus {
		switch snap.You.Status {
		case "win":
			m.soundManager.Play(sound.CueWin)
		case "lose":
			m.soundManager.Play(sound.CueLose)
		}
	}
}

// guessCount returns the viewer's guess count in the current snapshot.
func (m *Model) guessCount() int {
	if m.snapshot == nil || m.snapshot.You == nil {
		return 0
	}
	return len(m.snapshot.You.Guesses)
}

// isHost reports whether the viewer is the room host.
func (m *Model) isHost() bool {
	if m.snapshot == nil || m.snapshot.You == nil {
		return false
	}
	for _, p := range m.snapshot.Players {
		if p.ID == m.snapshot.You.PlayerID {
			return p.IsHost
		}
	}
	return false
}

// handleKeyPress handles global keys; returns whether the key was consumed.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.client.Close()
		return true, tea.Quit

	case tea.KeyEsc:
		return m.handleEscKey()

	case tea.KeyUp:
		if m.phase == PhaseRoomList && m.selectedRoom > 0 {
			m.selectedRoom--
			return true, nil
		}

	case tea.KeyDown:
		if m.phase == PhaseRoomList && m.selectedRoom < len(m.rooms)-1 {
			m.selectedRoom++
			return true, nil
		}

	case tea.KeyEnter:
		return true, m.handleEnter()
	}
	return false, nil
}

// handleEscKey leaves the current screen, or quits from the lobby.
func (m *Model) handleEscKey() (bool, tea.Cmd) {
	switch m.phase {
	case PhaseRoomList:
		m.phase = PhaseLobby
		m.error = ""
		m.input.Reset()
		m.input.Placeholder = "1=创建房间  2=房间列表  或输入 6 位房间号"
		return true, nil
	case PhaseRoom:
		// Leaving mid-game is permanent; require typing "quit" instead
		m.error = "游戏进行中，输入 quit 退出房间"
		return true, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ClearErrorMsg{}
		})
	case PhaseGameOver:
		_ = m.client.LeaveRoom()
		m.resetToLobby()
		return true, nil
	}
	m.client.Close()
	return true, tea.Quit
}

// handleEnter dispatches the input line for the current phase.
func (m *Model) handleEnter() tea.Cmd {
	input := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.error = ""

	switch m.phase {
	case PhaseLobby:
		switch input {
		case "1":
			_ = m.client.CreateRoom(m.playerName, 0, "")
		case "2":
			m.phase = PhaseRoomList
			m.input.Placeholder = "或直接输入房间号..."
			_ = m.client.ListRooms()
		default:
			if input != "" {
				_ = m.client.JoinRoom(input, m.playerName)
			}
		}

	case PhaseRoomList:
		if input == "" {
			if len(m.rooms) > 0 && m.selectedRoom < len(m.rooms) {
				_ = m.client.JoinRoom(m.rooms[m.selectedRoom].RoomCode, m.playerName)
			}
		} else {
			_ = m.client.JoinRoom(input, m.playerName)
		}

	case PhaseRoom:
		lower := strings.ToLower(input)
		switch {
		case lower == "quit":
			_ = m.client.LeaveRoom()
			m.resetToLobby()
		case lower == "s" && m.snapshot != nil && m.snapshot.State == "waiting":
			_ = m.client.StartRound()
		case lower == "r":
			_ = m.client.ReadyNext()
		case input != "":
			_ = m.client.Guess(input)
		}

	case PhaseGameOver:
		_ = m.client.LeaveRoom()
		m.resetToLobby()
	}

	return nil
}

// resetToLobby clears room state and returns to the lobby screen.
func (m *Model) resetToLobby() {
	m.phase = PhaseLobby
	m.snapshot = nil
	m.ranking = nil
	m.client.RoomCode = ""
	m.client.PlayerID = ""
	m.input.Reset()
	m.input.Placeholder = "1=创建房间  2=房间列表  或输入 6 位房间号"
	m.input.Focus()
}
