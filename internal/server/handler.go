package server

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wordarena/internal/apperrors"
	"wordarena/internal/protocol"
	"wordarena/internal/server/room"
)

// Handler 消息处理器
type Handler struct {
	server *Server
}

// NewHandler 创建处理器
func NewHandler(s *Server) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client *Client, msg *protocol.Message) {
	switch msg.Type {
	// 连接操作
	case protocol.MsgPing:
		h.handlePing(client, msg)
	case protocol.MsgReconnect:
		h.handleReconnect(client, msg)

	// 房间操作
	case protocol.MsgJoinGame:
		h.handleJoinGame(client, msg)
	case protocol.MsgLeaveRoom:
		h.handleLeaveRoom(client)
	case protocol.MsgListRooms:
		h.handleListRooms(client)

	// 游戏操作
	case protocol.MsgStartRound:
		h.handleStartRound(client)
	case protocol.MsgGuess:
		h.handleGuess(client, msg)
	case protocol.MsgReadyNext:
		h.handleReadyNext(client)

	default:
		log.Debug().Str("type", string(msg.Type)).Msg("未知消息类型")
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendError 把游戏错误转换为错误消息发给客户端
func (h *Handler) sendError(client *Client, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(gameErr.ToMessage())
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// handlePing 处理心跳消息
func (h *Handler) handlePing(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleJoinGame 创建或加入房间
func (h *Handler) handleJoinGame(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinGamePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.sendError(client, apperrors.ErrAlreadyInRoom)
		return
	}

	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		name = client.Name
	}

	if payload.CreateNew || payload.RoomCode == "" {
		_, _, err = h.server.rooms.Create(client, name, room.Options{
			MaxPlayers: payload.MaxPlayers,
			AnswerMode: payload.AnswerMode,
		})
	} else {
		_, _, err = h.server.rooms.Join(client, payload.RoomCode, name)
	}
	if err != nil {
		h.sendError(client, err)
		return
	}
	client.Name = name
}

// handleReconnect 处理断线重连
// 用昵称在目标房间中找回掉线的玩家身份
func (h *Handler) handleReconnect(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.sendError(client, apperrors.ErrAlreadyInRoom)
		return
	}

	_, player, err := h.server.rooms.Reconnect(client, payload.RoomCode, payload.DisplayName)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.Name = player.Name
	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, protocol.ReconnectedPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		RoomCode:   payload.RoomCode,
	}))
}

// handleLeaveRoom 永久退出房间
func (h *Handler) handleLeaveRoom(client *Client) {
	if err := h.server.rooms.Leave(client); err != nil {
		h.sendError(client, err)
	}
}

// handleListRooms 查询可加入的房间
func (h *Handler) handleListRooms(client *Client) {
	rooms := h.server.rooms.ListWaiting()
	if rooms == nil {
		rooms = []protocol.RoomSummary{}
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
		Rooms: rooms,
	}))
}

// roomOf 找到客户端所在房间
func (h *Handler) roomOf(client *Client) (*room.Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	r := h.server.rooms.Get(code)
	if r == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return r, nil
}

// handleStartRound 房主开始回合
func (h *Handler) handleStartRound(client *Client) {
	r, err := h.roomOf(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if err := r.Start(client.ID); err != nil {
		h.sendError(client, err)
	}
}

// handleGuess 提交猜测
func (h *Handler) handleGuess(client *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GuessPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, err := h.roomOf(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if _, err := r.Guess(client.ID, payload.Word); err != nil {
		h.sendError(client, err)
	}
}

// handleReadyNext 准备进入下一回合
func (h *Handler) handleReadyNext(client *Client) {
	r, err := h.roomOf(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if err := r.ReadyNext(client.ID); err != nil {
		h.sendError(client, err)
	}
}
