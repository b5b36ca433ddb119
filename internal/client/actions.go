package client

import (
	"time"

	"wordarena/internal/protocol"
)

// CreateRoom 创建房间并加入
func (c *Client) CreateRoom(name string, maxPlayers int, answerMode string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinGame, protocol.JoinGamePayload{
		DisplayName: name,
		CreateNew:   true,
		MaxPlayers:  maxPlayers,
		AnswerMode:  answerMode,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, name string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinGame, protocol.JoinGamePayload{
		DisplayName: name,
		RoomCode:    roomCode,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// ListRooms 查询可加入的房间
func (c *Client) ListRooms() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgListRooms, nil))
}

// StartRound 房主开始回合
func (c *Client) StartRound() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartRound, nil))
}

// Guess 提交猜测
func (c *Client) Guess(word string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGuess, protocol.GuessPayload{
		Word: word,
	}))
}

// ReadyNext 准备进入下一回合
func (c *Client) ReadyNext() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgReadyNext, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// Reconnect 发送重连请求
func (c *Client) Reconnect() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		RoomCode:    c.RoomCode,
		DisplayName: c.PlayerName,
	}))
}
