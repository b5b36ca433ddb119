// Package types 定义服务端各层共享的接口，避免循环依赖
package types

import "wordarena/internal/protocol"

// Conn 一条客户端连接
// 房间层通过该接口与传输层交互，连接标识是临时的，
// 与玩家的持久 ID 互相独立
type Conn interface {
	GetID() string
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}
