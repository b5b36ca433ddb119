package client

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"wordarena/internal/logger"
	"wordarena/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 重连间隔
	reconnectInterval = 2 * time.Second
)

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	conn      *websocket.Conn
	send      chan []byte
	receive   chan *protocol.Message
	done      chan struct{}

	ConnID     string
	PlayerID   string // 加入房间后由快照填充
	PlayerName string // 本地选择的昵称，重连凭据
	RoomCode   string // 当前房间号，重连凭据

	// 网络延迟（毫秒）
	Latency int64

	// 回调
	OnError         func(error) // 错误回调
	OnClose         func()      // 关闭回调
	OnReconnecting  func(attempt, maxTries int)
	OnReconnect     func() // 重连成功回调
	OnLatencyUpdate func(int64)

	mu             sync.RWMutex
	closed         bool
	reconnecting   atomic.Bool
	reconnectCount int
}

// NewClient 创建客户端
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		send:      make(chan []byte, 256),
		receive:   make(chan *protocol.Message, 256),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器
func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}

	c.conn = conn

	go c.readPump()
	go c.writePump()

	return nil
}

// readPump 从服务器读取消息
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		// 如果有房间身份则尝试重连
		if c.RoomCode != "" && c.PlayerName != "" && !c.reconnecting.Load() {
			go c.tryReconnect()
		} else {
			c.Close()
			if c.OnClose != nil {
				c.OnClose()
			}
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		msg, err := protocol.Decode(message)
		if err != nil {
			logger.LogError("消息解析错误: %v", err)
			continue
		}

		// 处理连接成功消息
		if msg.Type == protocol.MsgConnected {
			var payload protocol.ConnectedPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				c.ConnID = payload.ConnID
			}
		}

		// 处理重连成功消息 - 标记状态但不立即回调
		isReconnected := false
		if msg.Type == protocol.MsgReconnected {
			c.reconnecting.Store(false)
			c.reconnectCount = 0
			isReconnected = true
		}

		// 处理 pong 消息计算延迟
		if msg.Type == protocol.MsgPong {
			var payload protocol.PongPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				latency := time.Now().UnixMilli() - payload.ClientTimestamp
				c.Latency = latency
				if c.OnLatencyUpdate != nil {
					c.OnLatencyUpdate(latency)
				}
			}
		}

		select {
		case c.receive <- msg:
		default:
		}

		// 重连成功回调放在最后，确保消息已经发送到 channel
		if isReconnected && c.OnReconnect != nil {
			c.OnReconnect()
		}
	}
}

// writePump 向服务器写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New("connection closed")
	}
	c.mu.RUnlock()

	data, err := msg.Encode()
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Receive 接收消息（阻塞）
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, errors.New("connection closed")
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// tryReconnect 断线后自动重连
// 用房间号加昵称找回房间内的身份
func (c *Client) tryReconnect() {
	if c.reconnecting.Load() {
		return
	}
	c.reconnecting.Store(true)

	for c.reconnectCount < maxReconnectAttempts {
		c.reconnectCount++
		logger.LogInfo("🔄 尝试重连 (%d/%d)...", c.reconnectCount, maxReconnectAttempts)
		if c.OnReconnecting != nil {
			c.OnReconnecting(c.reconnectCount, maxReconnectAttempts)
		}

		time.Sleep(reconnectInterval)

		dialer := websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		}

		conn, _, err := dialer.Dial(c.ServerURL, nil)
		if err != nil {
			logger.LogError("重连失败: %v", err)
			continue
		}

		// 重置状态
		c.mu.Lock()
		c.conn = conn
		c.closed = false
		c.send = make(chan []byte, 256)
		c.receive = make(chan *protocol.Message, 256)
		c.done = make(chan struct{})
		c.mu.Unlock()

		go c.readPump()
		go c.writePump()

		// 等待服务端的 connected 消息后再发重连请求
		time.Sleep(100 * time.Millisecond)
		if err := c.Reconnect(); err != nil {
			logger.LogError("发送重连请求失败: %v", err)
			c.conn.Close()
			continue
		}

		logger.LogInfo("✅ 重连请求已发送")
		return
	}

	logger.LogError("❌ 重连失败，已达最大尝试次数")
	c.reconnecting.Store(false)
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}

// StartHeartbeat 启动心跳检测
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}
