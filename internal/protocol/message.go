package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing      MessageType = "ping"      // 心跳 ping
	MsgReconnect MessageType = "reconnect" // 断线重连（按昵称匹配）

	// 房间操作
	MsgJoinGame  MessageType = "join_game"  // 创建或加入房间
	MsgLeaveRoom MessageType = "leave_room" // 离开房间（永久退出）
	MsgListRooms MessageType = "list_rooms" // 查询可加入的房间

	// 游戏操作
	MsgStartRound MessageType = "start_round" // 房主开始回合
	MsgGuess      MessageType = "guess"       // 提交猜测
	MsgReadyNext  MessageType = "ready_next"  // 准备进入下一回合
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomState MessageType = "room_state" // 房间快照（每次成功变更后广播）
	MsgRoomList  MessageType = "room_list"  // 房间列表
	MsgGameOver  MessageType = "game_over"  // 所有回合结束，最终排名

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinGamePayload 创建或加入房间请求
type JoinGamePayload struct {
	DisplayName string `json:"display_name"`          // 玩家昵称，空则由服务端生成
	RoomCode    string `json:"room_code,omitempty"`   // 加入指定房间；CreateNew 时忽略
	CreateNew   bool   `json:"create_new,omitempty"`  // 创建新房间
	MaxPlayers  int    `json:"max_players,omitempty"` // 新房间人数上限
	AnswerMode  string `json:"answer_mode,omitempty"` // fixed / adversarial
}

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	RoomCode    string `json:"room_code"`
	DisplayName string `json:"display_name"` // 按昵称匹配唯一的离线玩家
}

// GuessPayload 猜测请求
type GuessPayload struct {
	Word string `json:"word"` // 原始输入，服务端负责规范化
}

// LeaveRoomPayload 离开房间请求
type LeaveRoomPayload struct {
	RoomCode string `json:"room_code,omitempty"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnID string `json:"conn_id"` // 连接标识（临时，与玩家持久 ID 区分）
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string `json:"player_id"` // 恢复的持久 ID
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// GuessRecord 一次猜测及其反馈
type GuessRecord struct {
	Word     string   `json:"word"`
	Feedback []string `json:"feedback"` // 每位 hit / present / miss
}

// PlayerInfo 玩家公开信息
type PlayerInfo struct {
	ID         string `json:"id"`     // 持久 ID，重连后不变
	Name       string `json:"name"`   // 昵称
	Status     string `json:"status"` // ready / playing / finished / disconnected
	IsHost     bool   `json:"is_host"`
	Online     bool   `json:"online"`
	Score      int    `json:"score"`       // 累计积分
	GuessCount int    `json:"guess_count"` // 本回合已用猜测数
}

// SelfState 仅发给本人的私有视图
type SelfState struct {
	PlayerID   string        `json:"player_id"`
	Guesses    []GuessRecord `json:"guesses"` // 自己的猜测历史
	Status     string        `json:"status"`  // 本回合会话状态
	RoundsLeft int           `json:"rounds_left"`
	Answer     string        `json:"answer,omitempty"`     // 终局后揭示
	Candidates []string      `json:"candidates,omitempty"` // 对抗模式终局后揭示
}

// RoomSnapshot 房间快照
// 公共字段对所有人相同，You 按接收者个性化
type RoomSnapshot struct {
	RoomCode     string       `json:"room_code"`
	State        string       `json:"state"` // waiting / playing / finished
	AnswerMode   string       `json:"answer_mode"`
	CurrentRound int          `json:"current_round"`
	MaxRounds    int          `json:"max_rounds"`
	MaxPlayers   int          `json:"max_players"`
	Players      []PlayerInfo `json:"players"`
	You          *SelfState   `json:"you,omitempty"`
}

// RoomSummary 房间公开摘要（发现接口用，无需加入房间）
type RoomSummary struct {
	RoomCode    string `json:"room_code"`
	AnswerMode  string `json:"answer_mode"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	CreatedAt   int64  `json:"created_at"` // Unix 秒
}

// RoomListPayload 房间列表响应
type RoomListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RankEntry 最终排名条目
type RankEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// GameOverPayload 整局结束通知
type GameOverPayload struct {
	RoomCode string      `json:"room_code"`
	Ranking  []RankEntry `json:"ranking"` // 按累计积分降序
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"` // validation / state / identity / not_found
	Message string `json:"message"`
}

// --- 错误码 ---
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	// 校验
	ErrCodeGuessLength   = 2001
	ErrCodeGuessCharset  = 2002
	ErrCodeBadAnswerMode = 2003

	// 状态
	ErrCodeGameOver         = 3001
	ErrCodeNotPlaying       = 3002
	ErrCodeAlreadyStarted   = 3003
	ErrCodeNotEnoughPlayers = 3004
	ErrCodeRoomFull         = 3005
	ErrCodeRoomInProgress   = 3006
	ErrCodeAlreadyFinished  = 3007
	ErrCodeAlreadyInRoom    = 3008

	// 身份
	ErrCodePlayerNotFound  = 4001
	ErrCodePlayerAmbiguous = 4002
	ErrCodePlayerOnline    = 4003
	ErrCodeNotInRoom       = 4004
	ErrCodeNotHost         = 4006

	// 不存在
	ErrCodeRoomNotFound = 5001
)

// ErrorMessages 错误码对应的默认消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:          "未知错误",
	ErrCodeInvalidMsg:       "无效的消息格式",
	ErrCodeGuessLength:      "猜测必须是 5 个字母",
	ErrCodeGuessCharset:     "猜测只能包含字母 A-Z",
	ErrCodeBadAnswerMode:    "未知的答案模式",
	ErrCodeGameOver:         "本局已结束",
	ErrCodeNotPlaying:       "回合尚未开始",
	ErrCodeAlreadyStarted:   "回合已经开始",
	ErrCodeNotEnoughPlayers: "至少需要 2 名玩家才能开始",
	ErrCodeRoomFull:         "房间已满",
	ErrCodeRoomInProgress:   "房间已在游戏中",
	ErrCodeAlreadyFinished:  "您已完成本回合",
	ErrCodeAlreadyInRoom:    "您已在房间中",
	ErrCodePlayerNotFound:   "找不到可重连的玩家",
	ErrCodePlayerAmbiguous:  "有多名同名玩家，无法重连",
	ErrCodePlayerOnline:     "该玩家仍在线",
	ErrCodeNotInRoom:        "您不在房间中",
	ErrCodeNotHost:          "只有房主可以开始回合",
	ErrCodeRoomNotFound:     "房间不存在",
}
