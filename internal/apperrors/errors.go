package apperrors

import (
	"wordarena/internal/protocol"
)

// Kind 错误类别
type Kind string

const (
	KindValidation Kind = "validation" // 输入不合法
	KindState      Kind = "state"      // 当前状态下不允许该操作
	KindIdentity   Kind = "identity"   // 身份无法识别或冲突
	KindNotFound   Kind = "not_found"  // 目标不存在
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Kind    Kind
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// ToMessage 转换为协议错误消息
func (e *GameError) ToMessage() *protocol.Message {
	return protocol.NewErrorMessageFull(e.Code, string(e.Kind), e.Message)
}

// 预定义错误
var (
	// 校验
	ErrGuessLength   = &GameError{Code: protocol.ErrCodeGuessLength, Kind: KindValidation, Message: "猜测必须是 5 个字母"}
	ErrGuessCharset  = &GameError{Code: protocol.ErrCodeGuessCharset, Kind: KindValidation, Message: "猜测只能包含字母 A-Z"}
	ErrBadAnswerMode = &GameError{Code: protocol.ErrCodeBadAnswerMode, Kind: KindValidation, Message: "未知的答案模式"}

	// 状态
	ErrGameOver         = &GameError{Code: protocol.ErrCodeGameOver, Kind: KindState, Message: "本局已结束"}
	ErrNotPlaying       = &GameError{Code: protocol.ErrCodeNotPlaying, Kind: KindState, Message: "回合尚未开始"}
	ErrAlreadyStarted   = &GameError{Code: protocol.ErrCodeAlreadyStarted, Kind: KindState, Message: "回合已经开始"}
	ErrNotEnoughPlayers = &GameError{Code: protocol.ErrCodeNotEnoughPlayers, Kind: KindState, Message: "至少需要 2 名玩家才能开始"}
	ErrRoomFull         = &GameError{Code: protocol.ErrCodeRoomFull, Kind: KindState, Message: "房间已满"}
	ErrRoomInProgress   = &GameError{Code: protocol.ErrCodeRoomInProgress, Kind: KindState, Message: "房间已在游戏中"}
	ErrAlreadyFinished  = &GameError{Code: protocol.ErrCodeAlreadyFinished, Kind: KindState, Message: "您已完成本回合"}
	ErrAlreadyInRoom    = &GameError{Code: protocol.ErrCodeAlreadyInRoom, Kind: KindState, Message: "您已在房间中"}

	// 身份
	ErrPlayerNotFound  = &GameError{Code: protocol.ErrCodePlayerNotFound, Kind: KindIdentity, Message: "找不到可重连的玩家"}
	ErrPlayerAmbiguous = &GameError{Code: protocol.ErrCodePlayerAmbiguous, Kind: KindIdentity, Message: "有多名同名玩家，无法重连"}
	ErrPlayerOnline    = &GameError{Code: protocol.ErrCodePlayerOnline, Kind: KindIdentity, Message: "该玩家仍在线"}
	ErrNotInRoom       = &GameError{Code: protocol.ErrCodeNotInRoom, Kind: KindIdentity, Message: "您不在房间中"}
	ErrNotHost         = &GameError{Code: protocol.ErrCodeNotHost, Kind: KindIdentity, Message: "只有房主可以开始回合"}

	// 不存在
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Kind: KindNotFound, Message: "房间不存在"}
)
