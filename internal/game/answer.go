package game

// AnswerMode 答案决定方式
type AnswerMode string

const (
	ModeFixed       AnswerMode = "fixed"       // 回合开始时固定一个答案
	ModeAdversarial AnswerMode = "adversarial" // 对抗式：逐轮挑选最不利的答案
)

// Valid 判断模式是否合法
func (m AnswerMode) Valid() bool {
	return m == ModeFixed || m == ModeAdversarial
}

// AnswerContext 一个回合的共享答案上下文
//
// 房间每回合创建一份，所有玩家的会话都从同一份上下文派生：
// 固定模式共享同一个答案词，对抗模式共享同一份初始候选集
// （各会话随后按自己的猜测独立收缩）。
type AnswerContext struct {
	Mode       AnswerMode
	Answer     Word   // 固定模式的答案
	Candidates []Word // 对抗模式的初始候选集
}

// NewFixedContext 创建固定答案上下文
func NewFixedContext(answer Word) *AnswerContext {
	return &AnswerContext{Mode: ModeFixed, Answer: answer}
}

// NewAdversarialContext 创建对抗式上下文
func NewAdversarialContext(words []Word) *AnswerContext {
	c := make([]Word, len(words))
	copy(c, words)
	return &AnswerContext{Mode: ModeAdversarial, Candidates: c}
}
