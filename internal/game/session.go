package game

import "wordarena/internal/apperrors"

// Status 会话状态
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWin        Status = "win"
	StatusLose       Status = "lose"
)

// Guess 一次已评分的猜测
type Guess struct {
	Word     Word
	Feedback Feedback
}

// Session 单个玩家一个回合的猜词会话
//
// 状态只会追加猜测记录，外加一次性的终局翻转；
// 同一次猜测不会被评分两次。
type Session struct {
	mode      AnswerMode
	answer    Word      // 固定模式答案；对抗模式下为最近一次选出的工作答案
	selector  *Selector // 仅对抗模式
	guesses   []Guess
	maxRounds int
	status    Status
}

// Result 一次猜测的结果
type Result struct {
	Feedback   Feedback
	Guesses    []Guess
	Status     Status
	RoundsLeft int

	// 仅在终局时揭示
	Answer     Word
	Candidates []Word // 对抗模式剩余候选
}

// NewSession 从共享答案上下文创建会话
func NewSession(ctx *AnswerContext, maxRounds int) *Session {
	s := &Session{
		mode:      ctx.Mode,
		answer:    ctx.Answer,
		maxRounds: maxRounds,
		status:    StatusInProgress,
	}
	if ctx.Mode == ModeAdversarial {
		s.selector = NewSelector(ctx.Candidates)
	}
	return s
}

// MakeGuess 处理一次猜测
//
// 对抗模式先用 SelectWorst 固定本轮工作答案，评分后再收缩候选集；
// 固定模式直接对存储的答案评分。
func (s *Session) MakeGuess(raw string) (*Result, error) {
	if s.status != StatusInProgress {
		return nil, apperrors.ErrGameOver
	}

	guess, err := ParseWord(raw)
	if err != nil {
		return nil, err
	}

	answer := s.answer
	if s.mode == ModeAdversarial {
		answer = s.selector.SelectWorst(guess)
		s.answer = answer
	}

	fb := Score(guess, answer)

	if s.mode == ModeAdversarial {
		s.selector.Narrow(guess, fb)
	}

	s.guesses = append(s.guesses, Guess{Word: guess, Feedback: fb})

	switch {
	case guess == answer:
		s.status = StatusWin
	case len(s.guesses) >= s.maxRounds:
		s.status = StatusLose
	}

	res := &Result{
		Feedback:   fb,
		Guesses:    s.Guesses(),
		Status:     s.status,
		RoundsLeft: s.maxRounds - len(s.guesses),
	}
	if s.status != StatusInProgress {
		res.Answer = answer
		if s.mode == ModeAdversarial {
			res.Candidates = s.selector.Candidates()
		}
	}
	return res, nil
}

// Status 返回会话状态
func (s *Session) Status() Status { return s.status }

// Guesses 返回已有猜测的拷贝
func (s *Session) Guesses() []Guess {
	out := make([]Guess, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// GuessCount 返回已用猜测次数
func (s *Session) GuessCount() int { return len(s.guesses) }

// RoundsLeft 返回剩余猜测次数
func (s *Session) RoundsLeft() int { return s.maxRounds - len(s.guesses) }

// Answer 返回当前工作答案（仅终局后对外揭示）
func (s *Session) Answer() Word { return s.answer }

// Candidates 返回对抗模式剩余候选集的拷贝（固定模式为 nil）
func (s *Session) Candidates() []Word {
	if s.selector == nil {
		return nil
	}
	return s.selector.Candidates()
}
