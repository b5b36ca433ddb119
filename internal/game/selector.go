package game

import "sort"

// CandidateScore 候选词相对某次猜测的得分
// 按 (hits, presents) 升序比较，越小对玩家越不利
type CandidateScore struct {
	Hits     int
	Presents int
}

// Worse 判断 s 是否严格比 other 更差（对玩家更不利）
func (s CandidateScore) Worse(other CandidateScore) bool {
	if s.Hits != other.Hits {
		return s.Hits < other.Hits
	}
	return s.Presents < other.Presents
}

// Selector 对抗式答案选择器
//
// 维护一个与已公布反馈保持一致的候选集，每轮挑出对玩家
// 最不利的候选作为本轮答案，再按自身产生的反馈收缩候选集。
// 被选中的词必然与自己产生的反馈一致，所以收缩不会清空候选集。
type Selector struct {
	candidates []Word
}

// NewSelector 用完整词库初始化候选集
func NewSelector(words []Word) *Selector {
	c := make([]Word, len(words))
	copy(c, words)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	return &Selector{candidates: c}
}

// ScoreCandidate 给单个候选词打分
// hits 为同位匹配数；presents 在非命中位上按消耗一次的规则统计
func ScoreCandidate(candidate, guess Word) CandidateScore {
	var score CandidateScore
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == candidate[i] {
			score.Hits++
		} else {
			counts[candidate[i]-'A']++
		}
	}
	for i := 0; i < WordLength; i++ {
		if guess[i] == candidate[i] {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			score.Presents++
			counts[j]--
		}
	}
	return score
}

// SelectWorst 返回对本次猜测得分最差的候选词
// 候选集按字典序保存，同分时保留最先出现的，即字典序最小的
func (s *Selector) SelectWorst(guess Word) Word {
	worst := s.candidates[0]
	worstScore := ScoreCandidate(worst, guess)

	for _, c := range s.candidates[1:] {
		cs := ScoreCandidate(c, guess)
		if cs.Worse(worstScore) {
			worst, worstScore = c, cs
		}
	}
	return worst
}

// Narrow 按公布的反馈收缩候选集
// 只保留自身对 guess 的反馈与公布反馈完全一致的候选词
func (s *Selector) Narrow(guess Word, fb Feedback) {
	kept := s.candidates[:0]
	for _, c := range s.candidates {
		if Score(guess, c) == fb {
			kept = append(kept, c)
		}
	}
	s.candidates = kept
}

// Candidates 返回当前候选集的拷贝
func (s *Selector) Candidates() []Word {
	out := make([]Word, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Size 返回当前候选集大小
func (s *Selector) Size() int {
	return len(s.candidates)
}
