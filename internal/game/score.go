package game

// Score 计算猜测相对答案的逐位反馈
//
// 两遍扫描：第一遍标记同位命中并消耗对应的答案字母；
// 第二遍对剩余猜测位从左到右在未消耗的答案字母中找匹配，
// 找到记 present 并消耗，否则记 miss。
// 消耗一次的规则保证重复字母不会被多记 present。
func Score(guess, answer Word) Feedback {
	var fb Feedback
	var counts [26]int

	// 第一遍：同位命中
	for i := 0; i < WordLength; i++ {
		if guess[i] == answer[i] {
			fb[i] = MarkHit
		} else {
			counts[answer[i]-'A']++
		}
	}

	// 第二遍：present / miss
	for i := 0; i < WordLength; i++ {
		if fb[i] == MarkHit {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			fb[i] = MarkPresent
			counts[j]--
		} else {
			fb[i] = MarkMiss
		}
	}
	return fb
}
