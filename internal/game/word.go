package game

import (
	"strings"
	"unicode/utf8"

	"wordarena/internal/apperrors"
)

// WordLength 单词固定长度
const WordLength = 5

// Word 规范化后的单词（5 个大写字母 A-Z）
type Word string

// Mark 单个字母的反馈结果
type Mark string

const (
	MarkHit     Mark = "hit"     // 字母和位置都正确
	MarkPresent Mark = "present" // 字母存在但位置不对
	MarkMiss    Mark = "miss"    // 字母不在剩余未匹配的答案字母中
)

// Feedback 一次猜测的逐位反馈
type Feedback [WordLength]Mark

// AllHit 判断是否全中
func (f Feedback) AllHit() bool {
	for _, m := range f {
		if m != MarkHit {
			return false
		}
	}
	return true
}

// Strings 转换为字符串切片（供协议层使用）
func (f Feedback) Strings() []string {
	out := make([]string, WordLength)
	for i, m := range f {
		out[i] = string(m)
	}
	return out
}

// ParseWord 规范化并校验原始输入
// 长度错误和字符集错误分别返回不同的校验错误；
// 长度按字符数计算，多字节字符算作字符集错误而非长度错误
func ParseWord(raw string) (Word, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if utf8.RuneCountInString(s) != WordLength {
		return "", apperrors.ErrGuessLength
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", apperrors.ErrGuessCharset
		}
	}
	return Word(s), nil
}

// MustWord 规范化单词，校验失败时 panic（仅用于词库等可信输入）
func MustWord(raw string) Word {
	w, err := ParseWord(raw)
	if err != nil {
		panic(err)
	}
	return w
}
