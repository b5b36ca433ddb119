package server

import (
	"math/rand/v2"
)

// 昵称词库
var (
	adjectives = []string{
		"机智的", "勇敢的", "沉稳的", "飞快的", "淡定的",
		"犀利的", "执着的", "潇洒的", "神秘的", "幸运的",
	}

	nouns = []string{
		"拼词家", "猜谜人", "词典侠", "字母猎手", "五格客",
		"解谜者", "词海旅人", "灯谜王", "填字匠", "夜猫子",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + noun
}
