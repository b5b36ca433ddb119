// Package words 维护答案词库
//
// 默认使用内嵌的 5 字母词表，也可以通过环境变量
// WORDARENA_WORDS_FILE 指定外部词表文件（每行一个词）。
// 词表只用于选取固定答案和初始化对抗模式候选集，
// 猜测本身只做字符级校验，不查词表。
package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"wordarena/internal/game"
)

//go:embed default_answers.txt
var embeddedAnswers string

var (
	initOnce sync.Once
	answers  []game.Word
	initErr  error
)

// Init 加载词库（只执行一次）
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDARENA_WORDS_FILE"); path != "" {
			answers, initErr = loadFile(path)
			return
		}
		answers, initErr = parseList(strings.NewReader(embeddedAnswers))
	})
	return initErr
}

// All 返回全部答案词（调用方不得修改）
func All() []game.Word {
	mustInit()
	return answers
}

// Count 返回词库大小
func Count() int {
	mustInit()
	return len(answers)
}

// Random 随机返回一个答案词
func Random() game.Word {
	mustInit()
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(answers))))
	if err != nil {
		// crypto/rand 失败极罕见，退化为固定取首词
		return answers[0]
	}
	return answers[n.Int64()]
}

func mustInit() {
	if err := Init(); err != nil {
		panic(err)
	}
	if len(answers) == 0 {
		panic(errors.New("words: 词库为空"))
	}
}

func loadFile(path string) ([]game.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseList(f)
}

func parseList(r io.Reader) ([]game.Word, error) {
	var out []game.Word
	seen := make(map[game.Word]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := game.ParseWord(line)
		if err != nil {
			return nil, errors.New("words: 非法词条 " + line)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("words: 词库为空")
	}
	return out, nil
}
