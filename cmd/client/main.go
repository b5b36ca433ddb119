package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"wordarena/internal/logger"
	"wordarena/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1790", "服务器地址")
	name := flag.String("name", "", "昵称（留空由服务器分配）")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)

	model := ui.NewModel(serverURL, *name)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
