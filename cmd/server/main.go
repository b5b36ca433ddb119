package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wordarena/internal/config"
	"wordarena/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	// 加载 .env（不存在则忽略）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("加载配置文件失败，使用默认配置")
		cfg = config.Default()
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("创建服务器失败")
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("正在关闭服务器...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("关闭服务器出错")
		}
		os.Exit(0)
	}()

	// 启动服务器
	log.Info().Msg("🎮 WordArena 服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("服务器启动失败")
	}
}
