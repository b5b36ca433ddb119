package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	MaxGuesses        int    `yaml:"max_guesses"`         // 每回合最大猜测次数
	MaxRounds         int    `yaml:"max_rounds"`          // 一局的回合数上限
	DefaultMaxPlayers int    `yaml:"default_max_players"` // 房间默认人数上限
	AdvancePolicy     string `yaml:"advance_policy"`      // auto / ready

	RoomIdleTimeout     int `yaml:"room_idle_timeout"`     // 房间无活动超时（分钟）
	RoomFinishedTimeout int `yaml:"room_finished_timeout"` // 已结束房间保留时间（分钟）
	OfflineGrace        int `yaml:"offline_grace"`         // 掉线玩家保留时间（分钟）
}

// RoomIdleTimeoutDuration 返回房间无活动超时时长
func (c *GameConfig) RoomIdleTimeoutDuration() time.Duration {
	return time.Duration(c.RoomIdleTimeout) * time.Minute
}

// RoomFinishedTimeoutDuration 返回已结束房间保留时长
func (c *GameConfig) RoomFinishedTimeoutDuration() time.Duration {
	return time.Duration(c.RoomFinishedTimeout) * time.Minute
}

// OfflineGraceDuration 返回掉线玩家保留时长
func (c *GameConfig) OfflineGraceDuration() time.Duration {
	return time.Duration(c.OfflineGrace) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 填充未设置的配置项
func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1790
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	// 环境变量优先，便于容器部署
	if addr := os.Getenv("WORDARENA_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if cfg.Game.MaxGuesses == 0 {
		cfg.Game.MaxGuesses = 6
	}
	if cfg.Game.MaxRounds == 0 {
		cfg.Game.MaxRounds = 3
	}
	if cfg.Game.DefaultMaxPlayers == 0 {
		cfg.Game.DefaultMaxPlayers = 4
	}
	if cfg.Game.AdvancePolicy == "" {
		cfg.Game.AdvancePolicy = "auto"
	}
	if cfg.Game.RoomIdleTimeout == 0 {
		cfg.Game.RoomIdleTimeout = 10
	}
	if cfg.Game.RoomFinishedTimeout == 0 {
		cfg.Game.RoomFinishedTimeout = 30
	}
	if cfg.Game.OfflineGrace == 0 {
		cfg.Game.OfflineGrace = 5
	}
}
