package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"wordarena/internal/config"
	"wordarena/internal/game/words"
	"wordarena/internal/protocol"
	"wordarena/internal/server/room"
	"wordarena/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client
	leaderboard *storage.Leaderboard
	rooms       *room.Manager
	handler     *Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	// 加载词库
	if err := words.Init(); err != nil {
		return nil, fmt.Errorf("词库加载失败: %w", err)
	}

	s := &Server{
		config:      cfg,
		redis:       rdb,
		leaderboard: storage.NewLeaderboard(rdb),
		clients:     make(map[string]*Client),
	}
	s.rooms = room.NewManager(&cfg.Game, words.All(), s.leaderboard)
	s.handler = NewHandler(s)

	return s, nil
}

// Start 启动服务器，阻塞直到 Shutdown 被调用
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/rooms", s.handleRooms)
	r.Get("/leaderboard", s.handleLeaderboard)

	log.Info().Str("addr", addr).Int("words", words.Count()).Msg("🚀 服务器已启动")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket 升级失败")
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnID: client.ID,
	}))

	log.Info().Str("client", client.ID).Msg("✅ 客户端已连接")

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"online": s.GetOnlineCount(),
		"rooms":  s.rooms.Count(),
	})
}

// handleRooms 房间发现接口：列出可加入的等待中房间
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.rooms.ListWaiting()
	if rooms == nil {
		rooms = []protocol.RoomSummary{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(protocol.RoomListPayload{Rooms: rooms})
}

// handleLeaderboard 生涯积分排行榜
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.leaderboard.GetLeaderboard(r.Context(), 20)
	if err != nil {
		log.Warn().Err(err).Msg("读取排行榜失败")
		http.Error(w, `{"error":"leaderboard_unavailable"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.LeaderboardEntry{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(entries)
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		log.Info().Str("client", client.ID).Msg("❌ 客户端已断开")
	}
}

// GetOnlineCount 获取在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Shutdown 优雅关闭：停止接受新连接，关闭存量连接和 Redis
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("🛑 服务器开始关闭")

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.rooms.Close()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	_ = s.redis.Close()

	log.Info().Msg("服务器已关闭")
	return err
}
