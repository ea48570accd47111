package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap/zapcore"

	"gridsnake/server"
)

// gridsnake 入口：启动 HTTP + WebSocket 服务，每个页面连接一局贪吃蛇
func main() {
	cfg := server.DefaultConfig()
	var (
		addr     string
		logFile  string
		logLevel string
		webDir   string
		tickMs   int
	)
	flag.StringVar(&addr, "addr", ":8080", "server listen address, e.g. :8080")
	flag.IntVar(&cfg.GridSize, "grid", cfg.GridSize, "grid size N (cells per side, >= 2)")
	flag.IntVar(&tickMs, "tick-ms", int(cfg.TickPeriod.Milliseconds()), "tick period in milliseconds (> 0)")
	flag.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "rendered cell size in pixels")
	flag.StringVar(&logFile, "log", "app.log", "log file path")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&webDir, "web", "web", "static files directory")
	flag.Parse()
	cfg.TickPeriod = time.Duration(tickMs) * time.Millisecond

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		panic(err)
	}
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(logFile, level); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	if err := cfg.Validate(); err != nil {
		server.Log.Errorf("invalid config: %v", err)
		server.SyncLogger()
		os.Exit(2)
	}

	sm := server.NewSessionManager(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", sm.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir(webDir)))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", sm.HandleAdminConfig)
	mux.HandleFunc("/metrics", sm.HandleMetrics)
	mux.HandleFunc("/sessions", sm.HandleSessions)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("gridsnake listening on %s; grid=%d tick=%v", addr, cfg.GridSize, cfg.TickPeriod)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）：先停会话循环，再关闭 HTTP
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	sm.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("shutdown: %v", err)
	}
}
