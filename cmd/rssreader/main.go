package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iabetor/rssreader/internal/app"
	"github.com/iabetor/rssreader/internal/config"
	"github.com/iabetor/rssreader/internal/logger"
	"github.com/iabetor/rssreader/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/rssreader.yaml", "配置文件路径，为空时使用默认配置")
	addr := flag.String("addr", "", "监听地址，覆盖配置中的 server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infof("[main] rssreader 启动中 (log_level=%s)", cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在关闭...", sig)
		cancel()
	}()

	a, err := app.New(cfg)
	if err != nil {
		logger.Errorf("[main] 创建应用失败: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := server.New(a).ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logger.Errorf("[main] 服务运行出错: %v", err)
		os.Exit(1)
	}

	logger.Info("[main] rssreader 已停止")
}
