package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
	"github.com/xiebiao/vibeshelf/pkg/tracing"
)

// @title           VibeShelf API
// @version         1.0.0
// @description     图书目录浏览、搜索、书评与账号服务
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// main 服务启动入口
//
// 启动顺序：
// 配置 → 日志 → 链路追踪 → 指标 → Wire组装依赖 → HTTP服务器 → 优雅关闭
func main() {
	// 步骤1: 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 步骤2: 初始化日志
	logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("db_driver", cfg.Database.Driver).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Str("mail_transport", cfg.Mail.Transport).
		Msg("config loaded")

	// 步骤3: 链路追踪（未启用时为noop）
	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init tracer failed")
	}

	// 步骤4: 注册Prometheus指标
	metrics.InitMetrics()

	// 步骤5: 组装依赖（wire_gen.go）
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize app failed")
	}

	// 步骤6: 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 步骤7: 启动HTTP服务器（goroutine）
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🚀 vibeshelf api started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// 步骤8: 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server forced to shutdown")
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown failed")
	}
	log.Info().Msg("👋 server exited")
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 5 * time.Second
}
