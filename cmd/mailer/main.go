package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/mail"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
	"github.com/xiebiao/vibeshelf/pkg/mq"
)

// main 邮件投递进程
//
// mail.transport=queue时，API把OTP邮件发布到RabbitMQ，
// 这里消费mail队列并通过SMTP发送。
// SMTP未配置时退化为只写日志，方便本地联调。
func main() {
	// 步骤1: 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 步骤2: 初始化日志和指标
	logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	metrics.InitMetrics()

	// 步骤3: 选择真正的发送方式
	var sender mail.Sender = mail.NewLogSender()
	if cfg.Mail.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.Mail)
	}

	// 步骤4: 连接RabbitMQ
	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.MailQueue,
		[]string{cfg.MQ.MailRouting},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create mail consumer failed")
	}
	defer consumer.Close()

	// 步骤5: 消费直到收到退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.MQ.MailQueue).Bool("smtp", cfg.Mail.SMTPHost != "").Msg("📮 mailer started")
	if err := consumer.Consume(ctx, mail.Handler(sender)); err != nil {
		log.Error().Err(err).Msg("mail consumer stopped with error")
		return
	}
	log.Info().Msg("👋 mailer exited")
}
