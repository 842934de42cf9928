// Package mail 验证码邮件投递
//
// 三种发送方式（mail.transport）：
// 1. log：只写日志，开发环境默认值，OTP可以直接从日志里拿到
// 2. smtp：在请求内同步发送
// 3. queue：投递到RabbitMQ，由cmd/mailer消费后通过SMTP发送
package mail

import (
	"context"
	"fmt"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/pkg/mq"
)

// Message 一封邮件，也是队列消息体
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer 把Sender适配为用户领域的Mailer接口
type Mailer struct {
	sender Sender
}

// NewMailer 创建Mailer
func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// SendMail 发送邮件
func (m *Mailer) SendMail(ctx context.Context, to, subject, body string) error {
	return m.sender.Send(ctx, Message{To: to, Subject: subject, Body: body})
}

// NewSender 按配置创建Sender
// queue模式会连接RabbitMQ，返回的cleanup负责关闭连接
func NewSender(cfg *config.Config) (Sender, func(), error) {
	switch cfg.Mail.Transport {
	case "smtp":
		return NewSMTPSender(cfg.Mail), func() {}, nil
	case "queue":
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
		if err != nil {
			return nil, nil, fmt.Errorf("创建邮件队列发布者失败: %w", err)
		}
		return NewQueueSender(publisher, cfg.MQ.MailRouting), func() { _ = publisher.Close() }, nil
	default:
		return NewLogSender(), func() {}, nil
	}
}
