package mail

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher 消息发布（由pkg/mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// QueueSender 投递到RabbitMQ，由cmd/mailer异步发送
type QueueSender struct {
	publisher  Publisher
	routingKey string
}

func NewQueueSender(publisher Publisher, routingKey string) *QueueSender {
	return &QueueSender{publisher: publisher, routingKey: routingKey}
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	return q.publisher.Publish(ctx, q.routingKey, msg)
}

// Handler 队列消费端：解码消息并交给Sender发送
// 消息体无法解码时返回nil（确认并丢弃），重试也不会成功
func Handler(sender Sender) func(context.Context, []byte) error {
	return func(ctx context.Context, body []byte) error {
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil || msg.To == "" {
			return nil
		}
		if err := sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("发送邮件到%s失败: %w", msg.To, err)
		}
		return nil
	}
}
