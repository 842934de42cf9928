package mail

import (
	"context"

	"github.com/xiebiao/vibeshelf/pkg/logger"
)

// LogSender 只把邮件写入日志
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContext(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail (log transport)")
	return nil
}
