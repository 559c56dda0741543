package notifier

import (
	"context"

	"go.uber.org/zap"
	"mobile-verify.backend/pkg/logger"
)

// LogNotifier writes the token to the application log instead of sending an
// SMS. Used in development and when SMS dispatch is disabled by config.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, mobile, token string) error {
	logger.Info(ctx, "SMS dispatch disabled, logging verification token",
		zap.String("mobile", mobile),
		zap.String("token", token),
	)
	return nil
}
