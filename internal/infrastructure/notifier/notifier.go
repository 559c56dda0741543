package notifier

import (
	"context"
	"fmt"
)

// Notifier dispatches a verification token to a mobile number. The workflow
// treats delivery as fire-and-forget: failures are logged, never surfaced to
// the caller.
type Notifier interface {
	Send(ctx context.Context, mobile, token string) error
}

// Message renders the SMS body for a verification token.
func Message(token string) string {
	return fmt.Sprintf("Your verification code is %s. It expires shortly; do not share it.", token)
}
