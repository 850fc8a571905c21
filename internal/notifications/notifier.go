// Package notifications delivers out-of-band messages to users. The only
// message today is the welcome note sent after registration; the interface
// exists so a real email or push provider can replace the log-based one
// without touching the handlers.
package notifications

import "context"

type WelcomeInput struct {
	Email string
	Name  string
}

type Notifier interface {
	SendWelcome(ctx context.Context, input WelcomeInput) error
}
