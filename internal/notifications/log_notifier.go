package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier writes the notification to the log instead of sending it
// anywhere. It stands in for a real provider in demos and tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendWelcome(ctx context.Context, in WelcomeInput) error {
	// simulated provider latency, for poking the circuit breaker by hand
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// simulated provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	slog.InfoContext(ctx, "notification.welcome",
		slog.String("email", in.Email),
		slog.String("name", in.Name),
	)
	return nil
}
