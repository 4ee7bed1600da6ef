package lifecycle

import (
	"context"
	"time"
)

// Hook describes a named shutdown hook. A zero Timeout means the hook shares
// the overall shutdown deadline.
type Hook struct {
	Name    string
	Fn      func(ctx context.Context) error
	Timeout time.Duration
}

func (h Hook) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if h.Timeout > 0 {
		return context.WithTimeout(parent, h.Timeout)
	}
	return context.WithCancel(parent)
}
