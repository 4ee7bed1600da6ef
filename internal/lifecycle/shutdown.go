// Package lifecycle sequences process shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Shutdown runs registered hooks one after another in registration order, so the
// bot stops taking updates before the cache and error reporter go away.
type Shutdown struct {
	mu    sync.Mutex
	hooks []Hook
	log   *slog.Logger
	done  bool
}

// NewShutdown constructs a new Shutdown coordinator.
func NewShutdown(log *slog.Logger) *Shutdown {
	if log == nil {
		log = slog.Default()
	}

	return &Shutdown{log: log}
}

// Register adds a named shutdown hook.
func (s *Shutdown) Register(name string, fn func(context.Context) error) {
	s.RegisterHook(Hook{Name: name, Fn: fn})
}

// RegisterHook adds a hook with its own timeout.
func (s *Shutdown) RegisterHook(h Hook) {
	if h.Fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, h)
}

// Execute runs the hooks once. Failing hooks do not stop later ones; all
// failures are joined into the returned error. Later calls are no-ops.
func (s *Shutdown) Execute(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil
	}
	s.done = true
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	start := time.Now()
	s.log.Info("shutdown sequence started", slog.Int("hook_count", len(hooks)))

	var errs []error
	for _, h := range hooks {
		if err := s.run(ctx, h); err != nil {
			errs = append(errs, err)
		}
	}

	s.log.Info("shutdown sequence finished", slog.Duration("elapsed", time.Since(start)))

	return errors.Join(errs...)
}

func (s *Shutdown) run(ctx context.Context, h Hook) (err error) {
	hookCtx, cancel := h.withTimeout(ctx)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", h.Name, r)
			s.log.Error("shutdown hook panicked", slog.String("hook", h.Name), slog.Any("panic", r))
		}
	}()

	s.log.Info("running shutdown hook", slog.String("hook", h.Name))

	if hookErr := h.Fn(hookCtx); hookErr != nil {
		s.log.Error("shutdown hook failed", slog.String("hook", h.Name), slog.Any("error", hookErr))
		return fmt.Errorf("%s: %w", h.Name, hookErr)
	}

	s.log.Info("shutdown hook completed", slog.String("hook", h.Name))
	return nil
}
