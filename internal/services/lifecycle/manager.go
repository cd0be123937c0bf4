// Package lifecycle coordinates graceful teardown of the server's stateful
// components: the HTTP listener drains first, then caches and pools, and the
// claim journal closes last so every attempt made before shutdown is on disk.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc shuts one component down; it must respect ctx's deadline.
type StopFunc func(ctx context.Context) error

type registration struct {
	component string
	stop      StopFunc
}

// Manager collects shutdown registrations and runs them in reverse order of
// registration, so dependencies outlive their dependents.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu            sync.Mutex
	registrations []registration
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a component to the shutdown sequence.
func (m *Manager) Register(component string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, registration{component: component, stop: stop})
}

// Shutdown stops every registered component, newest first, within the
// configured timeout. Failures are logged and joined but do not stop the
// remaining components from being closed.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	pending := make([]registration, len(m.registrations))
	copy(pending, m.registrations)
	m.mu.Unlock()

	var errs error
	for i := len(pending) - 1; i >= 0; i-- {
		reg := pending[i]
		started := time.Now()
		if err := reg.stop(ctx); err != nil {
			m.logger.Error("shutdown failed",
				zap.String("component", reg.component),
				zap.Error(err),
			)
			errs = errors.Join(errs, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", reg.component),
			zap.Duration("took", time.Since(started)),
		)
	}
	return errs
}

// Listen invokes cancel when the process receives SIGINT or SIGTERM.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		received := <-signals
		m.logger.Info("shutdown signal received", zap.String("signal", received.String()))
		cancel()
	}()
}
