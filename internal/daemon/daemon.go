package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component driven by the daemon
type Service interface {
	// Run blocks until ctx is canceled or the service fails
	Run(ctx context.Context) error
}

// Daemon represents the daemon process
type Daemon struct {
	service   Service
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex // Protects running and startedAt
	running   bool
	startedAt time.Time
}

// NewDaemon creates a new daemon instance
func NewDaemon(service Service, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		service: service,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start runs the service until Stop, SIGINT or SIGTERM
func (d *Daemon) Start() error {
	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return d.run(d.ctx, sigChan)
}

// RunWithTimeout runs the service for at most timeout (for testing)
func (d *Daemon) RunWithTimeout(timeout time.Duration) error {
	d.logger.Info("Daemon started with timeout",
		zap.Duration("timeout", timeout))

	timeoutCtx, timeoutCancel := context.WithTimeout(d.ctx, timeout)
	defer timeoutCancel()

	return d.run(timeoutCtx, nil)
}

func (d *Daemon) run(ctx context.Context, sigChan <-chan os.Signal) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.running = true
	d.startedAt = time.Now()
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	serviceCtx, serviceCancel := context.WithCancel(ctx)
	defer serviceCancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.service.Run(serviceCtx)
	}()

	d.logger.Info("Daemon started")

	select {
	case <-ctx.Done():
		d.logger.Info("Daemon stopping")

	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("service failed: %w", err)
		}
		d.logger.Info("Service finished")
		return nil
	}

	serviceCancel()
	if err := <-errCh; err != nil {
		return fmt.Errorf("service failed during shutdown: %w", err)
	}

	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"running": d.running,
	}
	if d.running {
		status["started_at"] = d.startedAt.Format(time.RFC3339)
		status["uptime"] = time.Since(d.startedAt).Round(time.Second).String()
	}
	return status
}
