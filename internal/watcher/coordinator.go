package watcher

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Coordinator runs the check once, then again after every batch of changes
// reported by a FileWatcher.
type Coordinator struct {
	files   FileWatcher
	checker Checker
	logger  *log.Logger
	mu      sync.Mutex // serializes checks
}

// NewCoordinator creates a new watch coordinator.
func NewCoordinator(files FileWatcher, checker Checker, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		files:   files,
		checker: checker,
		logger:  logger,
	}
}

// Run performs the initial check and then re-checks on change until ctx is
// cancelled. Only a failing initial check or watcher start is returned;
// later check failures are logged and watching continues.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.cleanup()

	if err := c.files.Start(ctx, func(changed []string) { c.handleFileChange(ctx, changed) }); err != nil {
		return err
	}

	// Changes made while the first check runs are reported after it.
	c.files.Pause()
	err := c.check(ctx, nil)
	c.files.Resume()
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (c *Coordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		c.logger.Warn("file watcher stop failed", "err", err)
	}
}

func (c *Coordinator) handleFileChange(ctx context.Context, changed []string) {
	if len(changed) == 0 || ctx.Err() != nil {
		return
	}

	c.logger.Info("change detected, re-checking", "files", len(changed))
	if err := c.check(ctx, changed); err != nil {
		c.logger.Error("check failed", "err", err)
	}
}

func (c *Coordinator) check(ctx context.Context, changed []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checker.Recheck(ctx, changed)
}
