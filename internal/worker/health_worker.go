package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger reports connectivity of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthWorker pings backing services on an interval and logs degradation.
type HealthWorker struct {
	logger   *zap.Logger
	interval time.Duration
	targets  map[string]Pinger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewHealthWorker builds the worker. Nil targets are skipped.
func NewHealthWorker(logger *zap.Logger, interval time.Duration, targets map[string]Pinger) *HealthWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HealthWorker{
		logger:   logger,
		interval: interval,
		targets:  targets,
		done:     make(chan struct{}),
	}
}

// Start launches the background loop.
func (w *HealthWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Stop terminates the loop and waits for it to exit.
func (w *HealthWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *HealthWorker) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAll(ctx)
		}
	}
}

func (w *HealthWorker) checkAll(ctx context.Context) {
	for name, target := range w.targets {
		if target == nil {
			continue
		}
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := target.Ping(checkCtx)
		cancel()
		if err != nil {
			w.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
		} else {
			w.logger.Debug("dependency healthy", zap.String("dependency", name))
		}
	}
}
