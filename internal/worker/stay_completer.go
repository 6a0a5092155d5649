package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StayCompleter is the booking operation run on every tick.
type StayCompleter interface {
	CompleteFinishedStays(ctx context.Context) (int, error)
}

// StayCompletionWorker periodically marks confirmed stays whose check-out has
// passed as completed.
type StayCompletionWorker struct {
	service  StayCompleter
	interval time.Duration
	logger   *zap.Logger
}

// NewStayCompletionWorker creates a worker. A non-positive interval defaults to one hour.
func NewStayCompletionWorker(service StayCompleter, interval time.Duration, logger *zap.Logger) *StayCompletionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StayCompletionWorker{service: service, interval: interval, logger: logger}
}

// Start runs one pass immediately and then one per interval. It blocks until
// ctx is cancelled.
func (w *StayCompletionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single completion pass.
func (w *StayCompletionWorker) RunOnce(ctx context.Context) {
	n, err := w.service.CompleteFinishedStays(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("stay completion pass failed", zap.Int("completed", n), zap.Error(err))
		}
		return
	}
	if n > 0 {
		w.logger.Info("completed finished stays", zap.Int("completed", n))
	}
}
