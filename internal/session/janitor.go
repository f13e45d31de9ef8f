// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically removes sessions idle for longer than a TTL.
type Janitor struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewJanitor returns a janitor for store. A non-positive interval defaults to
// one minute.
func NewJanitor(store Store, ttl, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{store: store, ttl: ttl, interval: interval, now: time.Now, logger: logger}
}

// SweepOnce removes idle sessions now and reports how many were removed.
func (j *Janitor) SweepOnce(ctx context.Context) (int, error) {
	n, err := j.store.Sweep(ctx, j.now().Add(-j.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.Info("swept idle sessions", zap.Int("count", n), zap.Duration("ttl", j.ttl))
	}
	return n, nil
}

// Run sweeps every interval until ctx is done. Sweep failures are logged and
// do not stop the loop. Run returns nil on cancellation.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				j.logger.Warn("sweeping sessions", zap.Error(err))
			}
		}
	}
}
