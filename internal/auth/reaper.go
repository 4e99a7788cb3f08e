package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reaper ages the session registry in the background. Every expire interval
// it marks sessions older than the expire horizon as expired; every delete
// interval it removes sessions older than the delete horizon that are
// already expired. Each record is touched in its own short transaction so a
// sweep never blocks authentication traffic, and both sweeps are idempotent.
type Reaper struct {
	sessions       SessionRegistry
	log            *zap.Logger
	expireInterval time.Duration
	expireHorizon  time.Duration
	deleteInterval time.Duration
	deleteHorizon  time.Duration
}

func NewReaper(sessions SessionRegistry, log *zap.Logger,
	expireInterval, expireHorizon, deleteInterval, deleteHorizon time.Duration) *Reaper {
	return &Reaper{
		sessions:       sessions,
		log:            log,
		expireInterval: expireInterval,
		expireHorizon:  expireHorizon,
		deleteInterval: deleteInterval,
		deleteHorizon:  deleteHorizon,
	}
}

// Run executes both sweeps on their intervals until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	expire := time.NewTicker(r.expireInterval)
	remove := time.NewTicker(r.deleteInterval)
	defer expire.Stop()
	defer remove.Stop()

	r.log.Info("session reaper started",
		zap.Duration("expire_interval", r.expireInterval),
		zap.Duration("delete_interval", r.deleteInterval))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("session reaper stopped")
			return
		case <-expire.C:
			r.ExpireSweep(ctx, time.Now().UTC())
		case <-remove.C:
			r.DeleteSweep(ctx, time.Now().UTC())
		}
	}
}

// ExpireSweep marks every session created before now minus the expire
// horizon as expired. Failures are logged and skipped; the next sweep
// retries them.
func (r *Reaper) ExpireSweep(ctx context.Context, now time.Time) {
	aged, err := r.sessions.FindOlderThan(ctx, now.Add(-r.expireHorizon))
	if err != nil {
		r.log.Error("expire sweep: listing sessions failed", zap.Error(err))
		return
	}
	var marked int
	for _, s := range aged {
		if s.Expired {
			continue
		}
		if err := r.sessions.MarkExpired(ctx, s.ID); err != nil {
			r.log.Error("expire sweep: marking session failed", zap.Int64("session_id", s.ID), zap.Error(err))
			continue
		}
		marked++
	}
	if marked > 0 {
		r.log.Info("expire sweep done", zap.Int("expired", marked))
	}
}

// DeleteSweep removes every session created before now minus the delete
// horizon, but only once it is already expired. A revoked but unexpired
// record survives until the expire sweep has aged it, so replay attempts
// keep receiving a deterministic rejection in the meantime.
func (r *Reaper) DeleteSweep(ctx context.Context, now time.Time) {
	aged, err := r.sessions.FindOlderThan(ctx, now.Add(-r.deleteHorizon))
	if err != nil {
		r.log.Error("delete sweep: listing sessions failed", zap.Error(err))
		return
	}
	var removed int
	for _, s := range aged {
		if !s.Expired {
			continue
		}
		if err := r.sessions.Delete(ctx, s.ID); err != nil {
			r.log.Error("delete sweep: deleting session failed", zap.Int64("session_id", s.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		r.log.Info("delete sweep done", zap.Int("deleted", removed))
	}
}
