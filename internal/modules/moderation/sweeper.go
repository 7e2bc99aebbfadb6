package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"
)

// PinnedLister lists every topic currently present in a pinned index, across
// all categories. The sweep uses it to find expiry candidates.
type PinnedLister interface {
	PinnedMembers(ctx context.Context) ([]string, error)
}

// Sweeper periodically runs the pin-expiry check. The schedule is a cron
// expression; SetPinExpiry itself schedules nothing, it only records the
// timestamp this loop acts on.
type Sweeper struct {
	service *Service
	pinned  PinnedLister
	expr    string
	gron    *gronx.Gronx
	stop    chan struct{}
}

// NewSweeper creates a sweeper running on the given cron schedule.
func NewSweeper(service *Service, pinned PinnedLister, cronExpr string) *Sweeper {
	return &Sweeper{
		service: service,
		pinned:  pinned,
		expr:    cronExpr,
		gron:    gronx.New(),
		stop:    make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The loop ticks every minute
// and sweeps when the cron expression is due.
func (sw *Sweeper) Start(ctx context.Context) {
	if !sw.gron.IsValid(sw.expr) {
		slog.Error("Invalid pin sweep cron expression, sweeper disabled", "expr", sw.expr)
		return
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sw.stop:
				return
			case <-ticker.C:
				due, err := sw.gron.IsDue(sw.expr)
				if err != nil || !due {
					continue
				}
				if err := sw.Sweep(ctx); err != nil {
					// Best-effort: a failed sweep is retried on the next
					// due tick.
					slog.Error("Pin expiry sweep failed", "error", err)
				}
			}
		}
	}()
}

// Sweep runs a single pin-expiry pass over all pinned topics.
func (sw *Sweeper) Sweep(ctx context.Context) error {
	tids, err := sw.pinned.PinnedMembers(ctx)
	if err != nil {
		return err
	}
	if len(tids) == 0 {
		return nil
	}

	remaining, err := sw.service.CheckPinExpiry(ctx, tids)
	if err != nil {
		return err
	}

	if expired := len(tids) - len(remaining); expired > 0 {
		slog.Info("Unpinned expired topics", "expired", expired, "checked", len(tids))
	}
	return nil
}

// Stop terminates the sweep loop.
func (sw *Sweeper) Stop() {
	close(sw.stop)
}
