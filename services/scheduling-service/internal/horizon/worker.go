package horizon

import (
	"context"
	"log/slog"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	syncpkg "github.com/tareq-aziz/slotbook/services/scheduling-service/internal/sync"
)

// Worker keeps the rolling slot horizon materialized: every interval it
// re-expands each tenant's weekly configs. Re-runs are idempotent, so
// overlap with admin-triggered expansion is harmless.
type Worker struct {
	configs   *storage.ConfigRepository
	expander  *syncpkg.Expander
	logger    *slog.Logger
	interval  time.Duration
	daysAhead int
}

func NewWorker(configs *storage.ConfigRepository, expander *syncpkg.Expander, logger *slog.Logger, interval time.Duration, daysAhead int) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	if daysAhead <= 0 {
		daysAhead = 30
	}
	return &Worker{
		configs:   configs,
		expander:  expander,
		logger:    logger,
		interval:  interval,
		daysAhead: daysAhead,
	}
}

func (w *Worker) Run(ctx context.Context) {
	// One pass at startup so a fresh deployment has slots immediately.
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	tenants, err := w.configs.DistinctTenants(ctx)
	if err != nil {
		w.logger.Error("horizon tick: list tenants failed", "err", err)
		return
	}

	now := time.Now()
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.expander.Expand(ctx, tenant, w.daysAhead, now); err != nil {
			w.logger.Error("horizon expansion failed", "tenant_id", tenant, "err", err)
		}
	}
}
