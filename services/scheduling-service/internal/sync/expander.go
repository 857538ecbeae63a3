package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/timeslot"
)

// Expander materializes slots over a rolling horizon from weekly configs.
// Date exceptions are not expanded here; those are reconciled by the
// Synchronizer when their config is written.
type Expander struct {
	configs *storage.ConfigRepository
	slots   *storage.SlotRepository
	logger  *slog.Logger
}

func NewExpander(configs *storage.ConfigRepository, slots *storage.SlotRepository, logger *slog.Logger) *Expander {
	return &Expander{configs: configs, slots: slots, logger: logger}
}

// BuildRows walks anchor..anchor+daysAhead-1, picks the first active weekly
// config matching each day's weekday, and produces the slot rows for that
// day. Pure; insertion and conflict handling happen elsewhere.
func BuildRows(configs []model.AvailabilityConfig, daysAhead int, anchor time.Time) []model.TimeSlot {
	var rows []model.TimeSlot
	anchor = model.DateOnly(anchor)
	for i := 0; i < daysAhead; i++ {
		day := anchor.AddDate(0, 0, i)
		cfg, ok := configForWeekday(configs, int(day.Weekday()))
		if !ok {
			continue
		}
		for _, s := range timeslot.Generate(cfg.StartMinute, cfg.EndMinute, cfg.SlotDurationMinutes, cfg.Breaks) {
			rows = append(rows, newSlotForConfig(cfg, day, s))
		}
	}
	return rows
}

func configForWeekday(configs []model.AvailabilityConfig, weekday int) (model.AvailabilityConfig, bool) {
	for _, c := range configs {
		if c.IsActive && c.DayOfWeek != nil && *c.DayOfWeek == weekday {
			return c, true
		}
	}
	return model.AvailabilityConfig{}, false
}

// ExpandTx inserts the horizon's rows inside the caller's transaction,
// skipping rows that already exist. Returns the number inserted.
func (e *Expander) ExpandTx(ctx context.Context, tx pgx.Tx, configs []model.AvailabilityConfig, daysAhead int, anchor time.Time) (int, error) {
	rows := BuildRows(configs, daysAhead, anchor)
	return e.slots.InsertBatch(ctx, tx, rows)
}

// Expand is the standalone form: loads the tenant's active configs and runs
// the expansion in its own transaction.
func (e *Expander) Expand(ctx context.Context, tenantID string, daysAhead int, anchor time.Time) (int, error) {
	configs, err := e.configs.ListActive(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("list configs: %w", err)
	}

	tx, err := e.slots.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted, err := e.ExpandTx(ctx, tx, configs, daysAhead, anchor)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	e.logger.Info("horizon expanded",
		"tenant_id", tenantID,
		"days_ahead", daysAhead,
		"slots_inserted", inserted)
	return inserted, nil
}
