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

// Synchronizer reconciles a single config's materialized slots after the
// config is created, updated, or deactivated. Never destroys booked slots.
type Synchronizer struct {
	configs *storage.ConfigRepository
	slots   *storage.SlotRepository
	logger  *slog.Logger
}

func NewSynchronizer(configs *storage.ConfigRepository, slots *storage.SlotRepository, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{configs: configs, slots: slots, logger: logger}
}

// SyncConfig runs the full reconciliation inside the caller's transaction and
// returns the slots now current for the config (updated plus created).
// Existing slot rows are locked for the duration, serializing against
// concurrent bookings on the same slots.
func (s *Synchronizer) SyncConfig(ctx context.Context, tx pgx.Tx, tenantID, configID string) ([]model.TimeSlot, error) {
	cfg, err := s.configs.Get(ctx, tx, tenantID, configID)
	if err != nil {
		return nil, err
	}

	existing, err := s.slots.ListForConfigWithBookings(ctx, tx, tenantID, configID)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	if !cfg.IsActive {
		deleteIDs, retireIDs := PartitionInactive(existing)
		if err := s.slots.DeleteByIDs(ctx, tx, tenantID, deleteIDs); err != nil {
			return nil, fmt.Errorf("delete slots: %w", err)
		}
		if err := s.slots.SetUnavailable(ctx, tx, tenantID, retireIDs); err != nil {
			return nil, fmt.Errorf("retire slots: %w", err)
		}
		s.logger.Info("config deactivated",
			"tenant_id", tenantID,
			"config_id", configID,
			"deleted", len(deleteIDs),
			"retired", len(retireIDs))
		return nil, nil
	}

	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, cfg.SlotDurationMinutes, cfg.Breaks)
	plan := BuildPlan(cfg, desired, existing)

	var current []model.TimeSlot
	for i := range plan.Update {
		if err := s.slots.UpdateShape(ctx, tx, &plan.Update[i]); err != nil {
			return nil, fmt.Errorf("update slot: %w", err)
		}
		current = append(current, plan.Update[i])
	}
	if err := s.slots.DeleteByIDs(ctx, tx, tenantID, plan.Delete); err != nil {
		return nil, fmt.Errorf("delete slots: %w", err)
	}
	for _, c := range plan.Create {
		slot := newSlotForConfig(cfg, c.Date, c.Slot)
		if err := s.slots.Create(ctx, tx, &slot); err != nil {
			return nil, fmt.Errorf("create slot: %w", err)
		}
		current = append(current, slot)
	}

	s.logger.Info("config synced",
		"tenant_id", tenantID,
		"config_id", configID,
		"updated", len(plan.Update),
		"created", len(plan.Create),
		"kept", len(plan.Keep),
		"deleted", len(plan.Delete))
	return current, nil
}

func newSlotForConfig(cfg model.AvailabilityConfig, date time.Time, slot timeslot.Slot) model.TimeSlot {
	configID := cfg.ID
	dow := cfg.DayOfWeek
	if dow == nil {
		wd := int(date.Weekday())
		dow = &wd
	}
	return model.TimeSlot{
		TenantID:             cfg.TenantID,
		AvailabilityConfigID: &configID,
		DayOfWeek:            dow,
		Date:                 model.DateOnly(date),
		StartMinute:          slot.StartMinute,
		EndMinute:            slot.EndMinute,
		TotalCapacity:        cfg.CapacityPerSlot,
		AvailableCapacity:    cfg.CapacityPerSlot,
		IsAvailable:          true,
	}
}
