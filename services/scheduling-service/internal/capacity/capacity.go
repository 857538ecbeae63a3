package capacity

import (
	"context"
	"log/slog"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
)

// Service answers "how many seats on this date" from the lightweight weekly
// and special-date tables. It is a fast oracle, independent of slot
// materialization; the ledger remains the source of truth for actual
// bookability.
type Service struct {
	repo   *storage.CapacityRepository
	logger *slog.Logger
}

func NewService(repo *storage.CapacityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve picks the effective limit. A special-date entry wins by presence
// alone; otherwise the weekly default applies only when enabled; otherwise
// nil means no configured capacity, the date is closed.
func Resolve(special *model.SpecialDateCapacity, weekly *model.WeeklyCapacity) *int {
	if special != nil {
		limit := special.Limit
		return &limit
	}
	if weekly != nil && weekly.Enabled {
		limit := weekly.Limit
		return &limit
	}
	return nil
}

func (s *Service) ForDate(ctx context.Context, tenantID string, date time.Time) (*int, error) {
	date = model.DateOnly(date)

	var special *model.SpecialDateCapacity
	if sd, ok, err := s.repo.GetSpecialDate(ctx, tenantID, date); err != nil {
		return nil, err
	} else if ok {
		special = &sd
	}

	var weekly *model.WeeklyCapacity
	if w, ok, err := s.repo.GetWeekly(ctx, tenantID, int(date.Weekday())); err != nil {
		return nil, err
	} else if ok {
		weekly = &w
	}

	return Resolve(special, weekly), nil
}

func (s *Service) SetWeekly(ctx context.Context, w model.WeeklyCapacity) error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return model.Invalid("dayOfWeek", "must be 0..6")
	}
	if w.Limit < 0 {
		return model.Invalid("limit", "must not be negative")
	}
	return s.repo.UpsertWeekly(ctx, w)
}

func (s *Service) DeleteWeekly(ctx context.Context, tenantID string, dayOfWeek int) error {
	return s.repo.DeleteWeekly(ctx, tenantID, dayOfWeek)
}

func (s *Service) CreateSpecialDate(ctx context.Context, sd model.SpecialDateCapacity) error {
	if sd.Limit < 0 {
		return model.Invalid("limit", "must not be negative")
	}
	sd.Date = model.DateOnly(sd.Date)
	return s.repo.CreateSpecialDate(ctx, sd)
}

func (s *Service) UpdateSpecialDate(ctx context.Context, sd model.SpecialDateCapacity) error {
	if sd.Limit < 0 {
		return model.Invalid("limit", "must not be negative")
	}
	sd.Date = model.DateOnly(sd.Date)
	return s.repo.UpdateSpecialDate(ctx, sd)
}

func (s *Service) DeleteSpecialDate(ctx context.Context, tenantID string, date time.Time) error {
	return s.repo.DeleteSpecialDate(ctx, tenantID, model.DateOnly(date))
}

func (s *Service) ListWeekly(ctx context.Context, tenantID string) ([]model.WeeklyCapacity, error) {
	return s.repo.ListWeekly(ctx, tenantID)
}

func (s *Service) ListSpecialDates(ctx context.Context, tenantID string) ([]model.SpecialDateCapacity, error) {
	return s.repo.ListSpecialDates(ctx, tenantID)
}
