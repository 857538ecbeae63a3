package sync

import (
	"testing"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

func TestBuildRows_MatchesWeekdays(t *testing.T) {
	mon, tue := 1, 2
	configs := []model.AvailabilityConfig{
		{
			ID: "mon", TenantID: "t1", DayOfWeek: &mon,
			StartMinute: 9 * 60, EndMinute: 10 * 60,
			SlotDurationMinutes: 30, CapacityPerSlot: 5, IsActive: true,
		},
		{
			ID: "tue", TenantID: "t1", DayOfWeek: &tue,
			StartMinute: 14 * 60, EndMinute: 15 * 60,
			SlotDurationMinutes: 60, CapacityPerSlot: 3, IsActive: true,
		},
	}

	// 2026-09-07 is a Monday.
	anchor := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	rows := BuildRows(configs, 3, anchor)

	// Monday: 2 half-hour slots. Tuesday: 1 slot. Wednesday: no config.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, r := range rows[:2] {
		if *r.AvailabilityConfigID != "mon" || !r.Date.Equal(anchor) {
			t.Fatalf("unexpected monday row %+v", r)
		}
		if r.TotalCapacity != 5 || r.AvailableCapacity != 5 || !r.IsAvailable {
			t.Fatalf("row not at full capacity: %+v", r)
		}
	}
	if *rows[2].AvailabilityConfigID != "tue" || !rows[2].Date.Equal(anchor.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected tuesday row %+v", rows[2])
	}
}

func TestBuildRows_SkipsInactiveAndExceptions(t *testing.T) {
	mon := 1
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	configs := []model.AvailabilityConfig{
		{
			ID: "inactive", TenantID: "t1", DayOfWeek: &mon,
			StartMinute: 9 * 60, EndMinute: 10 * 60,
			SlotDurationMinutes: 30, CapacityPerSlot: 5, IsActive: false,
		},
		{
			ID: "exception", TenantID: "t1", Date: &date,
			StartMinute: 9 * 60, EndMinute: 10 * 60,
			SlotDurationMinutes: 30, CapacityPerSlot: 5, IsActive: true, IsException: true,
		},
	}

	rows := BuildRows(configs, 7, date)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestBuildRows_Deterministic(t *testing.T) {
	mon := 1
	configs := []model.AvailabilityConfig{
		{
			ID: "mon", TenantID: "t1", DayOfWeek: &mon,
			StartMinute: 8 * 60, EndMinute: 9 * 60,
			SlotDurationMinutes: 30, CapacityPerSlot: 2, IsActive: true,
		},
	}
	anchor := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	a := BuildRows(configs, 14, anchor)
	b := BuildRows(configs, 14, anchor)
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Date != b[i].Date || a[i].StartMinute != b[i].StartMinute || a[i].EndMinute != b[i].EndMinute {
			t.Fatalf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildRows_DayOfWeekDenormalized(t *testing.T) {
	mon := 1
	configs := []model.AvailabilityConfig{
		{
			ID: "mon", TenantID: "t1", DayOfWeek: &mon,
			StartMinute: 8 * 60, EndMinute: 9 * 60,
			SlotDurationMinutes: 60, CapacityPerSlot: 2, IsActive: true,
		},
	}
	rows := BuildRows(configs, 7, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].DayOfWeek == nil || *rows[0].DayOfWeek != 1 {
		t.Fatalf("day_of_week not denormalized: %+v", rows[0].DayOfWeek)
	}
}
