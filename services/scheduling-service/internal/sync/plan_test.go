package sync

import (
	"testing"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/timeslot"
)

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func weeklyConfig(capacity int) model.AvailabilityConfig {
	dow := 1
	return model.AvailabilityConfig{
		ID:                  "cfg-1",
		TenantID:            "t1",
		DayOfWeek:           &dow,
		StartMinute:         9 * 60,
		EndMinute:           11 * 60,
		SlotDurationMinutes: 60,
		CapacityPerSlot:     capacity,
		IsActive:            true,
	}
}

func existingSlot(id string, start, total, available, bookings int) storage.SlotWithBookings {
	cfgID := "cfg-1"
	return storage.SlotWithBookings{
		TimeSlot: model.TimeSlot{
			ID:                   id,
			TenantID:             "t1",
			AvailabilityConfigID: &cfgID,
			Date:                 monday,
			StartMinute:          start,
			EndMinute:            start + 60,
			TotalCapacity:        total,
			AvailableCapacity:    available,
			IsAvailable:          true,
		},
		BookingCount: bookings,
	}
}

func TestBuildPlan_CapacityRaiseRecomputesAvailable(t *testing.T) {
	// A booked 09:00 slot with 3 of 5 seats used; capacity raised to 8 must
	// yield total=8, available=5.
	cfg := weeklyConfig(8)
	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, 60, nil)
	existing := []storage.SlotWithBookings{
		existingSlot("s1", 9*60, 5, 2, 1),
		existingSlot("s2", 10*60, 5, 5, 0),
	}

	plan := BuildPlan(cfg, desired, existing)
	if len(plan.Update) != 2 || len(plan.Create) != 0 || len(plan.Delete) != 0 {
		t.Fatalf("unexpected plan %+v", plan)
	}

	var booked *model.TimeSlot
	for i := range plan.Update {
		if plan.Update[i].ID == "s1" {
			booked = &plan.Update[i]
		}
	}
	if booked == nil {
		t.Fatalf("booked slot missing from updates")
	}
	if booked.TotalCapacity != 8 || booked.AvailableCapacity != 5 {
		t.Fatalf("capacity raise: total=%d available=%d, want 8/5", booked.TotalCapacity, booked.AvailableCapacity)
	}
}

func TestBuildPlan_CapacityShrinkLeavesBookedSlotAlone(t *testing.T) {
	// Shrinking below current usage must not reduce the booked slot's
	// capacity fields.
	cfg := weeklyConfig(2)
	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, 60, nil)
	existing := []storage.SlotWithBookings{
		existingSlot("s1", 9*60, 5, 2, 3),
	}

	plan := BuildPlan(cfg, desired, existing)
	if len(plan.Update) != 1 {
		t.Fatalf("expected 1 update, got %+v", plan)
	}
	upd := plan.Update[0]
	if upd.TotalCapacity != 5 || upd.AvailableCapacity != 2 {
		t.Fatalf("shrink touched capacity: total=%d available=%d", upd.TotalCapacity, upd.AvailableCapacity)
	}
}

func TestBuildPlan_BookedUndesiredIsKept(t *testing.T) {
	// Config window moves to 10:00-11:00; the booked 09:00 slot is no longer
	// desired but must survive untouched.
	cfg := weeklyConfig(5)
	cfg.StartMinute = 10 * 60
	cfg.EndMinute = 11 * 60
	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, 60, nil)
	existing := []storage.SlotWithBookings{
		existingSlot("s1", 9*60, 5, 3, 2),
		existingSlot("s2", 10*60, 5, 5, 0),
	}

	plan := BuildPlan(cfg, desired, existing)
	if len(plan.Keep) != 1 || plan.Keep[0].ID != "s1" {
		t.Fatalf("expected s1 kept, got %+v", plan.Keep)
	}
	if len(plan.Delete) != 0 {
		t.Fatalf("booked slot must never be deleted: %+v", plan.Delete)
	}
}

func TestBuildPlan_UnbookedSlots(t *testing.T) {
	// Unbooked & desired is reset wholesale; unbooked & undesired is deleted;
	// desired & missing is created.
	cfg := weeklyConfig(7)
	cfg.EndMinute = 12 * 60 // desired now 09,10,11
	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, 60, nil)
	existing := []storage.SlotWithBookings{
		existingSlot("s1", 9*60, 5, 1, 0),
		existingSlot("s2", 8*60, 5, 5, 0),
	}

	plan := BuildPlan(cfg, desired, existing)
	if len(plan.Update) != 1 || plan.Update[0].ID != "s1" {
		t.Fatalf("expected s1 updated, got %+v", plan.Update)
	}
	if plan.Update[0].TotalCapacity != 7 || plan.Update[0].AvailableCapacity != 7 {
		t.Fatalf("unbooked desired slot not reset: %+v", plan.Update[0])
	}
	if len(plan.Delete) != 1 || plan.Delete[0] != "s2" {
		t.Fatalf("expected s2 deleted, got %+v", plan.Delete)
	}
	if len(plan.Create) != 2 {
		t.Fatalf("expected 2 creates (10:00, 11:00), got %+v", plan.Create)
	}
	for _, c := range plan.Create {
		if c.Slot.StartMinute != 10*60 && c.Slot.StartMinute != 11*60 {
			t.Fatalf("unexpected create %+v", c)
		}
		if !c.Date.Equal(monday) {
			t.Fatalf("create bound to wrong date %v", c.Date)
		}
	}
}

func TestBuildPlan_ExceptionDateCreatesWhenNothingMaterialized(t *testing.T) {
	date := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	cfg := weeklyConfig(4)
	cfg.DayOfWeek = nil
	cfg.Date = &date
	cfg.IsException = true
	desired := timeslot.Generate(cfg.StartMinute, cfg.EndMinute, 60, nil)

	plan := BuildPlan(cfg, desired, nil)
	if len(plan.Create) != 2 {
		t.Fatalf("expected 2 creates for the exception date, got %+v", plan.Create)
	}
	if !plan.Create[0].Date.Equal(date) {
		t.Fatalf("create bound to %v, want %v", plan.Create[0].Date, date)
	}
}

func TestPartitionInactive(t *testing.T) {
	existing := []storage.SlotWithBookings{
		existingSlot("s1", 9*60, 5, 3, 2),
		existingSlot("s2", 10*60, 5, 5, 0),
	}
	deleteIDs, retireIDs := PartitionInactive(existing)
	if len(deleteIDs) != 1 || deleteIDs[0] != "s2" {
		t.Fatalf("expected s2 deleted, got %v", deleteIDs)
	}
	if len(retireIDs) != 1 || retireIDs[0] != "s1" {
		t.Fatalf("expected s1 retired, got %v", retireIDs)
	}
}
