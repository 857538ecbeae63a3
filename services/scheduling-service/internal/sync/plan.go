package sync

import (
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/timeslot"
)

// CreateSlot is a desired slot missing from the materialized set, bound to a
// concrete date.
type CreateSlot struct {
	Date time.Time
	Slot timeslot.Slot
}

// Plan is the reconciliation outcome for one config. Update carries the
// fully-resolved new field values; Keep lists booked slots no longer matching
// the config, which must not be touched.
type Plan struct {
	Create []CreateSlot
	Update []model.TimeSlot
	Keep   []model.TimeSlot
	Delete []string
}

// BuildPlan classifies every (date, start) pair by booking presence and by
// whether the desired grid still contains it. Booking presence dominates:
// a booked slot is never deleted or shrunk, whatever the config now says.
//
// Weekly configs are reconciled on every date already materialized for them;
// a date-specific exception also reconciles its own date so missing slots
// are created there.
func BuildPlan(cfg model.AvailabilityConfig, desired []timeslot.Slot, existing []storage.SlotWithBookings) Plan {
	desiredByStart := make(map[int]timeslot.Slot, len(desired))
	for _, d := range desired {
		desiredByStart[d.StartMinute] = d
	}

	var dates []time.Time
	seen := make(map[time.Time]bool)
	addDate := func(d time.Time) {
		d = model.DateOnly(d)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	for _, s := range existing {
		addDate(s.Date)
	}
	if cfg.Date != nil {
		addDate(*cfg.Date)
	}

	var plan Plan
	for _, date := range dates {
		startsPresent := make(map[int]bool)
		for _, s := range existing {
			if !model.DateOnly(s.Date).Equal(date) {
				continue
			}
			startsPresent[s.StartMinute] = true
			booked := s.BookingCount > 0
			want, wanted := desiredByStart[s.StartMinute]

			switch {
			case booked && wanted:
				upd := s.TimeSlot
				upd.EndMinute = want.EndMinute
				upd.IsAvailable = true
				if cfg.CapacityPerSlot > s.TotalCapacity {
					used := s.TotalCapacity - s.AvailableCapacity
					upd.TotalCapacity = cfg.CapacityPerSlot
					upd.AvailableCapacity = cfg.CapacityPerSlot - used
				}
				plan.Update = append(plan.Update, upd)
			case booked && !wanted:
				plan.Keep = append(plan.Keep, s.TimeSlot)
			case !booked && wanted:
				upd := s.TimeSlot
				upd.EndMinute = want.EndMinute
				upd.TotalCapacity = cfg.CapacityPerSlot
				upd.AvailableCapacity = cfg.CapacityPerSlot
				upd.IsAvailable = true
				plan.Update = append(plan.Update, upd)
			default:
				plan.Delete = append(plan.Delete, s.ID)
			}
		}

		for _, d := range desired {
			if !startsPresent[d.StartMinute] {
				plan.Create = append(plan.Create, CreateSlot{Date: date, Slot: d})
			}
		}
	}
	return plan
}

// PartitionInactive splits a deactivated config's slots into the set to
// delete (no bookings) and the set to soft-retire (has bookings, capacity
// left untouched).
func PartitionInactive(existing []storage.SlotWithBookings) (deleteIDs, retireIDs []string) {
	for _, s := range existing {
		if s.BookingCount > 0 {
			retireIDs = append(retireIDs, s.ID)
		} else {
			deleteIDs = append(deleteIDs, s.ID)
		}
	}
	return deleteIDs, retireIDs
}
