package timeslot

import "github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"

// Slot is a generated time window, minute offsets from midnight, half-open.
type Slot struct {
	StartMinute int
	EndMinute   int
}

// Generate produces the ordered slot grid for one day's window.
//
// The cursor starts at startMinute and advances by durationMinutes on every
// step whether or not the candidate is emitted, so breaks never shift the
// boundaries of later slots. A candidate is skipped when its start minute
// falls inside a break's half-open [start, end); only the start minute is
// inspected, a slot overlapping a break's tail is still emitted.
func Generate(startMinute, endMinute, durationMinutes int, breaks []model.BreakPeriod) []Slot {
	if durationMinutes <= 0 || endMinute <= startMinute {
		return nil
	}

	var slots []Slot
	for cursor := startMinute; cursor+durationMinutes <= endMinute; cursor += durationMinutes {
		if inBreak(cursor, breaks) {
			continue
		}
		slots = append(slots, Slot{StartMinute: cursor, EndMinute: cursor + durationMinutes})
	}
	return slots
}

func inBreak(minute int, breaks []model.BreakPeriod) bool {
	for _, b := range breaks {
		if minute >= b.StartMinute && minute < b.EndMinute {
			return true
		}
	}
	return false
}
