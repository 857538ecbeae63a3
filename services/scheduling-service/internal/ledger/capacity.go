package ledger

import "github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"

// checkCapacity guards a seat request against what the slot has left.
func checkCapacity(available, required int) error {
	if required > available {
		return &model.InsufficientCapacityError{Available: available, Required: required}
	}
	return nil
}

// occupancyDelta is the net change in seats a booking holds on its slot when
// its status or adult count changes. Children never count. A positive delta
// consumes capacity, a negative one releases it; transition to CANCELLED
// releases everything the booking held.
func occupancyDelta(oldStatus string, oldAdults int, newStatus string, newAdults int) int {
	before := 0
	if model.StatusOccupiesCapacity(oldStatus) {
		before = oldAdults
	}
	after := 0
	if model.StatusOccupiesCapacity(newStatus) {
		after = newAdults
	}
	return after - before
}

// allowedTransition encodes the booking status machine:
// PENDING -> CONFIRMED -> COMPLETED, with CANCELLED reachable from PENDING or
// CONFIRMED. CANCELLED is terminal.
func allowedTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case model.BookingPending:
		return to == model.BookingConfirmed || to == model.BookingCancelled
	case model.BookingConfirmed:
		return to == model.BookingCompleted || to == model.BookingCancelled
	}
	return false
}
