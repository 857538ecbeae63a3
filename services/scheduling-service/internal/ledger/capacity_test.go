package ledger

import (
	"testing"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

func TestCheckCapacity_Insufficient(t *testing.T) {
	// Requesting 3 seats against 2 available fails with both numbers carried.
	err := checkCapacity(2, 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !model.IsInsufficientCapacity(err) {
		t.Fatalf("expected InsufficientCapacityError, got %T", err)
	}
	ice := err.(*model.InsufficientCapacityError)
	if ice.Available != 2 || ice.Required != 3 {
		t.Fatalf("available=%d required=%d, want 2/3", ice.Available, ice.Required)
	}
}

func TestCheckCapacity_ExactFitThenZero(t *testing.T) {
	// Booking 2 of 2 succeeds; the next seat fails against 0.
	if err := checkCapacity(2, 2); err != nil {
		t.Fatalf("exact fit rejected: %v", err)
	}
	err := checkCapacity(0, 1)
	if !model.IsInsufficientCapacity(err) {
		t.Fatalf("expected InsufficientCapacityError, got %v", err)
	}
}

func TestOccupancyDelta(t *testing.T) {
	cases := []struct {
		name      string
		oldStatus string
		oldAdults int
		newStatus string
		newAdults int
		wantDelta int
	}{
		{"adults raised", model.BookingPending, 2, model.BookingPending, 5, 3},
		{"adults lowered", model.BookingConfirmed, 4, model.BookingConfirmed, 1, -3},
		{"status only", model.BookingPending, 2, model.BookingConfirmed, 2, 0},
		{"completion keeps seats", model.BookingConfirmed, 3, model.BookingCompleted, 3, 0},
		{"cancellation releases", model.BookingConfirmed, 3, model.BookingCancelled, 3, -3},
		{"cancel with adult edit releases old seats", model.BookingPending, 2, model.BookingCancelled, 5, -2},
	}
	for _, c := range cases {
		got := occupancyDelta(c.oldStatus, c.oldAdults, c.newStatus, c.newAdults)
		if got != c.wantDelta {
			t.Fatalf("%s: delta=%d, want %d", c.name, got, c.wantDelta)
		}
	}
}

func TestAllowedTransition(t *testing.T) {
	allowed := [][2]string{
		{model.BookingPending, model.BookingConfirmed},
		{model.BookingPending, model.BookingCancelled},
		{model.BookingConfirmed, model.BookingCompleted},
		{model.BookingConfirmed, model.BookingCancelled},
		{model.BookingPending, model.BookingPending},
		{model.BookingCancelled, model.BookingCancelled},
	}
	for _, p := range allowed {
		if !allowedTransition(p[0], p[1]) {
			t.Fatalf("%s -> %s should be allowed", p[0], p[1])
		}
	}

	forbidden := [][2]string{
		{model.BookingCancelled, model.BookingPending},
		{model.BookingCancelled, model.BookingConfirmed},
		{model.BookingCompleted, model.BookingCancelled},
		{model.BookingCompleted, model.BookingPending},
		{model.BookingPending, model.BookingCompleted},
	}
	for _, p := range forbidden {
		if allowedTransition(p[0], p[1]) {
			t.Fatalf("%s -> %s should be rejected", p[0], p[1])
		}
	}
}

func TestCreateRequestValidate(t *testing.T) {
	base := CreateRequest{
		TenantID:      "t1",
		TimeSlotID:    "s1",
		CustomerPhone: "+8801711000000",
		Adults:        1,
	}
	if err := base.validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := base
	bad.Adults = 0
	if err := bad.validate(); !model.IsValidation(err) {
		t.Fatalf("expected validation error for zero adults, got %v", err)
	}

	bad = base
	bad.Children = -1
	if err := bad.validate(); !model.IsValidation(err) {
		t.Fatalf("expected validation error for negative children, got %v", err)
	}

	bad = base
	bad.CustomerPhone = "   "
	if err := bad.validate(); !model.IsValidation(err) {
		t.Fatalf("expected validation error for blank phone, got %v", err)
	}
}
