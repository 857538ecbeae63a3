package timeslot

import (
	"testing"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

func mins(t *testing.T, clock string) int {
	t.Helper()
	m, err := ToMinutes(clock)
	if err != nil {
		t.Fatalf("ToMinutes(%q): %v", clock, err)
	}
	return m
}

func TestGenerate_Basic(t *testing.T) {
	slots := Generate(mins(t, "08:00"), mins(t, "09:00"), 30, nil)
	want := []Slot{
		{StartMinute: 480, EndMinute: 510},
		{StartMinute: 510, EndMinute: 540},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d = %+v, want %+v", i, slots[i], want[i])
		}
	}
}

func TestGenerate_BreakSkipsSlotStartingInside(t *testing.T) {
	breaks := []model.BreakPeriod{{StartMinute: mins(t, "08:30"), EndMinute: mins(t, "09:00")}}
	slots := Generate(mins(t, "08:00"), mins(t, "09:00"), 30, breaks)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].StartMinute != 480 || slots[0].EndMinute != 510 {
		t.Fatalf("unexpected slot %+v", slots[0])
	}
}

func TestGenerate_BreakDoesNotShiftGrid(t *testing.T) {
	// 09:00-12:00, 60min slots, break 09:30-10:30. The 10:00 candidate starts
	// inside the break and is skipped, but 11:00 is emitted at its grid
	// position untouched.
	breaks := []model.BreakPeriod{{StartMinute: mins(t, "09:30"), EndMinute: mins(t, "10:30")}}
	slots := Generate(mins(t, "09:00"), mins(t, "12:00"), 60, breaks)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].StartMinute != mins(t, "09:00") || slots[1].StartMinute != mins(t, "11:00") {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestGenerate_SlotOverlappingBreakTailIsKept(t *testing.T) {
	// Break 08:15-08:45: the 08:30 slot starts inside it and is dropped, but
	// 08:00 overlaps the break's head and is kept because only the start
	// minute is checked.
	breaks := []model.BreakPeriod{{StartMinute: mins(t, "08:15"), EndMinute: mins(t, "08:45")}}
	slots := Generate(mins(t, "08:00"), mins(t, "09:00"), 30, breaks)
	if len(slots) != 1 || slots[0].StartMinute != mins(t, "08:00") {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestGenerate_WindowShorterThanDuration(t *testing.T) {
	if slots := Generate(mins(t, "08:00"), mins(t, "08:20"), 30, nil); len(slots) != 0 {
		t.Fatalf("expected no slots, got %+v", slots)
	}
}

func TestGenerate_PartialTrailingSlotDropped(t *testing.T) {
	// 08:00-08:50 with 30min slots: only 08:00-08:30 fits.
	slots := Generate(mins(t, "08:00"), mins(t, "08:50"), 30, nil)
	if len(slots) != 1 || slots[0].EndMinute != mins(t, "08:30") {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestGenerate_InvalidInputs(t *testing.T) {
	if slots := Generate(540, 480, 30, nil); slots != nil {
		t.Fatalf("expected nil for inverted window, got %+v", slots)
	}
	if slots := Generate(480, 540, 0, nil); slots != nil {
		t.Fatalf("expected nil for zero duration, got %+v", slots)
	}
}
