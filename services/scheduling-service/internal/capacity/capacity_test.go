package capacity

import (
	"testing"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

func TestResolve_SpecialDateWinsOverDisabledWeekly(t *testing.T) {
	special := &model.SpecialDateCapacity{
		TenantID: "t1",
		Date:     time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
		Limit:    40,
	}
	weekly := &model.WeeklyCapacity{TenantID: "t1", DayOfWeek: 5, Limit: 20, Enabled: false}

	got := Resolve(special, weekly)
	if got == nil || *got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
}

func TestResolve_WeeklyOnlyWhenEnabled(t *testing.T) {
	enabled := &model.WeeklyCapacity{TenantID: "t1", DayOfWeek: 1, Limit: 15, Enabled: true}
	if got := Resolve(nil, enabled); got == nil || *got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}

	disabled := &model.WeeklyCapacity{TenantID: "t1", DayOfWeek: 1, Limit: 15, Enabled: false}
	if got := Resolve(nil, disabled); got != nil {
		t.Fatalf("disabled weekly must yield nil, got %d", *got)
	}
}

func TestResolve_NothingConfigured(t *testing.T) {
	if got := Resolve(nil, nil); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
}

func TestResolve_SpecialDateZeroLimitStillWins(t *testing.T) {
	// A zero-limit special date means "closed that day" and must still
	// override an enabled weekly default.
	special := &model.SpecialDateCapacity{TenantID: "t1", Date: time.Now(), Limit: 0}
	weekly := &model.WeeklyCapacity{TenantID: "t1", DayOfWeek: 2, Limit: 30, Enabled: true}

	got := Resolve(special, weekly)
	if got == nil || *got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
