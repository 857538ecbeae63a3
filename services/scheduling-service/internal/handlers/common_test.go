package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

func intPtr(v int) *int { return &v }

func validConfigDTO() configDTO {
	return configDTO{
		DayOfWeek:           intPtr(1),
		StartTime:           "08:00",
		EndTime:             "09:00",
		SlotDurationMinutes: 30,
		CapacityPerSlot:     5,
		IsActive:            true,
	}
}

func TestConfigFromDTO_Valid(t *testing.T) {
	cfg, err := configFromDTO("t1", validConfigDTO())
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if cfg.StartMinute != 480 || cfg.EndMinute != 540 {
		t.Fatalf("minutes not converted: %d-%d", cfg.StartMinute, cfg.EndMinute)
	}
	if cfg.TenantID != "t1" {
		t.Fatalf("tenant not set: %q", cfg.TenantID)
	}
}

func TestConfigFromDTO_WeekdayXorDate(t *testing.T) {
	both := validConfigDTO()
	both.Date = "2026-12-24"
	if _, err := configFromDTO("t1", both); !model.IsValidation(err) {
		t.Fatalf("expected validation error for both set, got %v", err)
	}

	neither := validConfigDTO()
	neither.DayOfWeek = nil
	if _, err := configFromDTO("t1", neither); !model.IsValidation(err) {
		t.Fatalf("expected validation error for neither set, got %v", err)
	}

	dateOnly := validConfigDTO()
	dateOnly.DayOfWeek = nil
	dateOnly.Date = "2026-12-24"
	dateOnly.IsException = true
	cfg, err := configFromDTO("t1", dateOnly)
	if err != nil {
		t.Fatalf("date-only config rejected: %v", err)
	}
	if cfg.Date == nil || cfg.Date.Format(dateLayout) != "2026-12-24" {
		t.Fatalf("date not parsed: %v", cfg.Date)
	}
}

func TestConfigFromDTO_Invalid(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*configDTO)
	}{
		{"bad start time", func(c *configDTO) { c.StartTime = "8:00" }},
		{"end before start", func(c *configDTO) { c.EndTime = "07:00" }},
		{"end equals start", func(c *configDTO) { c.EndTime = "08:00" }},
		{"zero duration", func(c *configDTO) { c.SlotDurationMinutes = 0 }},
		{"zero capacity", func(c *configDTO) { c.CapacityPerSlot = 0 }},
		{"weekday out of range", func(c *configDTO) { c.DayOfWeek = intPtr(7) }},
		{"bad date", func(c *configDTO) { c.DayOfWeek = nil; c.Date = "24/12/2026" }},
		{"inverted break", func(c *configDTO) {
			c.BreakPeriods = []breakPeriodDTO{{StartTime: "08:45", EndTime: "08:30"}}
		}},
		{"malformed break time", func(c *configDTO) {
			c.BreakPeriods = []breakPeriodDTO{{StartTime: "0830", EndTime: "08:45"}}
		}},
	}
	for _, c := range cases {
		dto := validConfigDTO()
		c.mut(&dto)
		if _, err := configFromDTO("t1", dto); !model.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", c.name, err)
		}
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{model.Invalid("adults", "must be at least 1"), 400},
		{model.ErrSlotNotFound, 404},
		{model.ErrBookingNotFound, 404},
		{&model.InsufficientCapacityError{Available: 2, Required: 3}, 409},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, c.err)
		if rec.Code != c.status {
			t.Fatalf("%v: status %d, want %d", c.err, rec.Code, c.status)
		}
	}
}

func TestWriteError_InsufficientCapacityBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &model.InsufficientCapacityError{Available: 2, Required: 3})

	var body struct {
		Available int `json:"available"`
		Required  int `json:"required"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Available != 2 || body.Required != 3 {
		t.Fatalf("body available=%d required=%d, want 2/3", body.Available, body.Required)
	}
}

func TestParseDateParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/public/slots?date=2026-09-07", nil)
	d, err := parseDateParam(r)
	if err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	if d.Format(dateLayout) != "2026-09-07" {
		t.Fatalf("got %v", d)
	}

	for _, q := range []string{"", "date=07-09-2026", "date=2026-9-7"} {
		r := httptest.NewRequest("GET", "/api/v1/public/slots?"+q, nil)
		if _, err := parseDateParam(r); !model.IsValidation(err) {
			t.Fatalf("%q: expected validation error, got %v", q, err)
		}
	}
}
