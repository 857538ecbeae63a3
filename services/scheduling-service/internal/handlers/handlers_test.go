package handlers

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBookingCreate_RequiresTenantHeader(t *testing.T) {
	h := NewBookingHandler(nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/public/book", strings.NewReader(`{}`))

	h.Create(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestBookingCreate_MethodNotAllowed(t *testing.T) {
	h := NewBookingHandler(nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/public/book", nil)
	r.Header.Set("X-Tenant-Id", "t1")

	h.Create(rec, r)
	if rec.Code != 405 {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func TestBookingCreate_InvalidBody(t *testing.T) {
	h := NewBookingHandler(nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/public/book", strings.NewReader(`{not json`))
	r.Header.Set("X-Tenant-Id", "t1")

	h.Create(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestBookingUpdate_RequiresID(t *testing.T) {
	h := NewBookingHandler(nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/api/v1/bookings", strings.NewReader(`{}`))
	r.Header.Set("X-Tenant-Id", "t1")

	h.Bookings(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestAvailabilityConfigs_MethodNotAllowed(t *testing.T) {
	h := NewAvailabilityHandler(nil, nil, nil, nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/admin/availability", nil)
	r.Header.Set("X-Tenant-Id", "t1")

	h.Configs(rec, r)
	if rec.Code != 405 {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func TestAvailabilityCreate_InvalidConfig(t *testing.T) {
	h := NewAvailabilityHandler(nil, nil, nil, nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	body := `{"day_of_week":1,"start_time":"09:00","end_time":"08:00","slot_duration_minutes":30,"capacity_per_slot":5}`
	r := httptest.NewRequest("POST", "/api/v1/admin/availability", strings.NewReader(body))
	r.Header.Set("X-Tenant-Id", "t1")

	h.Configs(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestBulk_RejectsBadHorizon(t *testing.T) {
	h := NewAvailabilityHandler(nil, nil, nil, nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	body := `{"configs":[{"day_of_week":1,"start_time":"08:00","end_time":"09:00","slot_duration_minutes":30,"capacity_per_slot":5,"is_active":true}],"days_ahead":0}`
	r := httptest.NewRequest("POST", "/api/v1/admin/availability/bulk", strings.NewReader(body))
	r.Header.Set("X-Tenant-Id", "t1")

	h.Bulk(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSlots_RequiresDate(t *testing.T) {
	h := NewAvailabilityHandler(nil, nil, nil, nil, nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/public/slots", nil)
	r.Header.Set("X-Tenant-Id", "t1")

	h.Slots(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestCapacityWeekly_RejectsBadWeekday(t *testing.T) {
	h := NewCapacityHandler(nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/api/v1/admin/capacity/weekly?day_of_week=9", nil)
	r.Header.Set("X-Tenant-Id", "t1")

	h.Weekly(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestCapacitySpecial_RejectsBadDate(t *testing.T) {
	h := NewCapacityHandler(nil, discardLogger())
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/admin/capacity/special", strings.NewReader(`{"date":"12/24/2026","limit":10}`))
	r.Header.Set("X-Tenant-Id", "t1")

	h.Special(rec, r)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}
