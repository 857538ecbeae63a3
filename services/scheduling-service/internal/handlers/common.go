package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/timeslot"
)

const dateLayout = "2006-01-02"

func tenantFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Capacity
// failures carry the numbers so clients can offer alternate slots; internal
// failures stay opaque.
func writeError(w http.ResponseWriter, err error) {
	var ice *model.InsufficientCapacityError
	switch {
	case model.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case model.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.As(err, &ice):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient capacity",
			"available": ice.Available,
			"required":  ice.Required,
		})
	case storage.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

func parseDateParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return time.Time{}, model.Invalid("date", "required")
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, model.Invalid("date", "want YYYY-MM-DD")
	}
	return d, nil
}

type breakPeriodDTO struct {
	ID        string `json:"id,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type configDTO struct {
	ID                  string           `json:"id,omitempty"`
	DayOfWeek           *int             `json:"day_of_week,omitempty"`
	Date                string           `json:"date,omitempty"`
	StartTime           string           `json:"start_time"`
	EndTime             string           `json:"end_time"`
	SlotDurationMinutes int              `json:"slot_duration_minutes"`
	CapacityPerSlot     int              `json:"capacity_per_slot"`
	IsActive            bool             `json:"is_active"`
	IsException         bool             `json:"is_exception"`
	BreakPeriods        []breakPeriodDTO `json:"break_periods,omitempty"`
}

// configFromDTO validates the payload and converts clock strings to minute
// offsets. Exactly one of day_of_week and date must be set.
func configFromDTO(tenantID string, in configDTO) (model.AvailabilityConfig, error) {
	cfg := model.AvailabilityConfig{
		ID:                  in.ID,
		TenantID:            tenantID,
		DayOfWeek:           in.DayOfWeek,
		SlotDurationMinutes: in.SlotDurationMinutes,
		CapacityPerSlot:     in.CapacityPerSlot,
		IsActive:            in.IsActive,
		IsException:         in.IsException,
	}

	hasDate := strings.TrimSpace(in.Date) != ""
	if in.DayOfWeek != nil && hasDate {
		return model.AvailabilityConfig{}, model.Invalid("day_of_week", "set either day_of_week or date, not both")
	}
	if in.DayOfWeek == nil && !hasDate {
		return model.AvailabilityConfig{}, model.Invalid("day_of_week", "one of day_of_week or date is required")
	}
	if in.DayOfWeek != nil && (*in.DayOfWeek < 0 || *in.DayOfWeek > 6) {
		return model.AvailabilityConfig{}, model.Invalid("day_of_week", "must be 0..6")
	}
	if hasDate {
		d, err := time.ParseInLocation(dateLayout, in.Date, time.UTC)
		if err != nil {
			return model.AvailabilityConfig{}, model.Invalid("date", "want YYYY-MM-DD")
		}
		cfg.Date = &d
	}

	start, err := timeslot.ToMinutes(in.StartTime)
	if err != nil {
		return model.AvailabilityConfig{}, model.Invalid("start_time", err.Error())
	}
	end, err := timeslot.ToMinutes(in.EndTime)
	if err != nil {
		return model.AvailabilityConfig{}, model.Invalid("end_time", err.Error())
	}
	if end <= start {
		return model.AvailabilityConfig{}, model.Invalid("end_time", "must be after start_time")
	}
	cfg.StartMinute = start
	cfg.EndMinute = end

	if in.SlotDurationMinutes < 1 {
		return model.AvailabilityConfig{}, model.Invalid("slot_duration_minutes", "must be at least 1")
	}
	if in.CapacityPerSlot < 1 {
		return model.AvailabilityConfig{}, model.Invalid("capacity_per_slot", "must be at least 1")
	}

	for _, b := range in.BreakPeriods {
		bs, err := timeslot.ToMinutes(b.StartTime)
		if err != nil {
			return model.AvailabilityConfig{}, model.Invalid("break_periods.start_time", err.Error())
		}
		be, err := timeslot.ToMinutes(b.EndTime)
		if err != nil {
			return model.AvailabilityConfig{}, model.Invalid("break_periods.end_time", err.Error())
		}
		if be <= bs {
			return model.AvailabilityConfig{}, model.Invalid("break_periods.end_time", "must be after start_time")
		}
		cfg.Breaks = append(cfg.Breaks, model.BreakPeriod{ID: b.ID, StartMinute: bs, EndMinute: be})
	}
	return cfg, nil
}

func configToDTO(cfg model.AvailabilityConfig) configDTO {
	out := configDTO{
		ID:                  cfg.ID,
		DayOfWeek:           cfg.DayOfWeek,
		StartTime:           timeslot.ToClock(cfg.StartMinute),
		EndTime:             timeslot.ToClock(cfg.EndMinute),
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		CapacityPerSlot:     cfg.CapacityPerSlot,
		IsActive:            cfg.IsActive,
		IsException:         cfg.IsException,
	}
	if cfg.Date != nil {
		out.Date = cfg.Date.Format(dateLayout)
	}
	for _, b := range cfg.Breaks {
		out.BreakPeriods = append(out.BreakPeriods, breakPeriodDTO{
			ID:        b.ID,
			StartTime: timeslot.ToClock(b.StartMinute),
			EndTime:   timeslot.ToClock(b.EndMinute),
		})
	}
	return out
}

type slotDTO struct {
	ID                   string  `json:"id"`
	AvailabilityConfigID *string `json:"availability_config_id,omitempty"`
	DayOfWeek            *int    `json:"day_of_week,omitempty"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	TotalCapacity        int     `json:"total_capacity"`
	AvailableCapacity    int     `json:"available_capacity"`
	IsAvailable          bool    `json:"is_available"`
}

func slotToDTO(s model.TimeSlot) slotDTO {
	return slotDTO{
		ID:                   s.ID,
		AvailabilityConfigID: s.AvailabilityConfigID,
		DayOfWeek:            s.DayOfWeek,
		Date:                 s.Date.Format(dateLayout),
		StartTime:            timeslot.ToClock(s.StartMinute),
		EndTime:              timeslot.ToClock(s.EndMinute),
		TotalCapacity:        s.TotalCapacity,
		AvailableCapacity:    s.AvailableCapacity,
		IsAvailable:          s.IsAvailable,
	}
}

type bookingDTO struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	TimeSlotID    string `json:"time_slot_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	TotalPrice    string `json:"total_price"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func bookingToDTO(b model.Booking) bookingDTO {
	return bookingDTO{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		TimeSlotID: b.TimeSlotID,
		Date:       b.Date.Format(dateLayout),
		Time:       timeslot.ToClock(b.StartMinute),
		Adults:     b.Adults,
		Children:   b.Children,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
