package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/capacity"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type CapacityHandler struct {
	svc    *capacity.Service
	logger *slog.Logger
}

func NewCapacityHandler(svc *capacity.Service, logger *slog.Logger) *CapacityHandler {
	return &CapacityHandler{svc: svc, logger: logger}
}

// ForDate serves GET /api/v1/capacity?date=. A null capacity means the date
// has no configured limit and is closed.
func (h *CapacityHandler) ForDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	limit, err := h.svc.ForDate(r.Context(), tenantID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     date.Format(dateLayout),
		"capacity": limit,
	})
}

type weeklyCapacityDTO struct {
	DayOfWeek int  `json:"day_of_week"`
	Limit     int  `json:"limit"`
	Enabled   bool `json:"enabled"`
}

// Weekly serves /api/v1/admin/capacity/weekly.
func (h *CapacityHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entries, err := h.svc.ListWeekly(r.Context(), tenantID)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]weeklyCapacityDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, weeklyCapacityDTO{DayOfWeek: e.DayOfWeek, Limit: e.Limit, Enabled: e.Enabled})
		}
		writeJSON(w, http.StatusOK, map[string]any{"weekly": out})

	case http.MethodPut:
		var req weeklyCapacityDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		err := h.svc.SetWeekly(r.Context(), model.WeeklyCapacity{
			TenantID:  tenantID,
			DayOfWeek: req.DayOfWeek,
			Limit:     req.Limit,
			Enabled:   req.Enabled,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		dow, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("day_of_week")))
		if err != nil || dow < 0 || dow > 6 {
			writeError(w, model.Invalid("day_of_week", "must be 0..6"))
			return
		}
		if err := h.svc.DeleteWeekly(r.Context(), tenantID, dow); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type specialDateDTO struct {
	Date        string `json:"date"`
	Limit       int    `json:"limit"`
	Description string `json:"description,omitempty"`
}

// Special serves /api/v1/admin/capacity/special. Creating a date that is
// already configured yields 409.
func (h *CapacityHandler) Special(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entries, err := h.svc.ListSpecialDates(r.Context(), tenantID)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]specialDateDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, specialDateDTO{
				Date:        e.Date.Format(dateLayout),
				Limit:       e.Limit,
				Description: e.Description,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"special_dates": out})

	case http.MethodPost, http.MethodPut:
		var req specialDateDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), time.UTC)
		if err != nil {
			writeError(w, model.Invalid("date", "want YYYY-MM-DD"))
			return
		}
		entry := model.SpecialDateCapacity{
			TenantID:    tenantID,
			Date:        date,
			Limit:       req.Limit,
			Description: strings.TrimSpace(req.Description),
		}
		if r.Method == http.MethodPost {
			err = h.svc.CreateSpecialDate(r.Context(), entry)
		} else {
			err = h.svc.UpdateSpecialDate(r.Context(), entry)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusNoContent
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		w.WriteHeader(status)

	case http.MethodDelete:
		date, err := parseDateParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := h.svc.DeleteSpecialDate(r.Context(), tenantID, date); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
