package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/ledger"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
)

type BookingHandler struct {
	ledger   *ledger.Ledger
	bookings *storage.BookingRepository
	logger   *slog.Logger
}

func NewBookingHandler(l *ledger.Ledger, bookings *storage.BookingRepository, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{ledger: l, bookings: bookings, logger: logger}
}

type createBookingRequest struct {
	TimeSlotID    string `json:"time_slot_id"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	TotalPrice    string `json:"total_price"`
	Notes         string `json:"notes"`
}

// Create serves POST /api/v1/public/book.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	booking, err := h.ledger.Create(r.Context(), ledger.CreateRequest{
		TenantID:      tenantID,
		TimeSlotID:    strings.TrimSpace(req.TimeSlotID),
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Adults:        req.Adults,
		Children:      req.Children,
		TotalPrice:    strings.TrimSpace(req.TotalPrice),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingToDTO(booking))
}

type updateBookingRequest struct {
	Adults     *int    `json:"adults"`
	Children   *int    `json:"children"`
	Status     *string `json:"status"`
	TotalPrice *string `json:"total_price"`
	Notes      *string `json:"notes"`
}

// Bookings serves /api/v1/bookings: GET lists a date's bookings joined with
// customer identity, PATCH updates one booking via the ledger.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, tenantID)
	case http.MethodPatch:
		h.update(w, r, tenantID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, tenantID string) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookings, err := h.bookings.ListByDate(r.Context(), tenantID, model.DateOnly(date))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dto := bookingToDTO(b.Booking)
		dto.CustomerName = b.CustomerName
		dto.CustomerPhone = b.CustomerPhone
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out})
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request, tenantID string) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	booking, err := h.ledger.Update(r.Context(), tenantID, id, ledger.UpdatePatch{
		Adults:     req.Adults,
		Children:   req.Children,
		Status:     req.Status,
		TotalPrice: req.TotalPrice,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToDTO(booking))
}
