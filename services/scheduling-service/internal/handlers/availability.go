package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/outbox"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	syncpkg "github.com/tareq-aziz/slotbook/services/scheduling-service/internal/sync"
)

type AvailabilityHandler struct {
	configs    *storage.ConfigRepository
	slots      *storage.SlotRepository
	syncer     *syncpkg.Synchronizer
	expander   *syncpkg.Expander
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func NewAvailabilityHandler(configs *storage.ConfigRepository, slots *storage.SlotRepository, syncer *syncpkg.Synchronizer, expander *syncpkg.Expander, outboxRepo *outbox.Repository, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		configs:    configs,
		slots:      slots,
		syncer:     syncer,
		expander:   expander,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Configs serves /api/v1/admin/availability.
func (h *AvailabilityHandler) Configs(w http.ResponseWriter, r *http.Request) {
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r, tenantID)
	case http.MethodPut:
		h.update(w, r, tenantID)
	case http.MethodDelete:
		h.delete(w, r, tenantID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AvailabilityHandler) create(w http.ResponseWriter, r *http.Request, tenantID string) {
	var req configDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	cfg, err := configFromDTO(tenantID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg.ID = ""

	tx, err := h.configs.Begin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	if err := h.configs.Create(r.Context(), tx, &cfg); err != nil {
		writeError(w, err)
		return
	}
	current, err := h.syncer.SyncConfig(r.Context(), tx, tenantID, cfg.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.emitSynced(r, tx, cfg, len(current)); err != nil {
		writeError(w, err)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"config": configToDTO(cfg),
		"slots":  slotsToDTO(current),
	})
}

func (h *AvailabilityHandler) update(w http.ResponseWriter, r *http.Request, tenantID string) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	var req configDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	cfg, err := configFromDTO(tenantID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg.ID = id

	tx, err := h.configs.Begin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	if err := h.configs.Update(r.Context(), tx, &cfg); err != nil {
		writeError(w, err)
		return
	}
	current, err := h.syncer.SyncConfig(r.Context(), tx, tenantID, cfg.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.emitSynced(r, tx, cfg, len(current)); err != nil {
		writeError(w, err)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"config": configToDTO(cfg),
		"slots":  slotsToDTO(current),
	})
}

func (h *AvailabilityHandler) delete(w http.ResponseWriter, r *http.Request, tenantID string) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	tx, err := h.configs.Begin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	if err := h.configs.Delete(r.Context(), tx, tenantID, id); err != nil {
		writeError(w, err)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkRequest struct {
	Configs   []configDTO `json:"configs"`
	DaysAhead int         `json:"days_ahead"`
}

// Bulk serves /api/v1/admin/availability/bulk: upsert each config by its
// weekday or date match, then expand the horizon once.
func (h *AvailabilityHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenantID := tenantFromHeader(r)
	if tenantID == "" {
		http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.DaysAhead < 1 || req.DaysAhead > 366 {
		writeError(w, model.Invalid("days_ahead", "must be 1..366"))
		return
	}
	if len(req.Configs) == 0 {
		writeError(w, model.Invalid("configs", "required"))
		return
	}

	configs := make([]model.AvailabilityConfig, 0, len(req.Configs))
	for _, dto := range req.Configs {
		cfg, err := configFromDTO(tenantID, dto)
		if err != nil {
			writeError(w, err)
			return
		}
		configs = append(configs, cfg)
	}

	tx, err := h.configs.Begin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(r.Context()) }()

	for i := range configs {
		cfg := &configs[i]
		existingID, found, err := h.configs.FindMatch(r.Context(), tx, tenantID, cfg.DayOfWeek, cfg.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		if found {
			cfg.ID = existingID
			err = h.configs.Update(r.Context(), tx, cfg)
		} else {
			cfg.ID = ""
			err = h.configs.Create(r.Context(), tx, cfg)
		}
		if err != nil {
			writeError(w, err)
			return
		}
	}

	inserted, err := h.expander.ExpandTx(r.Context(), tx, configs, req.DaysAhead, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("bulk availability saved",
		"tenant_id", tenantID,
		"configs", len(configs),
		"slots_generated", inserted)

	out := make([]configDTO, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, configToDTO(cfg))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"configs":               out,
		"total_slots_generated": inserted,
	})
}

// Slots serves GET /api/v1/public/slots?date=.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
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

	slots, err := h.slots.ListByDate(r.Context(), tenantID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slotsToDTO(slots)})
}

func (h *AvailabilityHandler) emitSynced(r *http.Request, tx pgx.Tx, cfg model.AvailabilityConfig, slotCount int) error {
	payload, err := json.Marshal(map[string]any{
		"configId":  cfg.ID,
		"tenantId":  cfg.TenantID,
		"isActive":  cfg.IsActive,
		"slotCount": slotCount,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(r.Context(), tx, outbox.Event{
		AggregateType: "availability_config",
		AggregateID:   cfg.ID,
		EventType:     outbox.EventConfigSynced,
		Payload:       payload,
	})
}

func slotsToDTO(slots []model.TimeSlot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotToDTO(s))
	}
	return out
}
