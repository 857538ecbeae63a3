package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/customers"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/outbox"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/timeslot"
)

// Ledger creates and updates bookings while keeping each slot's
// available_capacity consistent. Every mutation runs in one transaction that
// locks the slot row first, so two concurrent bookings can never both spend
// the last seat.
type Ledger struct {
	bookings *storage.BookingRepository
	slots    *storage.SlotRepository
	custs    customers.Provider
	outbox   *outbox.Repository
	logger   *slog.Logger
}

func New(bookings *storage.BookingRepository, slots *storage.SlotRepository, custs customers.Provider, ob *outbox.Repository, logger *slog.Logger) *Ledger {
	return &Ledger{bookings: bookings, slots: slots, custs: custs, outbox: ob, logger: logger}
}

type CreateRequest struct {
	TenantID      string
	TimeSlotID    string
	CustomerPhone string
	CustomerName  string
	Adults        int
	Children      int
	TotalPrice    string
	Notes         string
}

func (r CreateRequest) validate() error {
	if r.TimeSlotID == "" {
		return model.Invalid("timeSlotId", "required")
	}
	if strings.TrimSpace(r.CustomerPhone) == "" {
		return model.Invalid("customerPhone", "required")
	}
	if r.Adults < 1 {
		return model.Invalid("adults", "must be at least 1")
	}
	if r.Children < 0 {
		return model.Invalid("children", "must not be negative")
	}
	return nil
}

// Create books seats on a slot: lock slot, check capacity, resolve customer,
// insert the PENDING booking and decrement the slot, all or nothing.
func (l *Ledger) Create(ctx context.Context, req CreateRequest) (model.Booking, error) {
	if err := req.validate(); err != nil {
		return model.Booking{}, err
	}

	tx, err := l.bookings.Begin(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	slot, err := l.slots.GetForUpdate(ctx, tx, req.TenantID, req.TimeSlotID)
	if err != nil {
		return model.Booking{}, err
	}
	if !slot.IsAvailable {
		return model.Booking{}, model.Invalid("timeSlotId", "slot is not open for booking")
	}
	if err := checkCapacity(slot.AvailableCapacity, req.Adults); err != nil {
		return model.Booking{}, err
	}

	customer, err := l.custs.Resolve(ctx, tx, req.TenantID, strings.TrimSpace(req.CustomerPhone), strings.TrimSpace(req.CustomerName))
	if err != nil {
		return model.Booking{}, fmt.Errorf("resolve customer: %w", err)
	}

	price := req.TotalPrice
	if price == "" {
		price = "0"
	}
	booking := model.Booking{
		TenantID:    req.TenantID,
		CustomerID:  customer.ID,
		TimeSlotID:  slot.ID,
		Date:        slot.Date,
		StartMinute: slot.StartMinute,
		Adults:      req.Adults,
		Children:    req.Children,
		TotalPrice:  price,
		Status:      model.BookingPending,
		Notes:       req.Notes,
	}
	if err := l.bookings.Create(ctx, tx, &booking); err != nil {
		return model.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	if err := l.slots.AdjustAvailableCapacity(ctx, tx, req.TenantID, slot.ID, -req.Adults); err != nil {
		return model.Booking{}, fmt.Errorf("decrement capacity: %w", err)
	}

	if err := l.emitBooked(ctx, tx, booking, slot); err != nil {
		return model.Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Booking{}, err
	}

	l.logger.Info("booking created",
		"tenant_id", req.TenantID,
		"booking_id", booking.ID,
		"slot_id", slot.ID,
		"adults", req.Adults)
	return booking, nil
}

type UpdatePatch struct {
	Adults     *int
	Children   *int
	Status     *string
	TotalPrice *string
	Notes      *string
}

// Update applies participant, price, and status changes. A change in the
// seats the booking occupies re-balances the slot by the delta inside the
// same transaction; a bare status or notes update never touches the slot.
func (l *Ledger) Update(ctx context.Context, tenantID, bookingID string, patch UpdatePatch) (model.Booking, error) {
	if patch.Adults != nil && *patch.Adults < 1 {
		return model.Booking{}, model.Invalid("adults", "must be at least 1")
	}
	if patch.Children != nil && *patch.Children < 0 {
		return model.Booking{}, model.Invalid("children", "must not be negative")
	}
	if patch.Status != nil && !model.ValidBookingStatus(*patch.Status) {
		return model.Booking{}, model.Invalid("status", "unknown status")
	}

	tx, err := l.bookings.Begin(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := l.bookings.GetForUpdate(ctx, tx, tenantID, bookingID)
	if err != nil {
		return model.Booking{}, err
	}

	newStatus := booking.Status
	if patch.Status != nil {
		newStatus = *patch.Status
	}
	if !allowedTransition(booking.Status, newStatus) {
		return model.Booking{}, model.Invalid("status", fmt.Sprintf("cannot transition from %s to %s", booking.Status, newStatus))
	}

	newAdults := booking.Adults
	if patch.Adults != nil {
		newAdults = *patch.Adults
	}

	delta := occupancyDelta(booking.Status, booking.Adults, newStatus, newAdults)
	if delta != 0 {
		slot, err := l.slots.GetForUpdate(ctx, tx, tenantID, booking.TimeSlotID)
		if err != nil {
			return model.Booking{}, err
		}
		if delta > 0 {
			if err := checkCapacity(slot.AvailableCapacity, delta); err != nil {
				return model.Booking{}, err
			}
		}
		if err := l.slots.AdjustAvailableCapacity(ctx, tx, tenantID, slot.ID, -delta); err != nil {
			return model.Booking{}, fmt.Errorf("rebalance capacity: %w", err)
		}
	}

	cancelled := newStatus == model.BookingCancelled && booking.Status != model.BookingCancelled

	booking.Status = newStatus
	booking.Adults = newAdults
	if patch.Children != nil {
		booking.Children = *patch.Children
	}
	if patch.TotalPrice != nil {
		booking.TotalPrice = *patch.TotalPrice
	}
	if patch.Notes != nil {
		booking.Notes = *patch.Notes
	}
	if err := l.bookings.Update(ctx, tx, &booking); err != nil {
		return model.Booking{}, fmt.Errorf("update booking: %w", err)
	}

	if cancelled {
		if err := l.emitCancelled(ctx, tx, booking); err != nil {
			return model.Booking{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Booking{}, err
	}

	l.logger.Info("booking updated",
		"tenant_id", tenantID,
		"booking_id", booking.ID,
		"status", booking.Status,
		"capacity_delta", delta)
	return booking, nil
}

func (l *Ledger) emitBooked(ctx context.Context, tx pgx.Tx, b model.Booking, slot model.TimeSlot) error {
	payload, err := json.Marshal(map[string]any{
		"bookingId":  b.ID,
		"tenantId":   b.TenantID,
		"timeSlotId": b.TimeSlotID,
		"date":       b.Date.Format("2006-01-02"),
		"startTime":  timeslot.ToClock(b.StartMinute),
		"adults":     b.Adults,
		"children":   b.Children,
		"remaining":  slot.AvailableCapacity - b.Adults,
	})
	if err != nil {
		return err
	}
	return l.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     outbox.EventSlotBooked,
		Payload:       payload,
	})
}

func (l *Ledger) emitCancelled(ctx context.Context, tx pgx.Tx, b model.Booking) error {
	payload, err := json.Marshal(map[string]any{
		"bookingId":  b.ID,
		"tenantId":   b.TenantID,
		"timeSlotId": b.TimeSlotID,
		"date":       b.Date.Format("2006-01-02"),
		"adults":     b.Adults,
	})
	if err != nil {
		return err
	}
	return l.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     outbox.EventBookingCancelled,
		Payload:       payload,
	})
}
