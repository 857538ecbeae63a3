package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type SlotRepository struct {
	pool *db.Pool
}

func NewSlotRepository(pool *db.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// SlotWithBookings annotates a slot with whether any non-cancelled booking
// holds seats on it.
type SlotWithBookings struct {
	model.TimeSlot
	BookingCount int
}

const slotColumns = `id, tenant_id, availability_config_id, day_of_week, date,
	start_minute, end_minute, total_capacity, available_capacity, is_available`

func scanSlot(row pgx.Row, s *model.TimeSlot) error {
	return row.Scan(
		&s.ID,
		&s.TenantID,
		&s.AvailabilityConfigID,
		&s.DayOfWeek,
		&s.Date,
		&s.StartMinute,
		&s.EndMinute,
		&s.TotalCapacity,
		&s.AvailableCapacity,
		&s.IsAvailable,
	)
}

// InsertBatch bulk-inserts generated slots, silently skipping rows that
// collide with an existing (config, date, start) slot so re-expansion is
// idempotent. Returns the number of rows actually inserted.
func (r *SlotRepository) InsertBatch(ctx context.Context, tx pgx.Tx, slots []model.TimeSlot) (int, error) {
	inserted := 0
	for i := range slots {
		s := &slots[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO time_slots
				(id, tenant_id, availability_config_id, day_of_week, date,
				 start_minute, end_minute, total_capacity, available_capacity, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (tenant_id, availability_config_id, date, start_minute) DO NOTHING
		`, s.ID, s.TenantID, s.AvailabilityConfigID, s.DayOfWeek, s.Date,
			s.StartMinute, s.EndMinute, s.TotalCapacity, s.AvailableCapacity, s.IsAvailable)
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *SlotRepository) Create(ctx context.Context, tx pgx.Tx, s *model.TimeSlot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO time_slots
			(id, tenant_id, availability_config_id, day_of_week, date,
			 start_minute, end_minute, total_capacity, available_capacity, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, s.ID, s.TenantID, s.AvailabilityConfigID, s.DayOfWeek, s.Date,
		s.StartMinute, s.EndMinute, s.TotalCapacity, s.AvailableCapacity, s.IsAvailable)
	return err
}

// ListForConfigWithBookings loads every slot owned by the config, locked FOR
// UPDATE, each annotated with its live booking count. The lock serializes
// reconciliation against concurrent booking writes on the same slots.
func (r *SlotRepository) ListForConfigWithBookings(ctx context.Context, tx pgx.Tx, tenantID, configID string) ([]SlotWithBookings, error) {
	rows, err := tx.Query(ctx, `
		SELECT s.id, s.tenant_id, s.availability_config_id, s.day_of_week, s.date,
			s.start_minute, s.end_minute, s.total_capacity, s.available_capacity, s.is_available,
			(SELECT COUNT(*) FROM bookings b
			 WHERE b.time_slot_id = s.id AND b.status <> 'CANCELLED')
		FROM time_slots s
		WHERE s.tenant_id = $1 AND s.availability_config_id = $2
		ORDER BY s.date ASC, s.start_minute ASC
		FOR UPDATE OF s
	`, tenantID, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotWithBookings
	for rows.Next() {
		var s SlotWithBookings
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.AvailabilityConfigID,
			&s.DayOfWeek,
			&s.Date,
			&s.StartMinute,
			&s.EndMinute,
			&s.TotalCapacity,
			&s.AvailableCapacity,
			&s.IsAvailable,
			&s.BookingCount,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SlotRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id string) (model.TimeSlot, error) {
	var s model.TimeSlot
	err := scanSlot(tx.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID), &s)
	if err != nil {
		if IsNotFound(err) {
			return model.TimeSlot{}, model.ErrSlotNotFound
		}
		return model.TimeSlot{}, err
	}
	return s, nil
}

func (r *SlotRepository) ListByDate(ctx context.Context, tenantID string, date time.Time) ([]model.TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE tenant_id = $1 AND date = $2
		ORDER BY start_minute ASC
	`, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeSlot
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.AvailabilityConfigID,
			&s.DayOfWeek,
			&s.Date,
			&s.StartMinute,
			&s.EndMinute,
			&s.TotalCapacity,
			&s.AvailableCapacity,
			&s.IsAvailable,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateShape rewrites a slot's window and capacity fields in place. Used by
// the synchronizer for both the booked (capacity-raise) and unbooked (full
// reset) update paths.
func (r *SlotRepository) UpdateShape(ctx context.Context, tx pgx.Tx, s *model.TimeSlot) error {
	tag, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET end_minute = $3,
			total_capacity = $4,
			available_capacity = $5,
			is_available = $6
		WHERE id = $1 AND tenant_id = $2
	`, s.ID, s.TenantID, s.EndMinute, s.TotalCapacity, s.AvailableCapacity, s.IsAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSlotNotFound
	}
	return nil
}

func (r *SlotRepository) AdjustAvailableCapacity(ctx context.Context, tx pgx.Tx, tenantID, id string, delta int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET available_capacity = available_capacity + $3
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSlotNotFound
	}
	return nil
}

func (r *SlotRepository) DeleteByIDs(ctx context.Context, tx pgx.Tx, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		DELETE FROM time_slots
		WHERE tenant_id = $1 AND id = ANY($2)
	`, tenantID, ids)
	return err
}

func (r *SlotRepository) SetUnavailable(ctx context.Context, tx pgx.Tx, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET is_available = false
		WHERE tenant_id = $1 AND id = ANY($2)
	`, tenantID, ids)
	return err
}
