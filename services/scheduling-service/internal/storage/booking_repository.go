package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *BookingRepository) Create(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return tx.QueryRow(ctx, `
		INSERT INTO bookings
			(id, tenant_id, customer_id, time_slot_id, date, start_minute,
			 adults, children, total_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, b.ID, b.TenantID, b.CustomerID, b.TimeSlotID, b.Date, b.StartMinute,
		b.Adults, b.Children, b.TotalPrice, b.Status, b.Notes).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id string) (model.Booking, error) {
	var b model.Booking
	err := tx.QueryRow(ctx, `
		SELECT id, tenant_id, customer_id, time_slot_id, date, start_minute,
			adults, children, total_price::text, status, COALESCE(notes, ''),
			created_at, updated_at
		FROM bookings
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`, id, tenantID).Scan(
		&b.ID,
		&b.TenantID,
		&b.CustomerID,
		&b.TimeSlotID,
		&b.Date,
		&b.StartMinute,
		&b.Adults,
		&b.Children,
		&b.TotalPrice,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return model.Booking{}, model.ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET adults = $3,
			children = $4,
			total_price = $5,
			status = $6,
			notes = $7,
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, b.ID, b.TenantID, b.Adults, b.Children, b.TotalPrice, b.Status, b.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListByDate(ctx context.Context, tenantID string, date time.Time) ([]model.BookingWithCustomer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.tenant_id, b.customer_id, b.time_slot_id, b.date, b.start_minute,
			b.adults, b.children, b.total_price::text, b.status, COALESCE(b.notes, ''),
			b.created_at, b.updated_at,
			c.name, c.phone
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.tenant_id = $1 AND b.date = $2
		ORDER BY b.start_minute ASC
	`, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingWithCustomer
	for rows.Next() {
		var b model.BookingWithCustomer
		if err := rows.Scan(
			&b.ID,
			&b.TenantID,
			&b.CustomerID,
			&b.TimeSlotID,
			&b.Date,
			&b.StartMinute,
			&b.Adults,
			&b.Children,
			&b.TotalPrice,
			&b.Status,
			&b.Notes,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.CustomerName,
			&b.CustomerPhone,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
