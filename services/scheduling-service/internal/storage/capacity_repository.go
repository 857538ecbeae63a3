package storage

import (
	"context"
	"time"

	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type CapacityRepository struct {
	pool *db.Pool
}

func NewCapacityRepository(pool *db.Pool) *CapacityRepository {
	return &CapacityRepository{pool: pool}
}

func (r *CapacityRepository) UpsertWeekly(ctx context.Context, w model.WeeklyCapacity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO weekly_capacity (tenant_id, day_of_week, cap_limit, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, day_of_week) DO UPDATE
		SET cap_limit = EXCLUDED.cap_limit,
			enabled = EXCLUDED.enabled,
			updated_at = now()
	`, w.TenantID, w.DayOfWeek, w.Limit, w.Enabled)
	return err
}

func (r *CapacityRepository) DeleteWeekly(ctx context.Context, tenantID string, dayOfWeek int) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM weekly_capacity WHERE tenant_id = $1 AND day_of_week = $2
	`, tenantID, dayOfWeek)
	return err
}

func (r *CapacityRepository) ListWeekly(ctx context.Context, tenantID string) ([]model.WeeklyCapacity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tenant_id, day_of_week, cap_limit, enabled
		FROM weekly_capacity
		WHERE tenant_id = $1
		ORDER BY day_of_week ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WeeklyCapacity
	for rows.Next() {
		var w model.WeeklyCapacity
		if err := rows.Scan(&w.TenantID, &w.DayOfWeek, &w.Limit, &w.Enabled); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CreateSpecialDate is a plain insert: a second config for the same date is a
// uniqueness conflict the caller surfaces as "already exists".
func (r *CapacityRepository) CreateSpecialDate(ctx context.Context, s model.SpecialDateCapacity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO special_date_capacity (tenant_id, date, cap_limit, description)
		VALUES ($1, $2, $3, $4)
	`, s.TenantID, s.Date, s.Limit, s.Description)
	return err
}

func (r *CapacityRepository) UpdateSpecialDate(ctx context.Context, s model.SpecialDateCapacity) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE special_date_capacity
		SET cap_limit = $3, description = $4, updated_at = now()
		WHERE tenant_id = $1 AND date = $2
	`, s.TenantID, s.Date, s.Limit, s.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConfigNotFound
	}
	return nil
}

func (r *CapacityRepository) DeleteSpecialDate(ctx context.Context, tenantID string, date time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM special_date_capacity WHERE tenant_id = $1 AND date = $2
	`, tenantID, date)
	return err
}

func (r *CapacityRepository) ListSpecialDates(ctx context.Context, tenantID string) ([]model.SpecialDateCapacity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tenant_id, date, cap_limit, COALESCE(description, '')
		FROM special_date_capacity
		WHERE tenant_id = $1
		ORDER BY date ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SpecialDateCapacity
	for rows.Next() {
		var s model.SpecialDateCapacity
		if err := rows.Scan(&s.TenantID, &s.Date, &s.Limit, &s.Description); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSpecialDate returns (entry, found, error) so absence is not an error.
func (r *CapacityRepository) GetSpecialDate(ctx context.Context, tenantID string, date time.Time) (model.SpecialDateCapacity, bool, error) {
	var s model.SpecialDateCapacity
	err := r.pool.QueryRow(ctx, `
		SELECT tenant_id, date, cap_limit, COALESCE(description, '')
		FROM special_date_capacity
		WHERE tenant_id = $1 AND date = $2
	`, tenantID, date).Scan(&s.TenantID, &s.Date, &s.Limit, &s.Description)
	if err != nil {
		if IsNotFound(err) {
			return model.SpecialDateCapacity{}, false, nil
		}
		return model.SpecialDateCapacity{}, false, err
	}
	return s, true, nil
}

func (r *CapacityRepository) GetWeekly(ctx context.Context, tenantID string, dayOfWeek int) (model.WeeklyCapacity, bool, error) {
	var w model.WeeklyCapacity
	err := r.pool.QueryRow(ctx, `
		SELECT tenant_id, day_of_week, cap_limit, enabled
		FROM weekly_capacity
		WHERE tenant_id = $1 AND day_of_week = $2
	`, tenantID, dayOfWeek).Scan(&w.TenantID, &w.DayOfWeek, &w.Limit, &w.Enabled)
	if err != nil {
		if IsNotFound(err) {
			return model.WeeklyCapacity{}, false, nil
		}
		return model.WeeklyCapacity{}, false, err
	}
	return w, true, nil
}
