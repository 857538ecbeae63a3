package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type ConfigRepository struct {
	pool *db.Pool
}

func NewConfigRepository(pool *db.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

func (r *ConfigRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *ConfigRepository) Create(ctx context.Context, tx pgx.Tx, cfg *model.AvailabilityConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO availability_configs
			(id, tenant_id, day_of_week, date, start_minute, end_minute,
			 slot_duration_minutes, capacity_per_slot, is_active, is_exception)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, cfg.ID, cfg.TenantID, cfg.DayOfWeek, cfg.Date, cfg.StartMinute, cfg.EndMinute,
		cfg.SlotDurationMinutes, cfg.CapacityPerSlot, cfg.IsActive, cfg.IsException)
	if err != nil {
		return err
	}
	return r.replaceBreaks(ctx, tx, cfg.ID, cfg.Breaks)
}

func (r *ConfigRepository) Update(ctx context.Context, tx pgx.Tx, cfg *model.AvailabilityConfig) error {
	tag, err := tx.Exec(ctx, `
		UPDATE availability_configs
		SET day_of_week = $3,
			date = $4,
			start_minute = $5,
			end_minute = $6,
			slot_duration_minutes = $7,
			capacity_per_slot = $8,
			is_active = $9,
			is_exception = $10,
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, cfg.ID, cfg.TenantID, cfg.DayOfWeek, cfg.Date, cfg.StartMinute, cfg.EndMinute,
		cfg.SlotDurationMinutes, cfg.CapacityPerSlot, cfg.IsActive, cfg.IsException)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConfigNotFound
	}
	return r.replaceBreaks(ctx, tx, cfg.ID, cfg.Breaks)
}

func (r *ConfigRepository) replaceBreaks(ctx context.Context, tx pgx.Tx, configID string, breaks []model.BreakPeriod) error {
	if _, err := tx.Exec(ctx, `DELETE FROM break_periods WHERE availability_config_id = $1`, configID); err != nil {
		return err
	}
	for i, b := range breaks {
		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO break_periods (id, availability_config_id, position, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5)
		`, id, configID, i, b.StartMinute, b.EndMinute)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ConfigRepository) Get(ctx context.Context, q db.Querier, tenantID, id string) (model.AvailabilityConfig, error) {
	var cfg model.AvailabilityConfig
	err := q.QueryRow(ctx, `
		SELECT id, tenant_id, day_of_week, date, start_minute, end_minute,
			slot_duration_minutes, capacity_per_slot, is_active, is_exception,
			created_at, updated_at
		FROM availability_configs
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&cfg.ID,
		&cfg.TenantID,
		&cfg.DayOfWeek,
		&cfg.Date,
		&cfg.StartMinute,
		&cfg.EndMinute,
		&cfg.SlotDurationMinutes,
		&cfg.CapacityPerSlot,
		&cfg.IsActive,
		&cfg.IsException,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return model.AvailabilityConfig{}, model.ErrConfigNotFound
		}
		return model.AvailabilityConfig{}, err
	}
	breaks, err := r.loadBreaks(ctx, q, cfg.ID)
	if err != nil {
		return model.AvailabilityConfig{}, err
	}
	cfg.Breaks = breaks
	return cfg, nil
}

// FindMatch locates the existing config targeting the same weekday or date,
// used by the bulk endpoint to upsert instead of creating duplicates.
func (r *ConfigRepository) FindMatch(ctx context.Context, tx pgx.Tx, tenantID string, dayOfWeek *int, date *time.Time) (string, bool, error) {
	var id string
	var err error
	if dayOfWeek != nil {
		err = tx.QueryRow(ctx, `
			SELECT id FROM availability_configs
			WHERE tenant_id = $1 AND day_of_week = $2
			ORDER BY created_at ASC
			LIMIT 1
		`, tenantID, *dayOfWeek).Scan(&id)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT id FROM availability_configs
			WHERE tenant_id = $1 AND date = $2
			ORDER BY created_at ASC
			LIMIT 1
		`, tenantID, *date).Scan(&id)
	}
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (r *ConfigRepository) ListActive(ctx context.Context, tenantID string) ([]model.AvailabilityConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, day_of_week, date, start_minute, end_minute,
			slot_duration_minutes, capacity_per_slot, is_active, is_exception,
			created_at, updated_at
		FROM availability_configs
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.AvailabilityConfig
	for rows.Next() {
		var cfg model.AvailabilityConfig
		if err := rows.Scan(
			&cfg.ID,
			&cfg.TenantID,
			&cfg.DayOfWeek,
			&cfg.Date,
			&cfg.StartMinute,
			&cfg.EndMinute,
			&cfg.SlotDurationMinutes,
			&cfg.CapacityPerSlot,
			&cfg.IsActive,
			&cfg.IsException,
			&cfg.CreatedAt,
			&cfg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range configs {
		breaks, err := r.loadBreaks(ctx, r.pool, configs[i].ID)
		if err != nil {
			return nil, err
		}
		configs[i].Breaks = breaks
	}
	return configs, nil
}

// DistinctTenants lists every tenant with at least one active config, for
// rolling-horizon expansion.
func (r *ConfigRepository) DistinctTenants(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT tenant_id FROM availability_configs WHERE is_active = true
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// Delete removes the config and its breaks. Slots with bookings survive with
// a nulled config reference and is_available=false; unbooked slots go with
// the config.
func (r *ConfigRepository) Delete(ctx context.Context, tx pgx.Tx, tenantID, id string) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM time_slots
		WHERE tenant_id = $1 AND availability_config_id = $2
			AND NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.time_slot_id = time_slots.id AND b.status <> 'CANCELLED'
			)
	`, tenantID, id)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE time_slots
		SET availability_config_id = NULL, is_available = false
		WHERE tenant_id = $1 AND availability_config_id = $2
	`, tenantID, id)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		DELETE FROM availability_configs
		WHERE id = $2 AND tenant_id = $1
	`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConfigNotFound
	}
	return nil
}

func (r *ConfigRepository) loadBreaks(ctx context.Context, q db.Querier, configID string) ([]model.BreakPeriod, error) {
	rows, err := q.Query(ctx, `
		SELECT id, start_minute, end_minute
		FROM break_periods
		WHERE availability_config_id = $1
		ORDER BY position ASC
	`, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breaks []model.BreakPeriod
	for rows.Next() {
		var b model.BreakPeriod
		if err := rows.Scan(&b.ID, &b.StartMinute, &b.EndMinute); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}
