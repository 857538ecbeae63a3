package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/libs/db"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

type CustomerRepository struct {
	pool *db.Pool
}

func NewCustomerRepository(pool *db.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetOrCreateByPhone resolves a customer by phone, creating one on first
// contact. Safe under concurrent first bookings from the same phone.
func (r *CustomerRepository) GetOrCreateByPhone(ctx context.Context, tx pgx.Tx, tenantID, phone, name string) (model.Customer, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO customers (id, tenant_id, phone, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, phone) DO NOTHING
	`, uuid.NewString(), tenantID, phone, name)
	if err != nil {
		return model.Customer{}, err
	}

	var c model.Customer
	err = tx.QueryRow(ctx, `
		SELECT id, tenant_id, name, phone, created_at
		FROM customers
		WHERE tenant_id = $1 AND phone = $2
	`, tenantID, phone).Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.CreatedAt)
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, tenantID, phone string) (model.Customer, error) {
	var c model.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, phone, created_at
		FROM customers
		WHERE tenant_id = $1 AND phone = $2
	`, tenantID, phone).Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return model.Customer{}, model.ErrCustomerNotFound
		}
		return model.Customer{}, err
	}
	return c, nil
}
