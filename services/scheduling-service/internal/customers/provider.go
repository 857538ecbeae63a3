package customers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/storage"
)

// Provider resolves the customer behind a phone number, creating one on
// first contact. The booking transaction is passed through so a local
// implementation can join the capacity transaction.
type Provider interface {
	Resolve(ctx context.Context, tx pgx.Tx, tenantID, phone, name string) (model.Customer, error)
}

// LocalProvider keeps customers in the service's own database.
type LocalProvider struct {
	repo *storage.CustomerRepository
}

func NewLocalProvider(repo *storage.CustomerRepository) *LocalProvider {
	return &LocalProvider{repo: repo}
}

func (p *LocalProvider) Resolve(ctx context.Context, tx pgx.Tx, tenantID, phone, name string) (model.Customer, error) {
	return p.repo.GetOrCreateByPhone(ctx, tx, tenantID, phone, name)
}
