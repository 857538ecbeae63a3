//go:build protogen

package customers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tareq-aziz/slotbook/libs/grpcx"
	directoryv1 "github.com/tareq-aziz/slotbook/protos/gen/directory/v1"
	"github.com/tareq-aziz/slotbook/services/scheduling-service/internal/model"
)

// directoryProvider asks the customer directory service for the canonical
// identity behind a phone number, then mirrors it into the local table inside
// the booking transaction so capacity accounting stays single-database.
type directoryProvider struct {
	client directoryv1.CustomerDirectoryClient
	local  *LocalProvider
}

func NewDirectoryProvider(addr string, local *LocalProvider) (Provider, error) {
	if addr == "" {
		return nil, nil
	}
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	return &directoryProvider{client: directoryv1.NewCustomerDirectoryClient(conn), local: local}, nil
}

func (p *directoryProvider) Resolve(ctx context.Context, tx pgx.Tx, tenantID, phone, name string) (model.Customer, error) {
	resp, err := p.client.ResolveByPhone(ctx, &directoryv1.ResolveByPhoneRequest{
		TenantId: tenantID,
		Phone:    phone,
		Name:     name,
	})
	if err == nil && resp.GetName() != "" {
		name = resp.GetName()
	}
	return p.local.Resolve(ctx, tx, tenantID, phone, name)
}
