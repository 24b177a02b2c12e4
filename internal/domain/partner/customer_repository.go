package partner

import (
	"context"

	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository is the persistence port for customers. Every query
// is tenant scoped; lookups that match nothing return (nil, nil).
type CustomerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save inserts or updates by primary key.
	Save(ctx context.Context, customer *Customer) error
}
