package billing

import (
	"context"

	"github.com/factoryerp/backend/internal/domain/billing"
)

// TransactionalRepositories provides access to billing repositories
// bound to one database transaction
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	PaymentRepo() billing.PaymentRepository
}

// TransactionScope executes a unit of work atomically. Every mutating
// ledger operation runs its pre-checks, inserts and recomputation inside
// a single scope; an error from fn rolls the whole scope back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
