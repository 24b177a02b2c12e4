// Package integration provides integration tests for the billing
// ledger. It runs the real application services and GORM repositories
// against an in-memory SQLite database, so the full settlement flow is
// exercised without external infrastructure.
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	billingapp "github.com/factoryerp/backend/internal/application/billing"
	partnerapp "github.com/factoryerp/backend/internal/application/partner"
	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/infrastructure/persistence"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database and migrates
// the billing schema. Each call gets its own named database so tests
// never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The production schema lives in SQL migrations written for
	// postgres; AutoMigrate builds an equivalent SQLite schema from
	// the persistence models.
	require.NoError(t, db.AutoMigrate(
		&models.CustomerModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// billingStack bundles the real services and repositories under test
type billingStack struct {
	db              *gorm.DB
	invoiceService  *billingapp.InvoiceService
	paymentService  *billingapp.PaymentService
	chequeService   *billingapp.ChequeService
	historyService  *billingapp.HistoryService
	customerService *partnerapp.CustomerService
}

// newBillingStack wires the application services over real GORM
// repositories the same way cmd/server does
func newBillingStack(t *testing.T) *billingStack {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	return &billingStack{
		db:              db,
		invoiceService:  billingapp.NewInvoiceService(txScope, invoiceRepo, customerRepo, log),
		paymentService:  billingapp.NewPaymentService(txScope, invoiceRepo, paymentRepo, log),
		chequeService:   billingapp.NewChequeService(txScope, paymentRepo, log),
		historyService:  billingapp.NewHistoryService(invoiceRepo, paymentRepo, customerRepo, log),
		customerService: partnerapp.NewCustomerService(customerRepo),
	}
}

// createCustomer inserts an active customer and returns its ID
func (s *billingStack) createCustomer(t *testing.T, tenantID uuid.UUID, code, name string) uuid.UUID {
	t.Helper()

	resp, err := s.customerService.Create(context.Background(), tenantID, partnerapp.CreateCustomerRequest{
		Code: code,
		Name: name,
	})
	require.NoError(t, err)
	require.Equal(t, partner.CustomerStatusActive, partner.CustomerStatus(resp.Status))
	return resp.ID
}

// day returns midnight UTC n days after a fixed base date, for
// deterministic invoice ordering
func day(n int) time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, n)
}
