package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds an invoice by ID and locks the row until the
// surrounding transaction completes
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	tx := lockForUpdate(r.db.WithContext(ctx))
	return r.findOne(tx, tenantID, id)
}

func (r *GormInvoiceRepository) findOne(tx *gorm.DB, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByCustomer returns the customer's confirmed invoices with an
// outstanding balance, oldest first
func (r *GormInvoiceRepository) FindOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]*billing.Invoice, error) {
	return r.findOpen(r.db.WithContext(ctx), tenantID, customerID)
}

// FindOpenByCustomerForUpdate is FindOpenByCustomer with row locks held
// until the surrounding transaction completes
func (r *GormInvoiceRepository) FindOpenByCustomerForUpdate(ctx context.Context, tenantID, customerID uuid.UUID) ([]*billing.Invoice, error) {
	tx := lockForUpdate(r.db.WithContext(ctx))
	return r.findOpen(tx, tenantID, customerID)
}

func (r *GormInvoiceRepository) findOpen(tx *gorm.DB, tenantID, customerID uuid.UUID) ([]*billing.Invoice, error) {
	var modelList []models.InvoiceModel
	err := tx.
		Where("tenant_id = ? AND customer_id = ? AND status = ? AND payment_status <> ?",
			tenantID, customerID, billing.InvoiceStatusConfirmed, billing.PaymentStatusPaid).
		Order("invoice_date ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	invoices := make([]*billing.Invoice, len(modelList))
	for i := range modelList {
		invoices[i] = modelList[i].ToDomain()
	}
	return invoices, nil
}

// OutstandingByCustomer sums the open balances of a customer
func (r *GormInvoiceRepository) OutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (valueobject.Money, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(balance_amount), 0)").
		Where("tenant_id = ? AND customer_id = ? AND status = ? AND payment_status <> ?",
			tenantID, customerID, billing.InvoiceStatusConfirmed, billing.PaymentStatusPaid).
		Scan(&total).Error
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoneyLKR(total), nil
}

// List returns invoices matching the filter with a total count
func (r *GormInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ?", tenantID)
	query = applyInvoiceFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var modelList []models.InvoiceModel
	if err := query.Order("invoice_date DESC, invoice_number DESC").Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*billing.Invoice, len(modelList))
	for i := range modelList {
		invoices[i] = modelList[i].ToDomain()
	}
	return invoices, total, nil
}

// Save persists changes to an existing invoice using optimistic locking
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	model.Version = invoice.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", invoice.TenantID, invoice.ID, invoice.Version).
		Updates(map[string]interface{}{
			"paid_amount":           model.PaidAmount,
			"balance_amount":        model.BalanceAmount,
			"pending_cheque_amount": model.PendingChequeAmount,
			"payment_status":        model.PaymentStatus,
			"status":                model.Status,
			"notes":                 model.Notes,
			"version":               model.Version,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	invoice.IncrementVersion()
	return nil
}

// applyInvoiceFilter applies filter options to the query
func applyInvoiceFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("invoice_date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormInvoiceRepository implements billing.InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
