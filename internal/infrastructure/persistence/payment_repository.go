package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paymentNumberPrefix is the prefix of sequential payment numbers,
// e.g. PAY-00042
const paymentNumberPrefix = "PAY-"

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a new payment row
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice returns every payment row of an invoice ordered by
// payment date then creation time
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	var modelList []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("payment_date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*billing.Payment, len(modelList))
	for i := range modelList {
		payments[i] = modelList[i].ToDomain()
	}
	return payments, nil
}

// FindCheques returns cheque payments matching the filter with a total count
func (r *GormPaymentRepository) FindCheques(ctx context.Context, tenantID uuid.UUID, filter billing.ChequeFilter) ([]*billing.Payment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("tenant_id = ? AND cheque_status IS NOT NULL", tenantID)
	if filter.Status != nil {
		query = query.Where("cheque_status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var modelList []models.PaymentModel
	if err := query.Order("payment_date DESC, created_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]*billing.Payment, len(modelList))
	for i := range modelList {
		payments[i] = modelList[i].ToDomain()
	}
	return payments, total, nil
}

// NextPaymentNumber issues the next sequential payment number for the
// tenant. The highest issued number is read under a row lock, so when
// called inside a transaction concurrent issuers queue up behind it.
// Numbers past the five-digit padding grow longer, so ordering by
// length before the lexicographic compare keeps the scan numeric.
func (r *GormPaymentRepository) NextPaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var maxNumber string
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Model(&models.PaymentModel{}).
		Select("payment_number").
		Where("tenant_id = ? AND payment_number LIKE ?", tenantID, paymentNumberPrefix+"%").
		Order("length(payment_number) DESC, payment_number DESC").
		Limit(1).
		Pluck("payment_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		if _, err := fmt.Sscanf(maxNumber[len(paymentNumberPrefix):], "%d", &nextNum); err != nil {
			return "", fmt.Errorf("malformed payment number %q: %w", maxNumber, err)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", paymentNumberPrefix, nextNum), nil
}

// Save persists changes to an existing payment using optimistic locking
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	model.Version = payment.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", payment.TenantID, payment.ID, payment.Version).
		Updates(map[string]interface{}{
			"cheque":        model.Cheque,
			"cheque_status": model.ChequeStatus,
			"notes":         model.Notes,
			"version":       model.Version,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	payment.IncrementVersion()
	return nil
}

// Ensure GormPaymentRepository implements billing.PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
