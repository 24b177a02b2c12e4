package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository persists Customer aggregates through GORM.
// A lookup that matches no row returns (nil, nil), never
// gorm.ErrRecordNotFound.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

func (r *GormCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	return r.first(ctx, "tenant_id = ? AND id = ?", tenantID, id)
}

// FindByCode matches case-insensitively; codes are stored uppercased.
func (r *GormCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	return r.first(ctx, "tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code))
}

func (r *GormCustomerRepository) first(ctx context.Context, cond string, args ...interface{}) (*partner.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).Where(cond, args...).First(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the tenant's customers ordered by code, narrowed by the
// filter's search term, status and page window.
func (r *GormCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.CustomerModel
	if err := query.Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error
}

// Count returns how many customers match the filter, ignoring its page
// window.
func (r *GormCustomerRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		// SQLite's LIKE is already case-insensitive; postgres needs ILIKE
		like := "ILIKE"
		if query.Dialector.Name() == "sqlite" {
			like = "LIKE"
		}
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			fmt.Sprintf("name %s ? OR code %s ? OR phone LIKE ?", like, like),
			pattern, pattern, pattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}
