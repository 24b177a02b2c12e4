package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// TenantAggregateModel carries the columns every tenant-scoped table
// shares: identity, timestamps, the optimistic-lock version and the
// tenant discriminator. Concrete models embed it and add their own
// columns on top.
type TenantAggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainTenantAggregateRoot copies the shared aggregate fields from
// a domain aggregate into the row.
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(a shared.TenantAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.TenantID = a.TenantID
}

// ToDomainTenantAggregateRoot rebuilds the shared aggregate fields from
// the row. The returned root carries no pending domain events.
func (m *TenantAggregateModel) ToDomainTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TenantID: m.TenantID,
	}
}
