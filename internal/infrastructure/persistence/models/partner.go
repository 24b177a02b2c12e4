package models

import (
	"github.com/factoryerp/backend/internal/domain/partner"
)

// CustomerModel is the row type backing the customers table.
type CustomerModel struct {
	TenantAggregateModel
	Code        string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name        string                 `gorm:"type:varchar(200);not null"`
	ContactName string                 `gorm:"type:varchar(100)"`
	Phone       string                 `gorm:"type:varchar(50);index"`
	Email       string                 `gorm:"type:varchar(200);index"`
	Address     string                 `gorm:"type:text"`
	Status      partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain rebuilds the Customer aggregate from the row.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		ContactName:         m.ContactName,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		Status:              m.Status,
	}
}

// CustomerModelFromDomain maps a Customer aggregate onto a fresh row.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:        c.Code,
		Name:        c.Name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		Status:      c.Status,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
