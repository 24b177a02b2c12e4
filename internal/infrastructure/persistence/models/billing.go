package models

import (
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber       string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceDate         time.Time             `gorm:"not null;index"`
	Currency            string                `gorm:"type:varchar(3);not null;default:'LKR'"`
	TotalAmount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaidAmount          decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	BalanceAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null;index"`
	PendingChequeAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaymentStatus       billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	Status              billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes               string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	currency := valueobject.Currency(m.Currency)
	money := func(d decimal.Decimal) valueobject.Money {
		v, _ := valueobject.NewMoney(d, currency)
		return v
	}
	return &billing.Invoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		CustomerID:          m.CustomerID,
		InvoiceDate:         m.InvoiceDate,
		TotalAmount:         money(m.TotalAmount),
		PaidAmount:          money(m.PaidAmount),
		BalanceAmount:       money(m.BalanceAmount),
		PendingChequeAmount: money(m.PendingChequeAmount),
		PaymentStatus:       m.PaymentStatus,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.InvoiceDate = inv.InvoiceDate
	m.Currency = string(inv.TotalAmount.Currency())
	m.TotalAmount = inv.TotalAmount.Amount()
	m.PaidAmount = inv.PaidAmount.Amount()
	m.BalanceAmount = inv.BalanceAmount.Amount()
	m.PendingChequeAmount = inv.PendingChequeAmount.Amount()
	m.PaymentStatus = inv.PaymentStatus
	m.Status = inv.Status
	m.Notes = inv.Notes
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
// Cheque details live in a JSONB column; the cheque status is projected
// into its own indexed column for register queries.
type PaymentModel struct {
	TenantAggregateModel
	PaymentNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_tenant_number,priority:2"`
	InvoiceID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	PaymentDate   time.Time              `gorm:"not null;index"`
	Currency      string                 `gorm:"type:varchar(3);not null;default:'LKR'"`
	Amount        decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Method        billing.PaymentMethod  `gorm:"type:varchar(20);not null;index"`
	Type          billing.PaymentType    `gorm:"type:varchar(20);not null"`
	Reference     string                 `gorm:"type:varchar(100)"`
	BankName      string                 `gorm:"type:varchar(100)"`
	Cheque        *billing.ChequeDetails `gorm:"type:jsonb"`
	ChequeStatus  *billing.ChequeStatus  `gorm:"type:varchar(20);index"`
	Notes         string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	amount, _ := valueobject.NewMoney(m.Amount, valueobject.Currency(m.Currency))
	return &billing.Payment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PaymentNumber:       m.PaymentNumber,
		InvoiceID:           m.InvoiceID,
		CustomerID:          m.CustomerID,
		PaymentDate:         m.PaymentDate,
		Amount:              amount,
		Method:              m.Method,
		Type:                m.Type,
		Reference:           m.Reference,
		BankName:            m.BankName,
		Cheque:              m.Cheque,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.InvoiceID = p.InvoiceID
	m.CustomerID = p.CustomerID
	m.PaymentDate = p.PaymentDate
	m.Currency = string(p.Amount.Currency())
	m.Amount = p.Amount.Amount()
	m.Method = p.Method
	m.Type = p.Type
	m.Reference = p.Reference
	m.BankName = p.BankName
	m.Cheque = p.Cheque
	m.ChequeStatus = nil
	if p.Cheque != nil {
		status := p.Cheque.Status
		m.ChequeStatus = &status
	}
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
