package partner

import (
	"time"

	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest carries the fields of a new customer
type CreateCustomerRequest struct {
	Code        string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
}

// UpdateCustomerRequest carries optional updates to a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
}

// CustomerListFilter narrows customer list queries
type CustomerListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// CustomerResponse is the service-level view of a customer
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCustomerResponse maps a customer aggregate to its response view
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCustomerResponses maps a slice of customers to response views
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
