package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
)

var errCustomerNotFound = shared.NewDomainError("NOT_FOUND", "Customer not found")

// CustomerService implements the customer operations behind the API.
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// SetEventPublisher wires the bus customer events are drained onto
// after a successful save. Without one, events are silently discarded.
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CustomerService) publishDomainEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	events := customer.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	customer.ClearDomainEvents()
}

// requireCustomer loads the customer or fails with a NOT_FOUND domain
// error, so handlers answer 404 instead of leaking a nil aggregate.
func (s *CustomerService) requireCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errCustomerNotFound
	}
	return customer, nil
}

// Create registers a new customer. Codes are unique per tenant.
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" || req.Address != "" {
		if err := customer.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.requireCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errCustomerNotFound
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List pages through the tenant's customers and reports the unpaged
// total alongside.
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.customerRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update applies the non-nil fields of the request over the stored
// contact details.
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.requireCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	err = customer.Update(
		coalesce(req.Name, customer.Name),
		coalesce(req.ContactName, customer.ContactName),
		coalesce(req.Phone, customer.Phone),
		coalesce(req.Email, customer.Email),
		coalesce(req.Address, customer.Address),
	)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.transition(ctx, tenantID, customerID, (*partner.Customer).Activate)
}

func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.transition(ctx, tenantID, customerID, (*partner.Customer).Deactivate)
}

func (s *CustomerService) transition(ctx context.Context, tenantID, customerID uuid.UUID, fn func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.requireCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := fn(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func coalesce(override *string, current string) string {
	if override != nil {
		return *override
	}
	return current
}
