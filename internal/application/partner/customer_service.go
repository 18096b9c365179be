package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
)

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	tripRepo     operations.TripRepository
	invoiceRepo  billing.InvoiceRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	tripRepo operations.TripRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		tripRepo:     tripRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, actor identity.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot create customers")
	}

	customer, err := partner.NewCustomer(actor.OrganizationID, req.Name)
	if err != nil {
		return nil, err
	}
	customer.SetCreatedBy(actor.UserID)

	if req.ContactName != "" || req.Email != "" || req.Phone != "" {
		customer.SetContact(req.ContactName, req.Email, req.Phone)
	}
	if req.Address != "" {
		customer.SetAddress(req.Address)
	}
	if req.TaxID != "" {
		customer.SetTaxID(req.TaxID)
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer
func (s *CustomerService) GetByID(ctx context.Context, actor identity.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, actor identity.Actor, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := partner.CustomerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.Status != "" {
		status := partner.CustomerStatus(filter.Status)
		domainFilter.Status = &status
	}

	customers, total, err := s.customerRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update updates a customer's details
func (s *CustomerService) Update(ctx context.Context, actor identity.Actor, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit customers")
	}

	customer, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Email != nil || req.Phone != nil {
		contactName, email, phone := customer.ContactName, customer.Email, customer.Phone
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		customer.SetContact(contactName, email, phone)
	}
	if req.Address != nil {
		customer.SetAddress(*req.Address)
	}
	if req.TaxID != nil {
		customer.SetTaxID(*req.TaxID)
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate marks a customer as inactive without deleting history
func (s *CustomerService) Deactivate(ctx context.Context, actor identity.Actor, customerID uuid.UUID) error {
	if !actor.CanManage() {
		return shared.NewDomainError("FORBIDDEN", "Staff members cannot deactivate customers")
	}

	customer, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, customerID)
	if err != nil {
		return err
	}

	customer.Deactivate()
	return s.customerRepo.Save(ctx, customer)
}

// Delete removes a customer. Customers referenced by trips or invoices
// cannot be deleted; deactivate them instead.
func (s *CustomerService) Delete(ctx context.Context, actor identity.Actor, customerID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete customers")
	}

	trips, err := s.tripRepo.CountByCustomer(ctx, actor.OrganizationID, customerID)
	if err != nil {
		return err
	}
	if trips > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Customer has trips and cannot be deleted")
	}

	invoices, err := s.invoiceRepo.CountByCustomer(ctx, actor.OrganizationID, customerID)
	if err != nil {
		return err
	}
	if invoices > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Customer has invoices and cannot be deleted")
	}

	if err := s.customerRepo.DeleteForOrg(ctx, actor.OrganizationID, customerID); err != nil {
		return err
	}

	s.logger.Info("customer deleted",
		zap.String("customer_id", customerID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}
