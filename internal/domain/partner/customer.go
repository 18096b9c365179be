package partner

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a freight customer the organization hauls for
// and invoices.
type Customer struct {
	shared.OrgAggregateRoot
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	TaxID       string
	Status      CustomerStatus
	Notes       string
}

// NewCustomer creates a new active customer
func NewCustomer(organizationID uuid.UUID, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}

	return &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Status:           CustomerStatusActive,
	}, nil
}

// Rename changes the customer name
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	c.Name = name
	c.touch()
	return nil
}

// SetContact updates contact details
func (c *Customer) SetContact(contactName, email, phone string) {
	c.ContactName = strings.TrimSpace(contactName)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	c.touch()
}

// SetAddress updates the billing address
func (c *Customer) SetAddress(address string) {
	c.Address = strings.TrimSpace(address)
	c.touch()
}

// SetTaxID updates the tax identifier printed on invoices
func (c *Customer) SetTaxID(taxID string) {
	c.TaxID = strings.TrimSpace(taxID)
	c.touch()
}

// SetNotes updates free-form notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Deactivate marks the customer inactive; existing trips and invoices keep
// referencing it.
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.touch()
}

// Activate marks the customer active
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.touch()
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
