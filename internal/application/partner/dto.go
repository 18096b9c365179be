package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/partner"
)

// CreateCustomerRequest contains fields for creating a customer
type CreateCustomerRequest struct {
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	TaxID       string
	Notes       string
}

// UpdateCustomerRequest contains mutable customer fields
type UpdateCustomerRequest struct {
	Name        *string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
	TaxID       *string
	Notes       *string
}

// CustomerListFilter contains list filter options
type CustomerListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// CustomerResponse is the API projection of a customer
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to its API projection
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		TaxID:       c.TaxID,
		Status:      string(c.Status),
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
