package identity

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
)

// OrganizationStatus represents the status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

// Organization is the unit of data isolation. Every entity in the system
// belongs to exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	Name     string
	Timezone string
	Status   OrganizationStatus
}

// NewOrganization creates a new organization
func NewOrganization(name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Timezone:          "UTC",
		Status:            OrganizationStatusActive,
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))

	return org, nil
}

// Rename changes the organization name
func (o *Organization) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}

	o.Name = name
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetTimezone sets the organization timezone used for date-derived fields
func (o *Organization) SetTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone identifier")
	}

	o.Timezone = tz
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Suspend suspends the organization
func (o *Organization) Suspend() {
	o.Status = OrganizationStatusSuspended
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// IsActive returns true if the organization is active
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}
