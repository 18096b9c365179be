package fleet

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DriverStatus represents the employment/availability status of a driver
type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusOnLeave  DriverStatus = "on_leave"
	DriverStatusInactive DriverStatus = "inactive"
)

// IsValid checks if the status is a known driver status
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverStatusActive, DriverStatusOnLeave, DriverStatusInactive:
		return true
	}
	return false
}

// Driver represents a driver employed by the organization.
// A driver holds at most one assigned truck; the 1:1 invariant between
// drivers and trucks is enforced by the assignment service, which unassigns
// any other driver pointing at the same truck.
type Driver struct {
	shared.OrgAggregateRoot
	Name            string
	LicenseNumber   string // Unique per organization
	Phone           string
	Email           string
	Status          DriverStatus
	AssignedTruckID *uuid.UUID
	HiredAt         *time.Time
	Notes           string
}

// NewDriver creates a new active driver
func NewDriver(organizationID uuid.UUID, name, licenseNumber string) (*Driver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Driver name cannot be empty")
	}
	licenseNumber = strings.ToUpper(strings.TrimSpace(licenseNumber))
	if licenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_LICENSE", "License number cannot be empty")
	}
	if len(licenseNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_LICENSE", "License number cannot exceed 50 characters")
	}

	d := &Driver{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		LicenseNumber:    licenseNumber,
		Status:           DriverStatusActive,
	}

	d.AddDomainEvent(NewDriverCreatedEvent(d))

	return d, nil
}

// AssignTruck points the driver at a truck. Callers must first clear the
// truck from any other driver; see fleet application service.
func (d *Driver) AssignTruck(truckID uuid.UUID) error {
	if truckID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRUCK", "Truck ID cannot be empty")
	}
	if d.Status == DriverStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Inactive drivers cannot be assigned a truck")
	}

	d.AssignedTruckID = &truckID
	d.touch()
	return nil
}

// UnassignTruck clears the driver's truck assignment
func (d *Driver) UnassignTruck() {
	d.AssignedTruckID = nil
	d.touch()
}

// MarkOnDuty is called when one of the driver's trips moves to in_progress
func (d *Driver) MarkOnDuty() error {
	if d.Status == DriverStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Inactive drivers cannot go on duty")
	}

	d.Status = DriverStatusActive
	d.touch()
	return nil
}

// MarkAvailable is called when an assigned trip completes or is cancelled
func (d *Driver) MarkAvailable() error {
	if d.Status == DriverStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Inactive drivers cannot return to duty")
	}

	d.Status = DriverStatusActive
	d.touch()
	return nil
}

// Rename changes the driver's name
func (d *Driver) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Driver name cannot be empty")
	}

	d.Name = name
	d.touch()
	return nil
}

// SetContact updates contact details
func (d *Driver) SetContact(phone, email string) {
	d.Phone = strings.TrimSpace(phone)
	d.Email = strings.ToLower(strings.TrimSpace(email))
	d.touch()
}

// SetHiredAt records the hire date
func (d *Driver) SetHiredAt(hiredAt time.Time) {
	d.HiredAt = &hiredAt
	d.touch()
}

// GoOnLeave puts the driver on leave
func (d *Driver) GoOnLeave() error {
	if d.Status == DriverStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Inactive drivers cannot go on leave")
	}

	d.Status = DriverStatusOnLeave
	d.touch()
	return nil
}

// Deactivate removes the driver from active duty and clears any truck assignment
func (d *Driver) Deactivate() {
	d.Status = DriverStatusInactive
	d.AssignedTruckID = nil
	d.touch()
}

// SetNotes updates free-form notes
func (d *Driver) SetNotes(notes string) {
	d.Notes = notes
	d.touch()
}

func (d *Driver) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
