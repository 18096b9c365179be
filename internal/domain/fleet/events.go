package fleet

import (
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TruckCreatedEvent is raised when a truck is added to the fleet
type TruckCreatedEvent struct {
	shared.BaseDomainEvent
	TruckID            uuid.UUID `json:"truck_id"`
	RegistrationNumber string    `json:"registration_number"`
}

// NewTruckCreatedEvent creates a new TruckCreatedEvent
func NewTruckCreatedEvent(t *Truck) *TruckCreatedEvent {
	return &TruckCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("TruckCreated", "Truck", t.ID, t.OrganizationID),
		TruckID:            t.ID,
		RegistrationNumber: t.RegistrationNumber,
	}
}

// DriverCreatedEvent is raised when a driver is hired
type DriverCreatedEvent struct {
	shared.BaseDomainEvent
	DriverID      uuid.UUID `json:"driver_id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
}

// NewDriverCreatedEvent creates a new DriverCreatedEvent
func NewDriverCreatedEvent(d *Driver) *DriverCreatedEvent {
	return &DriverCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DriverCreated", "Driver", d.ID, d.OrganizationID),
		DriverID:        d.ID,
		Name:            d.Name,
		LicenseNumber:   d.LicenseNumber,
	}
}

// TruckAssignedEvent is raised when a truck is assigned to a driver
type TruckAssignedEvent struct {
	shared.BaseDomainEvent
	DriverID uuid.UUID `json:"driver_id"`
	TruckID  uuid.UUID `json:"truck_id"`
}

// NewTruckAssignedEvent creates a new TruckAssignedEvent
func NewTruckAssignedEvent(d *Driver, truckID uuid.UUID) *TruckAssignedEvent {
	return &TruckAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TruckAssigned", "Driver", d.ID, d.OrganizationID),
		DriverID:        d.ID,
		TruckID:         truckID,
	}
}
