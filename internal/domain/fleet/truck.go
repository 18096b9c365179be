package fleet

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TruckStatus represents the operational status of a truck
type TruckStatus string

const (
	TruckStatusActive      TruckStatus = "active"      // Available for dispatch
	TruckStatusInService   TruckStatus = "in_service"  // Currently on a trip
	TruckStatusMaintenance TruckStatus = "maintenance" // In the shop
	TruckStatusRetired     TruckStatus = "retired"     // Removed from the fleet
)

// IsValid checks if the status is a known truck status
func (s TruckStatus) IsValid() bool {
	switch s {
	case TruckStatusActive, TruckStatusInService, TruckStatusMaintenance, TruckStatusRetired:
		return true
	}
	return false
}

// String returns the string representation of TruckStatus
func (s TruckStatus) String() string {
	return string(s)
}

// Truck represents a vehicle in the organization's fleet
type Truck struct {
	shared.OrgAggregateRoot
	RegistrationNumber string // Unique per organization
	Make               string
	Model              string
	Year               int
	CapacityKg         int
	CurrentMileage     int
	Status             TruckStatus
	Notes              string
}

// NewTruck creates a new truck in active status
func NewTruck(organizationID uuid.UUID, registrationNumber, make, model string, year int) (*Truck, error) {
	registrationNumber = strings.ToUpper(strings.TrimSpace(registrationNumber))
	if registrationNumber == "" {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration number cannot be empty")
	}
	if len(registrationNumber) > 30 {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration number cannot exceed 30 characters")
	}
	if year != 0 && (year < 1950 || year > time.Now().Year()+1) {
		return nil, shared.NewDomainError("INVALID_YEAR", "Model year is out of range")
	}

	t := &Truck{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(organizationID),
		RegistrationNumber: registrationNumber,
		Make:               strings.TrimSpace(make),
		Model:              strings.TrimSpace(model),
		Year:               year,
		Status:             TruckStatusActive,
	}

	t.AddDomainEvent(NewTruckCreatedEvent(t))

	return t, nil
}

// MarkInService puts the truck on the road. Called when an assigned trip
// moves to in_progress.
func (t *Truck) MarkInService() error {
	if t.Status == TruckStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Retired trucks cannot be placed in service")
	}

	t.Status = TruckStatusInService
	t.touch()
	return nil
}

// MarkAvailable returns the truck to the available pool. Called when an
// assigned trip is completed or cancelled.
func (t *Truck) MarkAvailable() error {
	if t.Status == TruckStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Retired trucks cannot return to service")
	}

	t.Status = TruckStatusActive
	t.touch()
	return nil
}

// SendToMaintenance moves the truck to maintenance
func (t *Truck) SendToMaintenance() error {
	if t.Status == TruckStatusInService {
		return shared.NewDomainError("INVALID_STATE", "Truck is on a trip and cannot enter maintenance")
	}
	if t.Status == TruckStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Retired trucks cannot enter maintenance")
	}

	t.Status = TruckStatusMaintenance
	t.touch()
	return nil
}

// Retire permanently removes the truck from the fleet
func (t *Truck) Retire() error {
	if t.Status == TruckStatusInService {
		return shared.NewDomainError("INVALID_STATE", "Truck is on a trip and cannot be retired")
	}

	t.Status = TruckStatusRetired
	t.touch()
	return nil
}

// SetCapacity updates the load capacity
func (t *Truck) SetCapacity(capacityKg int) error {
	if capacityKg < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}

	t.CapacityKg = capacityKg
	t.touch()
	return nil
}

// RecordMileage updates the odometer reading
func (t *Truck) RecordMileage(mileage int) error {
	if mileage < t.CurrentMileage {
		return shared.NewDomainError("INVALID_MILEAGE", "Mileage cannot decrease")
	}

	t.CurrentMileage = mileage
	t.touch()
	return nil
}

// SetNotes updates free-form notes
func (t *Truck) SetNotes(notes string) {
	t.Notes = notes
	t.touch()
}

func (t *Truck) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
