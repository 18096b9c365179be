package operations

import (
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TripCreatedEvent is raised when a trip is created. The webhook notifier
// uses it to tell the dispatch agent about new assignments.
type TripCreatedEvent struct {
	shared.BaseDomainEvent
	TripID        uuid.UUID  `json:"trip_id"`
	TruckID       uuid.UUID  `json:"truck_id"`
	DriverID      uuid.UUID  `json:"driver_id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Status        TripStatus `json:"status"`
}

// NewTripCreatedEvent creates a new TripCreatedEvent
func NewTripCreatedEvent(t *Trip) *TripCreatedEvent {
	return &TripCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TripCreated", "Trip", t.ID, t.OrganizationID),
		TripID:          t.ID,
		TruckID:         t.TruckID,
		DriverID:        t.DriverID,
		Origin:          t.Origin,
		Destination:     t.Destination,
		ScheduledDate:   t.ScheduledDate,
		Status:          t.Status,
	}
}

// TripStatusChangedEvent is raised on every trip status transition
type TripStatusChangedEvent struct {
	shared.BaseDomainEvent
	TripID         uuid.UUID  `json:"trip_id"`
	TruckID        uuid.UUID  `json:"truck_id"`
	DriverID       uuid.UUID  `json:"driver_id"`
	PreviousStatus TripStatus `json:"previous_status"`
	Status         TripStatus `json:"status"`
}

// NewTripStatusChangedEvent creates a new TripStatusChangedEvent
func NewTripStatusChangedEvent(t *Trip, previous TripStatus) *TripStatusChangedEvent {
	return &TripStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TripStatusChanged", "Trip", t.ID, t.OrganizationID),
		TripID:          t.ID,
		TruckID:         t.TruckID,
		DriverID:        t.DriverID,
		PreviousStatus:  previous,
		Status:          t.Status,
	}
}
