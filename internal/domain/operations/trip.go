package operations

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusScheduled  TripStatus = "scheduled"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// IsValid checks if the status is a known trip status
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusScheduled, TripStatusInProgress, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TripStatus
func (s TripStatus) String() string {
	return string(s)
}

// IsTerminal returns true for completed and cancelled trips
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip represents a single haul from origin to destination, performed by
// one driver with one truck, optionally on behalf of a customer.
type Trip struct {
	shared.OrgAggregateRoot
	TruckID       uuid.UUID
	DriverID      uuid.UUID
	CustomerID    *uuid.UUID
	Origin        string
	Destination   string
	ScheduledDate time.Time
	StartedAt     *time.Time
	EndedAt       *time.Time
	Revenue       decimal.Decimal
	Status        TripStatus
	StartMileage  int
	EndMileage    int
	Notes         string
}

// NewTrip creates a new trip. Status is derived from the scheduled date and
// never supplied by the caller: a trip scheduled for today or earlier starts
// in_progress, otherwise it is scheduled.
func NewTrip(organizationID, truckID, driverID uuid.UUID, origin, destination string, scheduledDate time.Time, now time.Time) (*Trip, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Origin and destination are required")
	}
	if truckID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRUCK", "Truck ID cannot be empty")
	}
	if driverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DRIVER", "Driver ID cannot be empty")
	}
	if scheduledDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}

	t := &Trip{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		TruckID:          truckID,
		DriverID:         driverID,
		Origin:           origin,
		Destination:      destination,
		ScheduledDate:    scheduledDate,
		Revenue:          decimal.Zero,
		Status:           TripStatusScheduled,
	}

	if !beginningOfDay(scheduledDate).After(beginningOfDay(now)) {
		t.Status = TripStatusInProgress
		started := now
		t.StartedAt = &started
	}

	t.AddDomainEvent(NewTripCreatedEvent(t))

	return t, nil
}

// SetCustomer links the trip to a customer
func (t *Trip) SetCustomer(customerID uuid.UUID) {
	if customerID == uuid.Nil {
		t.CustomerID = nil
	} else {
		t.CustomerID = &customerID
	}
	t.touch()
}

// SetRevenue records the agreed revenue for the haul
func (t *Trip) SetRevenue(revenue decimal.Decimal) error {
	if revenue.IsNegative() {
		return shared.NewDomainError("INVALID_REVENUE", "Revenue cannot be negative")
	}

	t.Revenue = revenue
	t.touch()
	return nil
}

// Start moves a scheduled trip to in_progress
func (t *Trip) Start(now time.Time) error {
	if t.Status != TripStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled trips can be started")
	}

	t.Status = TripStatusInProgress
	t.StartedAt = &now
	t.touch()

	t.AddDomainEvent(NewTripStatusChangedEvent(t, TripStatusScheduled))

	return nil
}

// Complete finishes an in-progress trip and records the end mileage
func (t *Trip) Complete(now time.Time, endMileage int) error {
	if t.Status != TripStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only in-progress trips can be completed")
	}
	if endMileage != 0 && endMileage < t.StartMileage {
		return shared.NewDomainError("INVALID_MILEAGE", "End mileage cannot be below start mileage")
	}

	previous := t.Status
	t.Status = TripStatusCompleted
	t.EndedAt = &now
	t.EndMileage = endMileage
	t.touch()

	t.AddDomainEvent(NewTripStatusChangedEvent(t, previous))

	return nil
}

// Cancel cancels a trip that has not completed
func (t *Trip) Cancel(now time.Time) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Trip has already ended")
	}

	previous := t.Status
	t.Status = TripStatusCancelled
	t.EndedAt = &now
	t.touch()

	t.AddDomainEvent(NewTripStatusChangedEvent(t, previous))

	return nil
}

// Reschedule moves the scheduled date of a not-yet-started trip
func (t *Trip) Reschedule(scheduledDate time.Time) error {
	if t.Status != TripStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled trips can be rescheduled")
	}
	if scheduledDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}

	t.ScheduledDate = scheduledDate
	t.touch()
	return nil
}

// SetStartMileage records the odometer reading at departure
func (t *Trip) SetStartMileage(mileage int) error {
	if mileage < 0 {
		return shared.NewDomainError("INVALID_MILEAGE", "Mileage cannot be negative")
	}

	t.StartMileage = mileage
	t.touch()
	return nil
}

// SetNotes updates free-form notes
func (t *Trip) SetNotes(notes string) {
	t.Notes = notes
	t.touch()
}

// Distance returns the mileage covered, or 0 when not yet recorded
func (t *Trip) Distance() int {
	if t.EndMileage > t.StartMileage {
		return t.EndMileage - t.StartMileage
	}
	return 0
}

func (t *Trip) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func beginningOfDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
