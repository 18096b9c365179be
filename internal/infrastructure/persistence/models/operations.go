package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/operations"
)

// TripModel is the persistence model for the Trip aggregate.
type TripModel struct {
	OrgAggregateModel
	TruckID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	DriverID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID            `gorm:"type:uuid;index"`
	Origin        string                `gorm:"type:varchar(200);not null"`
	Destination   string                `gorm:"type:varchar(200);not null"`
	ScheduledDate time.Time             `gorm:"not null;index"`
	StartedAt     *time.Time
	EndedAt       *time.Time
	Revenue       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status        operations.TripStatus `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	StartMileage  int                   `gorm:"not null;default:0"`
	EndMileage    int                   `gorm:"not null;default:0"`
	Notes         string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TripModel) TableName() string {
	return "trips"
}

// ToDomain converts the persistence model to a domain Trip.
func (m *TripModel) ToDomain() *operations.Trip {
	return &operations.Trip{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		TruckID:          m.TruckID,
		DriverID:         m.DriverID,
		CustomerID:       m.CustomerID,
		Origin:           m.Origin,
		Destination:      m.Destination,
		ScheduledDate:    m.ScheduledDate,
		StartedAt:        m.StartedAt,
		EndedAt:          m.EndedAt,
		Revenue:          m.Revenue,
		Status:           m.Status,
		StartMileage:     m.StartMileage,
		EndMileage:       m.EndMileage,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Trip.
func (m *TripModel) FromDomain(t *operations.Trip) {
	m.FromDomainOrgAggregateRoot(t.OrgAggregateRoot)
	m.TruckID = t.TruckID
	m.DriverID = t.DriverID
	m.CustomerID = t.CustomerID
	m.Origin = t.Origin
	m.Destination = t.Destination
	m.ScheduledDate = t.ScheduledDate
	m.StartedAt = t.StartedAt
	m.EndedAt = t.EndedAt
	m.Revenue = t.Revenue
	m.Status = t.Status
	m.StartMileage = t.StartMileage
	m.EndMileage = t.EndMileage
	m.Notes = t.Notes
}

// TripModelFromDomain creates a new persistence model from a domain Trip.
func TripModelFromDomain(t *operations.Trip) *TripModel {
	m := &TripModel{}
	m.FromDomain(t)
	return m
}
