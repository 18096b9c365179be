package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/fleet"
)

// TruckModel is the persistence model for the Truck aggregate.
// Registration numbers are unique per organization.
type TruckModel struct {
	OrgAggregateModel
	RegistrationNumber string            `gorm:"type:varchar(30);not null;index"`
	Make               string            `gorm:"type:varchar(100)"`
	Model              string            `gorm:"type:varchar(100)"`
	Year               int               `gorm:"not null;default:0"`
	CapacityKg         int               `gorm:"not null;default:0"`
	CurrentMileage     int               `gorm:"not null;default:0"`
	Status             fleet.TruckStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes              string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TruckModel) TableName() string {
	return "trucks"
}

// ToDomain converts the persistence model to a domain Truck.
func (m *TruckModel) ToDomain() *fleet.Truck {
	return &fleet.Truck{
		OrgAggregateRoot:   m.ToDomainOrgAggregateRoot(),
		RegistrationNumber: m.RegistrationNumber,
		Make:               m.Make,
		Model:              m.Model,
		Year:               m.Year,
		CapacityKg:         m.CapacityKg,
		CurrentMileage:     m.CurrentMileage,
		Status:             m.Status,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Truck.
func (m *TruckModel) FromDomain(t *fleet.Truck) {
	m.FromDomainOrgAggregateRoot(t.OrgAggregateRoot)
	m.RegistrationNumber = t.RegistrationNumber
	m.Make = t.Make
	m.Model = t.Model
	m.Year = t.Year
	m.CapacityKg = t.CapacityKg
	m.CurrentMileage = t.CurrentMileage
	m.Status = t.Status
	m.Notes = t.Notes
}

// TruckModelFromDomain creates a new persistence model from a domain Truck.
func TruckModelFromDomain(t *fleet.Truck) *TruckModel {
	m := &TruckModel{}
	m.FromDomain(t)
	return m
}

// DriverModel is the persistence model for the Driver aggregate.
// License numbers are unique per organization; AssignedTruckID is unique
// so two drivers can never hold the same truck.
type DriverModel struct {
	OrgAggregateModel
	Name            string             `gorm:"type:varchar(100);not null;index"`
	LicenseNumber   string             `gorm:"type:varchar(50);not null;index"`
	Phone           string             `gorm:"type:varchar(50)"`
	Email           string             `gorm:"type:varchar(200)"`
	Status          fleet.DriverStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	AssignedTruckID *uuid.UUID         `gorm:"type:uuid;uniqueIndex"`
	HiredAt         *time.Time
	Notes           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DriverModel) TableName() string {
	return "drivers"
}

// ToDomain converts the persistence model to a domain Driver.
func (m *DriverModel) ToDomain() *fleet.Driver {
	return &fleet.Driver{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		LicenseNumber:    m.LicenseNumber,
		Phone:            m.Phone,
		Email:            m.Email,
		Status:           m.Status,
		AssignedTruckID:  m.AssignedTruckID,
		HiredAt:          m.HiredAt,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Driver.
func (m *DriverModel) FromDomain(d *fleet.Driver) {
	m.FromDomainOrgAggregateRoot(d.OrgAggregateRoot)
	m.Name = d.Name
	m.LicenseNumber = d.LicenseNumber
	m.Phone = d.Phone
	m.Email = d.Email
	m.Status = d.Status
	m.AssignedTruckID = d.AssignedTruckID
	m.HiredAt = d.HiredAt
	m.Notes = d.Notes
}

// DriverModelFromDomain creates a new persistence model from a domain Driver.
func DriverModelFromDomain(d *fleet.Driver) *DriverModel {
	m := &DriverModel{}
	m.FromDomain(d)
	return m
}
