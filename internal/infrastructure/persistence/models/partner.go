package models

import (
	"github.com/fleetops/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	OrgAggregateModel
	Name        string                 `gorm:"type:varchar(200);not null;index"`
	ContactName string                 `gorm:"type:varchar(100)"`
	Email       string                 `gorm:"type:varchar(200);index"`
	Phone       string                 `gorm:"type:varchar(50);index"`
	Address     string                 `gorm:"type:text"`
	TaxID       string                 `gorm:"type:varchar(50)"`
	Status      partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes       string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		ContactName:      m.ContactName,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		TaxID:            m.TaxID,
		Status:           m.Status,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.Name = c.Name
	m.ContactName = c.ContactName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.TaxID = c.TaxID
	m.Status = c.Status
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
