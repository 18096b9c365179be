package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/identity"
)

// OrganizationModel is the persistence model for the Organization aggregate.
type OrganizationModel struct {
	AggregateModel
	Name     string                      `gorm:"type:varchar(200);not null"`
	Timezone string                      `gorm:"type:varchar(64);not null;default:'UTC'"`
	Status   identity.OrganizationStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization.
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Timezone:          m.Timezone,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Organization.
func (m *OrganizationModel) FromDomain(o *identity.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Timezone = o.Timezone
	m.Status = o.Status
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization.
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// UserModel is the persistence model for the User aggregate. Email is
// globally unique because login does not know the organization up front.
type UserModel struct {
	OrgAggregateModel
	Email        string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string              `gorm:"type:varchar(100);not null"`
	DisplayName  string              `gorm:"type:varchar(100);not null"`
	Phone        string              `gorm:"type:varchar(50)"`
	Role         identity.Role       `gorm:"type:varchar(20);not null;default:'staff'"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
	LastLoginIP  string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		DisplayName:      m.DisplayName,
		Phone:            m.Phone,
		Role:             m.Role,
		Status:           m.Status,
		LastLoginAt:      m.LastLoginAt,
		LastLoginIP:      m.LastLoginIP,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainOrgAggregateRoot(u.OrgAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Phone = u.Phone
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// EditRequestModel is the persistence model for the EditRequest aggregate.
// Changes is stored as JSONB via the domain type's Valuer/Scanner.
type EditRequestModel struct {
	OrgAggregateModel
	EntityType identity.EditRequestEntityType `gorm:"type:varchar(20);not null;index"`
	EntityID   uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Changes    identity.RequestedChanges      `gorm:"type:jsonb;not null"`
	Note       string                         `gorm:"type:text"`
	Status     identity.EditRequestStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ResolvedBy *uuid.UUID                     `gorm:"type:uuid"`
	ResolvedAt *time.Time
	Resolution string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EditRequestModel) TableName() string {
	return "edit_requests"
}

// ToDomain converts the persistence model to a domain EditRequest.
func (m *EditRequestModel) ToDomain() *identity.EditRequest {
	return &identity.EditRequest{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		EntityType:       m.EntityType,
		EntityID:         m.EntityID,
		Changes:          m.Changes,
		Note:             m.Note,
		Status:           m.Status,
		ResolvedBy:       m.ResolvedBy,
		ResolvedAt:       m.ResolvedAt,
		Resolution:       m.Resolution,
	}
}

// FromDomain populates the persistence model from a domain EditRequest.
func (m *EditRequestModel) FromDomain(er *identity.EditRequest) {
	m.FromDomainOrgAggregateRoot(er.OrgAggregateRoot)
	m.EntityType = er.EntityType
	m.EntityID = er.EntityID
	m.Changes = er.Changes
	m.Note = er.Note
	m.Status = er.Status
	m.ResolvedBy = er.ResolvedBy
	m.ResolvedAt = er.ResolvedAt
	m.Resolution = er.Resolution
}

// EditRequestModelFromDomain creates a new persistence model from a domain EditRequest.
func EditRequestModelFromDomain(er *identity.EditRequest) *EditRequestModel {
	m := &EditRequestModel{}
	m.FromDomain(er)
	return m
}
