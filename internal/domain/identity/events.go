package identity

import (
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationCreatedEvent is raised when a new organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrganizationCreated", "Organization", org.ID, org.ID),
		Name:            org.Name,
	}
}

// UserCreatedEvent is raised when a new user is created. Notification
// handlers use it to deliver initial credentials by email.
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID, u.OrganizationID),
		UserID:          u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Role:            u.Role,
	}
}

// UserDeactivatedEvent is raised when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserDeactivated", "User", u.ID, u.OrganizationID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}

// EditRequestCreatedEvent is raised when a staff member submits an edit request
type EditRequestCreatedEvent struct {
	shared.BaseDomainEvent
	EditRequestID uuid.UUID             `json:"edit_request_id"`
	EntityType    EditRequestEntityType `json:"entity_type"`
	EntityID      uuid.UUID             `json:"entity_id"`
}

// NewEditRequestCreatedEvent creates a new EditRequestCreatedEvent
func NewEditRequestCreatedEvent(er *EditRequest) *EditRequestCreatedEvent {
	return &EditRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("EditRequestCreated", "EditRequest", er.ID, er.OrganizationID),
		EditRequestID:   er.ID,
		EntityType:      er.EntityType,
		EntityID:        er.EntityID,
	}
}
