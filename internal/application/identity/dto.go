package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// UserInfo is the user projection embedded in auth responses
type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Phone          string    `json:"phone,omitempty"`
	Role           string    `json:"role"`
}

// LoginResult contains the issued tokens and user info
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the reissued token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CreateUserRequest contains fields for creating a user
type CreateUserRequest struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Role        string
}

// UpdateUserRequest contains mutable profile fields
type UpdateUserRequest struct {
	DisplayName *string
	Phone       *string
}

// ChangePasswordRequest contains the password change input
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

// UserListFilter contains list filter options
type UserListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Role     string
	Status   string
}

// UserResponse is the API projection of a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to its API projection
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CreateEditRequestRequest contains fields for submitting an edit request
type CreateEditRequestRequest struct {
	EntityType string
	EntityID   uuid.UUID
	Changes    map[string]string
	Note       string
}

// ResolveEditRequestRequest contains the resolution note
type ResolveEditRequestRequest struct {
	Resolution string
}

// EditRequestListFilter contains list filter options
type EditRequestListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Status     string
	EntityType string
	Mine       bool
}

// EditRequestResponse is the API projection of an edit request
type EditRequestResponse struct {
	ID          uuid.UUID         `json:"id"`
	EntityType  string            `json:"entity_type"`
	EntityID    uuid.UUID         `json:"entity_id"`
	Changes     map[string]string `json:"changes"`
	Note        string            `json:"note,omitempty"`
	Status      string            `json:"status"`
	RequestedBy *uuid.UUID        `json:"requested_by,omitempty"`
	ResolvedBy  *uuid.UUID        `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	Resolution  string            `json:"resolution,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToEditRequestResponse converts a domain edit request to its API projection
func ToEditRequestResponse(er *identity.EditRequest) EditRequestResponse {
	return EditRequestResponse{
		ID:          er.ID,
		EntityType:  string(er.EntityType),
		EntityID:    er.EntityID,
		Changes:     er.Changes,
		Note:        er.Note,
		Status:      string(er.Status),
		RequestedBy: er.CreatedBy,
		ResolvedBy:  er.ResolvedBy,
		ResolvedAt:  er.ResolvedAt,
		Resolution:  er.Resolution,
		CreatedAt:   er.CreatedAt,
	}
}
