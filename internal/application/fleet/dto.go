package fleet

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/fleet"
)

// CreateTruckRequest contains fields for registering a truck
type CreateTruckRequest struct {
	RegistrationNumber string
	Make               string
	Model              string
	Year               int
	CapacityKg         int
	CurrentMileage     int
	Notes              string
}

// UpdateTruckRequest contains mutable truck fields
type UpdateTruckRequest struct {
	CapacityKg     *int
	CurrentMileage *int
	Notes          *string
}

// TruckListFilter contains list filter options
type TruckListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// TruckResponse is the API projection of a truck
type TruckResponse struct {
	ID                 uuid.UUID `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	Make               string    `json:"make"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	CapacityKg         int       `json:"capacity_kg"`
	CurrentMileage     int       `json:"current_mileage"`
	Status             string    `json:"status"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToTruckResponse converts a domain truck to its API projection
func ToTruckResponse(t *fleet.Truck) TruckResponse {
	return TruckResponse{
		ID:                 t.ID,
		RegistrationNumber: t.RegistrationNumber,
		Make:               t.Make,
		Model:              t.Model,
		Year:               t.Year,
		CapacityKg:         t.CapacityKg,
		CurrentMileage:     t.CurrentMileage,
		Status:             string(t.Status),
		Notes:              t.Notes,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// CreateDriverRequest contains fields for registering a driver
type CreateDriverRequest struct {
	Name          string
	LicenseNumber string
	Phone         string
	Email         string
	HiredAt       *time.Time
	Notes         string
}

// UpdateDriverRequest contains mutable driver fields
type UpdateDriverRequest struct {
	Name    *string
	Phone   *string
	Email   *string
	HiredAt *time.Time
	Notes   *string
}

// DriverListFilter contains list filter options
type DriverListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// DriverResponse is the API projection of a driver
type DriverResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	LicenseNumber   string     `json:"license_number"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Status          string     `json:"status"`
	AssignedTruckID *uuid.UUID `json:"assigned_truck_id,omitempty"`
	HiredAt         *time.Time `json:"hired_at,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToDriverResponse converts a domain driver to its API projection
func ToDriverResponse(d *fleet.Driver) DriverResponse {
	return DriverResponse{
		ID:              d.ID,
		Name:            d.Name,
		LicenseNumber:   d.LicenseNumber,
		Phone:           d.Phone,
		Email:           d.Email,
		Status:          string(d.Status),
		AssignedTruckID: d.AssignedTruckID,
		HiredAt:         d.HiredAt,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
