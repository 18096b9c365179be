package operations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/operations"
)

// CreateTripRequest contains fields for scheduling a trip
type CreateTripRequest struct {
	TruckID       uuid.UUID
	DriverID      uuid.UUID
	CustomerID    *uuid.UUID
	Origin        string
	Destination   string
	ScheduledDate time.Time
	Revenue       decimal.Decimal
	StartMileage  int
	Notes         string
}

// UpdateTripRequest contains mutable trip fields
type UpdateTripRequest struct {
	CustomerID   *uuid.UUID
	Revenue      *decimal.Decimal
	StartMileage *int
	Notes        *string
}

// CompleteTripRequest carries the closing odometer reading
type CompleteTripRequest struct {
	EndMileage int
}

// RescheduleTripRequest carries the new scheduled date
type RescheduleTripRequest struct {
	ScheduledDate time.Time
}

// TripListFilter contains list filter options
type TripListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     string
	TruckID    *uuid.UUID
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// TripResponse is the API projection of a trip
type TripResponse struct {
	ID            uuid.UUID       `json:"id"`
	TruckID       uuid.UUID       `json:"truck_id"`
	DriverID      uuid.UUID       `json:"driver_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	ScheduledDate time.Time       `json:"scheduled_date"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	EndedAt       *time.Time      `json:"ended_at,omitempty"`
	Revenue       decimal.Decimal `json:"revenue"`
	Status        string          `json:"status"`
	StartMileage  int             `json:"start_mileage"`
	EndMileage    int             `json:"end_mileage"`
	Distance      int             `json:"distance"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToTripResponse converts a domain trip to its API projection
func ToTripResponse(t *operations.Trip) TripResponse {
	return TripResponse{
		ID:            t.ID,
		TruckID:       t.TruckID,
		DriverID:      t.DriverID,
		CustomerID:    t.CustomerID,
		Origin:        t.Origin,
		Destination:   t.Destination,
		ScheduledDate: t.ScheduledDate,
		StartedAt:     t.StartedAt,
		EndedAt:       t.EndedAt,
		Revenue:       t.Revenue,
		Status:        string(t.Status),
		StartMileage:  t.StartMileage,
		EndMileage:    t.EndMileage,
		Distance:      t.Distance(),
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
