package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	operationsapp "github.com/fleetops/backend/internal/application/operations"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// TripHandler handles trip endpoints
type TripHandler struct {
	BaseHandler
	tripService *operationsapp.TripService
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *operationsapp.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the create trip request body
type CreateTripRequest struct {
	TruckID       uuid.UUID       `json:"truck_id" binding:"required"`
	DriverID      uuid.UUID       `json:"driver_id" binding:"required"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	Origin        string          `json:"origin" binding:"required,min=1,max=200"`
	Destination   string          `json:"destination" binding:"required,min=1,max=200"`
	ScheduledDate time.Time       `json:"scheduled_date" binding:"required"`
	Revenue       decimal.Decimal `json:"revenue"`
	StartMileage  int             `json:"start_mileage" binding:"omitempty,min=0"`
	Notes         string          `json:"notes"`
}

// UpdateTripRequest is the update trip request body
type UpdateTripRequest struct {
	CustomerID   *uuid.UUID       `json:"customer_id"`
	Revenue      *decimal.Decimal `json:"revenue"`
	StartMileage *int             `json:"start_mileage" binding:"omitempty,min=0"`
	Notes        *string          `json:"notes"`
}

// CompleteTripRequest is the trip completion request body
type CompleteTripRequest struct {
	EndMileage int `json:"end_mileage" binding:"required,min=0"`
}

// RescheduleTripRequest is the trip reschedule request body
type RescheduleTripRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// TripListRequest is the list query for trips
type TripListRequest struct {
	dto.ListRequest
	Status     string     `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	TruckID    *uuid.UUID `form:"truck_id"`
	DriverID   *uuid.UUID `form:"driver_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Create schedules a new trip
func (h *TripHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid trip payload")
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), actor, operationsapp.CreateTripRequest{
		TruckID:       req.TruckID,
		DriverID:      req.DriverID,
		CustomerID:    req.CustomerID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		ScheduledDate: req.ScheduledDate,
		Revenue:       req.Revenue,
		StartMileage:  req.StartMileage,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, trip)
}

// Get returns one trip
func (h *TripHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// List returns trips with pagination and filters
func (h *TripHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req TripListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	trips, total, err := h.tripService.List(c.Request.Context(), actor, operationsapp.TripListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		Status:     req.Status,
		TruckID:    req.TruckID,
		DriverID:   req.DriverID,
		CustomerID: req.CustomerID,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, trips, total, req.Page, req.PageSize)
}

// Update edits a trip that has not reached a terminal state
func (h *TripHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid trip payload")
		return
	}

	trip, err := h.tripService.Update(c.Request.Context(), actor, id, operationsapp.UpdateTripRequest{
		CustomerID:   req.CustomerID,
		Revenue:      req.Revenue,
		StartMileage: req.StartMileage,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// Start puts a scheduled trip on the road
func (h *TripHandler) Start(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.Start(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// Complete finishes a trip and records the closing mileage
func (h *TripHandler) Complete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CompleteTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid completion payload")
		return
	}

	trip, err := h.tripService.Complete(c.Request.Context(), actor, id, operationsapp.CompleteTripRequest{
		EndMileage: req.EndMileage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// Cancel aborts a trip and frees its truck and driver
func (h *TripHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// Reschedule moves a scheduled trip to another date
func (h *TripHandler) Reschedule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req RescheduleTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid reschedule payload")
		return
	}

	trip, err := h.tripService.Reschedule(c.Request.Context(), actor, id, operationsapp.RescheduleTripRequest{
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trip)
}

// Delete removes a trip with no invoices or expenses attached
func (h *TripHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.tripService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
