package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fleetapp "github.com/fleetops/backend/internal/application/fleet"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// TruckHandler handles truck endpoints
type TruckHandler struct {
	BaseHandler
	truckService *fleetapp.TruckService
}

// NewTruckHandler creates a new TruckHandler
func NewTruckHandler(truckService *fleetapp.TruckService) *TruckHandler {
	return &TruckHandler{truckService: truckService}
}

// CreateTruckRequest is the create truck request body
type CreateTruckRequest struct {
	RegistrationNumber string `json:"registration_number" binding:"required,min=1,max=30"`
	Make               string `json:"make" binding:"max=100"`
	Model              string `json:"model" binding:"max=100"`
	Year               int    `json:"year" binding:"omitempty,min=1950"`
	CapacityKg         int    `json:"capacity_kg" binding:"omitempty,min=0"`
	CurrentMileage     int    `json:"current_mileage" binding:"omitempty,min=0"`
	Notes              string `json:"notes"`
}

// UpdateTruckRequest is the update truck request body
type UpdateTruckRequest struct {
	CapacityKg     *int    `json:"capacity_kg" binding:"omitempty,min=0"`
	CurrentMileage *int    `json:"current_mileage" binding:"omitempty,min=0"`
	Notes          *string `json:"notes"`
}

// TruckListRequest is the list query for trucks
type TruckListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active in_service maintenance retired"`
}

// Create registers a new truck
func (h *TruckHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid truck payload")
		return
	}

	truck, err := h.truckService.Create(c.Request.Context(), actor, fleetapp.CreateTruckRequest{
		RegistrationNumber: req.RegistrationNumber,
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		CapacityKg:         req.CapacityKg,
		CurrentMileage:     req.CurrentMileage,
		Notes:              req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, truck)
}

// Get returns one truck
func (h *TruckHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	truck, err := h.truckService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// List returns trucks with pagination
func (h *TruckHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req TruckListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	trucks, total, err := h.truckService.List(c.Request.Context(), actor, fleetapp.TruckListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Status:   req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, trucks, total, req.Page, req.PageSize)
}

// Update edits a truck
func (h *TruckHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid truck payload")
		return
	}

	truck, err := h.truckService.Update(c.Request.Context(), actor, id, fleetapp.UpdateTruckRequest{
		CapacityKg:     req.CapacityKg,
		CurrentMileage: req.CurrentMileage,
		Notes:          req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// SendToMaintenance moves a truck into the shop
func (h *TruckHandler) SendToMaintenance(c *gin.Context) {
	h.transition(c, h.truckService.SendToMaintenance)
}

// ReturnToService brings a truck back from maintenance
func (h *TruckHandler) ReturnToService(c *gin.Context) {
	h.transition(c, h.truckService.ReturnToService)
}

// Retire permanently removes a truck from the fleet
func (h *TruckHandler) Retire(c *gin.Context) {
	h.transition(c, h.truckService.Retire)
}

// Delete removes a truck without trip history
func (h *TruckHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.truckService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TruckHandler) transition(c *gin.Context, fn func(ctx context.Context, actor identity.Actor, truckID uuid.UUID) (*fleetapp.TruckResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	truck, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}
