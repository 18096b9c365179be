package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fleetapp "github.com/fleetops/backend/internal/application/fleet"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// DriverHandler handles driver endpoints
type DriverHandler struct {
	BaseHandler
	driverService *fleetapp.DriverService
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(driverService *fleetapp.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// CreateDriverRequest is the create driver request body
type CreateDriverRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=200"`
	LicenseNumber string     `json:"license_number" binding:"required,min=1,max=50"`
	Phone         string     `json:"phone" binding:"max=50"`
	Email         string     `json:"email" binding:"omitempty,email,max=200"`
	HiredAt       *time.Time `json:"hired_at"`
	Notes         string     `json:"notes"`
}

// UpdateDriverRequest is the update driver request body
type UpdateDriverRequest struct {
	Name    *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Phone   *string    `json:"phone" binding:"omitempty,max=50"`
	Email   *string    `json:"email" binding:"omitempty,email,max=200"`
	HiredAt *time.Time `json:"hired_at"`
	Notes   *string    `json:"notes"`
}

// AssignTruckRequest is the truck assignment request body
type AssignTruckRequest struct {
	TruckID uuid.UUID `json:"truck_id" binding:"required"`
}

// DriverListRequest is the list query for drivers
type DriverListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active on_leave inactive"`
}

// Create registers a new driver
func (h *DriverHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid driver payload")
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), actor, fleetapp.CreateDriverRequest{
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Email:         req.Email,
		HiredAt:       req.HiredAt,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, driver)
}

// Get returns one driver
func (h *DriverHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	driver, err := h.driverService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}

// List returns drivers with pagination
func (h *DriverHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req DriverListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	drivers, total, err := h.driverService.List(c.Request.Context(), actor, fleetapp.DriverListFilter{
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
	h.SuccessWithMeta(c, drivers, total, req.Page, req.PageSize)
}

// Update edits a driver
func (h *DriverHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid driver payload")
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), actor, id, fleetapp.UpdateDriverRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		HiredAt: req.HiredAt,
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}

// AssignTruck assigns a truck to the driver, swapping it away from any
// other driver currently holding it
func (h *DriverHandler) AssignTruck(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AssignTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid assignment payload")
		return
	}

	driver, err := h.driverService.AssignTruck(c.Request.Context(), actor, id, req.TruckID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}

// UnassignTruck clears the driver's truck assignment
func (h *DriverHandler) UnassignTruck(c *gin.Context) {
	h.transition(c, h.driverService.UnassignTruck)
}

// GoOnLeave puts the driver on leave
func (h *DriverHandler) GoOnLeave(c *gin.Context) {
	h.transition(c, h.driverService.GoOnLeave)
}

// ReturnFromLeave brings the driver back from leave
func (h *DriverHandler) ReturnFromLeave(c *gin.Context) {
	h.transition(c, h.driverService.ReturnFromLeave)
}

// Deactivate deactivates a driver and clears their truck
func (h *DriverHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.driverService.Deactivate)
}

// Delete removes a driver without trip history
func (h *DriverHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *DriverHandler) transition(c *gin.Context, fn func(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*fleetapp.DriverResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	driver, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, driver)
}
