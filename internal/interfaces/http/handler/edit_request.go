package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/fleetops/backend/internal/application/identity"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// EditRequestHandler handles edit request endpoints. Staff members submit
// change proposals here; supervisors and admins resolve them.
type EditRequestHandler struct {
	BaseHandler
	editRequestService *identityapp.EditRequestService
}

// NewEditRequestHandler creates a new EditRequestHandler
func NewEditRequestHandler(editRequestService *identityapp.EditRequestService) *EditRequestHandler {
	return &EditRequestHandler{editRequestService: editRequestService}
}

// CreateEditRequestRequest is the edit request submission body
type CreateEditRequestRequest struct {
	EntityType string            `json:"entity_type" binding:"required"`
	EntityID   uuid.UUID         `json:"entity_id" binding:"required"`
	Changes    map[string]string `json:"changes" binding:"required,min=1"`
	Note       string            `json:"note" binding:"max=500"`
}

// ResolveEditRequestRequest is the approve/reject body
type ResolveEditRequestRequest struct {
	Resolution string `json:"resolution" binding:"max=500"`
}

// EditRequestListRequest is the list query for edit requests
type EditRequestListRequest struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	EntityType string `form:"entity_type"`
	Mine       bool   `form:"mine"`
}

// Create submits a new edit request
func (h *EditRequestHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateEditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid edit request payload")
		return
	}

	er, err := h.editRequestService.Create(c.Request.Context(), actor, identityapp.CreateEditRequestRequest{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Changes:    req.Changes,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, er)
}

// Get returns one edit request
func (h *EditRequestHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	er, err := h.editRequestService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, er)
}

// List returns edit requests with pagination
func (h *EditRequestHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req EditRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	requests, total, err := h.editRequestService.List(c.Request.Context(), actor, identityapp.EditRequestListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Status:     req.Status,
		EntityType: req.EntityType,
		Mine:       req.Mine,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, req.Page, req.PageSize)
}

// Approve approves a pending edit request
func (h *EditRequestHandler) Approve(c *gin.Context) {
	h.resolve(c, h.editRequestService.Approve)
}

// Reject rejects a pending edit request
func (h *EditRequestHandler) Reject(c *gin.Context) {
	h.resolve(c, h.editRequestService.Reject)
}

func (h *EditRequestHandler) resolve(c *gin.Context, fn func(ctx context.Context, actor identity.Actor, id uuid.UUID, req identityapp.ResolveEditRequestRequest) (*identityapp.EditRequestResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ResolveEditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid resolution payload")
		return
	}

	er, err := fn(c.Request.Context(), actor, id, identityapp.ResolveEditRequestRequest{Resolution: req.Resolution})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, er)
}
