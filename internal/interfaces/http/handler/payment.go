package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/fleetops/backend/internal/application/billing"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest is the record payment request body
type CreatePaymentRequest struct {
	InvoiceID   uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=cash check bank_transfer card other"`
	MethodLabel string          `json:"method_label" binding:"max=100"`
	Reference   string          `json:"reference" binding:"max=100"`
	Notes       string          `json:"notes"`
}

// UpdatePaymentRequest is the update payment request body
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	PaymentDate *time.Time       `json:"payment_date"`
	Method      *string          `json:"method" binding:"omitempty,oneof=cash check bank_transfer card other"`
	MethodLabel *string          `json:"method_label" binding:"omitempty,max=100"`
	Reference   *string          `json:"reference" binding:"omitempty,max=100"`
	Notes       *string          `json:"notes"`
}

// PaymentListRequest is the list query for payments
type PaymentListRequest struct {
	dto.ListRequest
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Method     string     `form:"method" binding:"omitempty,oneof=cash check bank_transfer card other"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Create records a payment against an invoice
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid payment payload")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), actor, billingapp.CreatePaymentRequest{
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		MethodLabel: req.MethodLabel,
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// List returns payments with pagination and filters
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	payments, total, err := h.paymentService.List(c.Request.Context(), actor, billingapp.PaymentListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		InvoiceID:  req.InvoiceID,
		CustomerID: req.CustomerID,
		Method:     req.Method,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, req.Page, req.PageSize)
}

// Update edits a payment and rebalances its invoice when the amount changes
func (h *PaymentHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid payment payload")
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), actor, id, billingapp.UpdatePaymentRequest{
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		MethodLabel: req.MethodLabel,
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete removes a payment and restores the invoice balance
func (h *PaymentHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
