package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/fleetops/backend/internal/application/billing"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	paymentService *billingapp.PaymentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, paymentService *billingapp.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

// CreateInvoiceRequest is the create invoice request body
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	TripID     *uuid.UUID      `json:"trip_id"`
	Subtotal   decimal.Decimal `json:"subtotal" binding:"required"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	IssueDate  time.Time       `json:"issue_date" binding:"required"`
	DueDate    *time.Time      `json:"due_date"`
	IsCredit   bool            `json:"is_credit"`
	Notes      string          `json:"notes"`
}

// UpdateInvoiceRequest is the update invoice request body
type UpdateInvoiceRequest struct {
	Subtotal  *decimal.Decimal `json:"subtotal"`
	TaxAmount *decimal.Decimal `json:"tax_amount"`
	DueDate   *time.Time       `json:"due_date"`
	Notes     *string          `json:"notes"`
}

// InvoiceListRequest is the list query for invoices
type InvoiceListRequest struct {
	dto.ListRequest
	Status     string     `form:"status" binding:"omitempty,oneof=draft sent partial paid cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	TripID     *uuid.UUID `form:"trip_id"`
	Overdue    *bool      `form:"overdue"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Create issues a new invoice with the next sequential number
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid invoice payload")
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), actor, billingapp.CreateInvoiceRequest{
		CustomerID: req.CustomerID,
		TripID:     req.TripID,
		Subtotal:   req.Subtotal,
		TaxAmount:  req.TaxAmount,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		IsCredit:   req.IsCredit,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns invoices with pagination and filters
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req InvoiceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	invoices, total, err := h.invoiceService.List(c.Request.Context(), actor, billingapp.InvoiceListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		Status:     req.Status,
		CustomerID: req.CustomerID,
		TripID:     req.TripID,
		Overdue:    req.Overdue,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, req.Page, req.PageSize)
}

// Update edits a draft or sent invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid invoice payload")
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), actor, id, billingapp.UpdateInvoiceRequest{
		Subtotal:  req.Subtotal,
		TaxAmount: req.TaxAmount,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkSent marks a draft invoice as sent to the customer
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkSent(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel voids an invoice without recorded payments
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SendReminder pushes a payment reminder for an open invoice
func (h *InvoiceHandler) SendReminder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.SendReminder(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ListPayments returns the payments recorded against one invoice
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Delete removes an invoice without payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
