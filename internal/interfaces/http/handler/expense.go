package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/fleetops/backend/internal/application/billing"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// ExpenseHandler handles expense and expense category endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *billingapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *billingapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseCategoryRequest is the create category request body
type CreateExpenseCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateExpenseCategoryRequest is the update category request body
type UpdateExpenseCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreateExpenseRequest is the create expense request body
type CreateExpenseRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	TripID      *uuid.UUID      `json:"trip_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// UpdateExpenseRequest is the update expense request body
type UpdateExpenseRequest struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	TripID      *uuid.UUID       `json:"trip_id"`
	Amount      *decimal.Decimal `json:"amount"`
	ExpenseDate *time.Time       `json:"expense_date"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// ExpenseListRequest is the list query for expenses
type ExpenseListRequest struct {
	dto.ListRequest
	CategoryID *uuid.UUID `form:"category_id"`
	TripID     *uuid.UUID `form:"trip_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// CreateCategory adds an expense category
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid category payload")
		return
	}

	category, err := h.expenseService.CreateCategory(c.Request.Context(), actor, billingapp.CreateExpenseCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories returns all expense categories for the organization
func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	categories, err := h.expenseService.ListCategories(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// UpdateCategory renames or redescribes a category
func (h *ExpenseHandler) UpdateCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid category payload")
		return
	}

	category, err := h.expenseService.UpdateCategory(c.Request.Context(), actor, id, billingapp.UpdateExpenseCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes a category with no expenses
func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteCategory(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Create records an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid expense payload")
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), actor, billingapp.CreateExpenseRequest{
		CategoryID:  req.CategoryID,
		TripID:      req.TripID,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// Get returns one expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// List returns expenses with pagination and filters
func (h *ExpenseHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	expenses, total, err := h.expenseService.List(c.Request.Context(), actor, billingapp.ExpenseListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		CategoryID: req.CategoryID,
		TripID:     req.TripID,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, expenses, total, req.Page, req.PageSize)
}

// Update edits an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid expense payload")
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), actor, id, billingapp.UpdateExpenseRequest{
		CategoryID:  req.CategoryID,
		TripID:      req.TripID,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
