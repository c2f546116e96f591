package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/maintdesk/backend/internal/models"
)

func (h *Handler) WorkOrdersList(c *gin.Context) {
	status := c.Query("status")
	priority := c.Query("priority")
	if status != "" {
		if _, err := models.ParseWorkOrderStatus(status); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter", err.Error())
			return
		}
	}
	if priority != "" {
		if _, err := models.ParsePriority(priority); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid priority filter", err.Error())
			return
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListWorkOrders(c.Request.Context(), status, priority, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list work orders", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) WorkOrderDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid work order id", nil)
		return
	}
	wo, err := h.Store.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Work order not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get work order", err.Error())
		return
	}
	c.JSON(http.StatusOK, wo)
}

type CreateWorkOrderRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	Type           string  `json:"type" validate:"omitempty,oneof=corrective preventive inspection"`
	Priority       string  `json:"priority" validate:"required"`
	AssetID        *int64  `json:"asset_id"`
	AssignedTo     *int64  `json:"assigned_to"`
	EstimatedHours float64 `json:"estimated_hours" validate:"gte=0"`
	DueDate        *string `json:"due_date"`
}

// @Summary Create work order
// @Tags work-orders
// @Accept json
// @Produce json
// @Success 201 {object} models.WorkOrder
// @Failure 400 {object} map[string]any
// @Router /api/work-orders [post]
func (h *Handler) WorkOrderCreate(c *gin.Context) {
	var req CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid priority", err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "due_date must be YYYY-MM-DD", err.Error())
			return
		}
		dueDate = &d
	}

	woType := req.Type
	if woType == "" {
		woType = "corrective"
	}

	wo, err := h.Store.CreateWorkOrder(c.Request.Context(), models.WorkOrder{
		Title:          req.Title,
		Description:    req.Description,
		Type:           woType,
		Priority:       priority,
		Status:         models.StatusOpen,
		AssetID:        req.AssetID,
		AssignedTo:     req.AssignedTo,
		EstimatedHours: req.EstimatedHours,
		DueDate:        dueDate,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create work order", err.Error())
		return
	}
	c.JSON(http.StatusCreated, wo)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// @Summary Update work order status
// @Tags work-orders
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/work-orders/{id}/status [patch]
func (h *Handler) WorkOrderStatusUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid work order id", nil)
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	status, err := models.ParseWorkOrderStatus(req.Status)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status", err.Error())
		return
	}

	wo, err := h.Store.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Work order not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get work order", err.Error())
		return
	}
	if wo.Status.Terminal() {
		writeError(c, http.StatusBadRequest, "INVALID_STATE", "Work order is already closed", nil)
		return
	}

	var completedAt *time.Time
	if status == models.StatusCompleted {
		now := h.now()
		completedAt = &now
	}
	if err := h.Store.UpdateWorkOrderStatus(c.Request.Context(), id, status, completedAt); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update status", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
