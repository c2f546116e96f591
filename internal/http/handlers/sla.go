package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maintdesk/backend/internal/models"
	"github.com/maintdesk/backend/internal/service"
)

// SLAStatusItem is a work order annotated with its current SLA
// evaluation.
type SLAStatusItem struct {
	models.WorkOrder
	service.SLAEvaluation
}

// @Summary SLA status of open work orders
// @Tags sla
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sla-status [get]
func (h *Handler) SLAStatus(c *gin.Context) {
	orders, err := h.Store.ListOpenWorkOrders(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list work orders", err.Error())
		return
	}
	rows, err := h.Store.ListSLAThresholds(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load SLA thresholds", err.Error())
		return
	}
	thresholds := service.ThresholdMap(rows)

	now := h.now()
	items := make([]SLAStatusItem, 0, len(orders))
	for _, wo := range orders {
		items = append(items, SLAStatusItem{
			WorkOrder:     wo,
			SLAEvaluation: service.EvaluateSLA(wo, thresholds, now),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Get SLA configuration
// @Tags sla
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sla-config [get]
func (h *Handler) SLAConfigGet(c *gin.Context) {
	rows, err := h.Store.ListSLAThresholds(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load SLA thresholds", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": rows})
}

type SLAThresholdPayload struct {
	Priority        string  `json:"priority" validate:"required"`
	ResponseHours   float64 `json:"response_hours" validate:"required,gt=0"`
	ResolutionHours float64 `json:"resolution_hours" validate:"required,gt=0"`
	EscalationHours float64 `json:"escalation_hours" validate:"required,gt=0"`
}

// @Summary Update SLA configuration
// @Tags sla
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/sla-config [put]
func (h *Handler) SLAConfigPut(c *gin.Context) {
	var payload []SLAThresholdPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if len(payload) == 0 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one threshold row is required", nil)
		return
	}

	rows := make([]models.SLAThreshold, 0, len(payload))
	for _, p := range payload {
		if err := h.Validator.Struct(p); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
			return
		}
		priority, err := models.ParsePriority(p.Priority)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid priority", err.Error())
			return
		}
		rows = append(rows, models.SLAThreshold{
			Priority:        priority,
			ResponseHours:   p.ResponseHours,
			ResolutionHours: p.ResolutionHours,
			EscalationHours: p.EscalationHours,
		})
	}

	if err := h.Store.ReplaceSLAThresholds(c.Request.Context(), rows); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update SLA thresholds", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(rows)})
}

// @Summary Escalate overdue work orders
// @Tags sla
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/escalate-overdue [post]
func (h *Handler) EscalateOverdue(c *gin.Context) {
	sweep := &service.EscalationService{Store: h.Store, Notifier: h.Notifier, Logger: h.Logger}
	summary, err := sweep.Run(c.Request.Context(), h.now())
	if err != nil {
		h.Logger.Error().Err(err).Msg("escalation sweep failed")
		writeError(c, http.StatusInternalServerError, "SWEEP_ERROR", "Escalation sweep failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"escalated": summary.Escalated,
		"count":     summary.Count,
	})
}
