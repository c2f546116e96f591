package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/maintdesk/backend/internal/service"
)

// @Summary Asset depreciation report
// @Tags reports
// @Produce json
// @Success 200 {object} service.DepreciationReport
// @Failure 404 {object} map[string]any
// @Router /api/assets/{id}/depreciation [get]
func (h *Handler) AssetDepreciation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid asset id", nil)
		return
	}
	asset, err := h.Store.GetAsset(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Asset not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get asset", err.Error())
		return
	}
	c.JSON(http.StatusOK, service.Depreciate(asset, h.now()))
}

// @Summary Part reorder suggestions
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/parts/reorder-suggestions [get]
func (h *Handler) ReorderSuggestions(c *gin.Context) {
	parts, err := h.Store.ListLowStockParts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list parts", err.Error())
		return
	}
	suggestions := service.SuggestReorders(parts)
	c.JSON(http.StatusOK, gin.H{"items": suggestions, "count": len(suggestions)})
}

// @Summary Dashboard summary
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/reports/summary [get]
func (h *Handler) ReportsSummary(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()

	statusCounts, err := h.Store.CountWorkOrdersByStatus(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count work orders", err.Error())
		return
	}
	overduePM, err := h.Store.CountOverduePMSchedules(ctx, now)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count PM schedules", err.Error())
		return
	}

	orders, err := h.Store.ListOpenWorkOrders(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list work orders", err.Error())
		return
	}
	rows, err := h.Store.ListSLAThresholds(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load SLA thresholds", err.Error())
		return
	}
	thresholds := service.ThresholdMap(rows)

	var withinSLA int
	slaCounts := map[service.SLAStatusLabel]int{}
	for _, wo := range orders {
		eval := service.EvaluateSLA(wo, thresholds, now)
		slaCounts[eval.Status]++
		if eval.Status == service.SLAOk || eval.Status == service.SLAAtRisk {
			withinSLA++
		}
	}
	compliance := 100.0
	if len(orders) > 0 {
		compliance = float64(withinSLA) / float64(len(orders)) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"work_orders_by_status": statusCounts,
		"open_sla_counts":       slaCounts,
		"sla_compliance_pct":    compliance,
		"overdue_pm_schedules":  overduePM,
	})
}
