package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/maintdesk/backend/internal/models"
	"github.com/maintdesk/backend/internal/service"
)

func (h *Handler) PMSchedulesList(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"
	items, err := h.Store.ListPMSchedules(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list PM schedules", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CreatePMScheduleRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	AssetID        *int64  `json:"asset_id"`
	AssignedTo     *int64  `json:"assigned_to"`
	Frequency      string  `json:"frequency" validate:"required"`
	FrequencyValue int     `json:"frequency_value" validate:"gte=0"`
	EstimatedHours float64 `json:"estimated_hours" validate:"gte=0"`
	EstimatedCost  float64 `json:"estimated_cost" validate:"gte=0"`
	NextDue        string  `json:"next_due" validate:"required"`
}

// @Summary Create PM schedule
// @Tags pm-schedules
// @Accept json
// @Produce json
// @Success 201 {object} models.PMSchedule
// @Failure 400 {object} map[string]any
// @Router /api/pm-schedules [post]
func (h *Handler) PMScheduleCreate(c *gin.Context) {
	var req CreatePMScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	freq, err := models.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid frequency", err.Error())
		return
	}
	nextDue, err := time.Parse("2006-01-02", req.NextDue)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "next_due must be YYYY-MM-DD", err.Error())
		return
	}

	value := req.FrequencyValue
	if value <= 0 {
		value = 1
	}

	sched, err := h.Store.CreatePMSchedule(c.Request.Context(), models.PMSchedule{
		Title:          req.Title,
		Description:    req.Description,
		AssetID:        req.AssetID,
		AssignedTo:     req.AssignedTo,
		Frequency:      freq,
		FrequencyValue: value,
		EstimatedHours: req.EstimatedHours,
		EstimatedCost:  req.EstimatedCost,
		NextDue:        nextDue,
		Active:         true,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create PM schedule", err.Error())
		return
	}
	c.JSON(http.StatusCreated, sched)
}

type CompleteScheduleRequest struct {
	Notes string `json:"notes"`
}

// @Summary Complete PM schedule
// @Description Advances the schedule's next due date and spawns the completion work order
// @Tags pm-schedules
// @Accept json
// @Produce json
// @Success 200 {object} service.CompletionResult
// @Failure 404 {object} map[string]any
// @Router /api/pm-schedules/{id}/complete [post]
func (h *Handler) PMScheduleComplete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid schedule id", nil)
		return
	}
	var req CompleteScheduleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
	}

	svc := &service.ScheduleService{Store: h.Store, Logger: h.Logger}
	result, err := svc.CompleteSchedule(c.Request.Context(), id, h.now(), req.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "PM schedule not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to complete schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
