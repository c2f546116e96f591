package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maintdesk/backend/internal/models"
)

const defaultCompletionNotes = "Completed as scheduled"

// frequencyDays maps each recurrence unit to a fixed day count.
// Monthly, quarterly and yearly are deliberate approximations
// (30/90/365 days), not calendar-aware arithmetic; changing them would
// shift every stored next_due date.
var frequencyDays = map[models.Frequency]int{
	models.FrequencyDaily:     1,
	models.FrequencyWeekly:    7,
	models.FrequencyMonthly:   30,
	models.FrequencyQuarterly: 90,
	models.FrequencyYearly:    365,
}

// NextDueDate advances a due date by value units of the frequency.
// An unrecognized frequency falls back to the monthly rule and a
// non-positive value defaults to 1.
func NextDueDate(freq models.Frequency, value int, from time.Time) time.Time {
	days, ok := frequencyDays[freq]
	if !ok {
		days = frequencyDays[models.FrequencyMonthly]
	}
	if value <= 0 {
		value = 1
	}
	return from.AddDate(0, 0, days*value)
}

// ScheduleStore is the slice of storage the PM completion flow needs.
type ScheduleStore interface {
	GetPMSchedule(ctx context.Context, id int64) (models.PMSchedule, error)
	ApplyScheduleCompletion(ctx context.Context, c ScheduleCompletion) (woID int64, woNumber string, err error)
}

// ScheduleCompletion carries the computed writes for one completion:
// the schedule advance plus the spawned work order.
type ScheduleCompletion struct {
	ScheduleID    int64
	LastPerformed time.Time
	NextDue       time.Time
	WorkOrder     models.WorkOrder
	AssetID       *int64
	EstimatedCost float64
}

type CompletionResult struct {
	NextDue  time.Time `json:"next_due"`
	WONumber string    `json:"wo_number"`
	WOID     int64     `json:"wo_id"`
}

type ScheduleService struct {
	Store  ScheduleStore
	Logger zerolog.Logger
}

// CompleteSchedule marks a PM schedule performed on completionDate:
// it advances last_performed/next_due and spawns a completed
// preventive work order carrying the schedule's asset and assignee.
//
// Not idempotent: each call creates a new work order and advances the
// due date again. The caller invokes it once per real completion.
func (s *ScheduleService) CompleteSchedule(ctx context.Context, scheduleID int64, completionDate time.Time, notes string) (CompletionResult, error) {
	sched, err := s.Store.GetPMSchedule(ctx, scheduleID)
	if err != nil {
		return CompletionResult{}, err
	}
	if !sched.Active {
		s.Logger.Warn().Int64("schedule_id", scheduleID).Msg("completing inactive pm schedule")
	}

	nextDue := NextDueDate(sched.Frequency, sched.FrequencyValue, completionDate)

	if notes == "" {
		notes = defaultCompletionNotes
	}

	wo := models.WorkOrder{
		Title:           "PM: " + sched.Title,
		Description:     sched.Description,
		Type:            "preventive",
		Priority:        models.PriorityMedium,
		Status:          models.StatusCompleted,
		AssetID:         sched.AssetID,
		AssignedTo:      sched.AssignedTo,
		EstimatedHours:  sched.EstimatedHours,
		CompletionNotes: notes,
		ScheduledDate:   &completionDate,
		CompletedDate:   &completionDate,
	}

	woID, woNumber, err := s.Store.ApplyScheduleCompletion(ctx, ScheduleCompletion{
		ScheduleID:    scheduleID,
		LastPerformed: completionDate,
		NextDue:       nextDue,
		WorkOrder:     wo,
		AssetID:       sched.AssetID,
		EstimatedCost: sched.EstimatedCost,
	})
	if err != nil {
		return CompletionResult{}, fmt.Errorf("apply schedule completion: %w", err)
	}

	s.Logger.Info().
		Int64("schedule_id", scheduleID).
		Int64("wo_id", woID).
		Time("next_due", nextDue).
		Msg("pm schedule completed")

	return CompletionResult{NextDue: nextDue, WONumber: woNumber, WOID: woID}, nil
}
