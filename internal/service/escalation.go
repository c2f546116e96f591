package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maintdesk/backend/internal/models"
	"github.com/maintdesk/backend/internal/notify"
)

// EscalationStore is the slice of storage the sweep needs.
type EscalationStore interface {
	ListOpenWorkOrders(ctx context.Context) ([]models.WorkOrder, error)
	ListSLAThresholds(ctx context.Context) ([]models.SLAThreshold, error)
	// EscalateWorkOrder bumps priority from -> to. The update is guarded
	// on the current priority still being from, so two concurrent sweeps
	// cannot double-escalate the same row; it reports whether the row
	// was updated.
	EscalateWorkOrder(ctx context.Context, id int64, from, to models.Priority) (bool, error)
	InsertAuditEntry(ctx context.Context, e models.AuditEntry) error
}

// Escalated records one priority bump performed by the sweep.
type Escalated struct {
	ID          int64           `json:"id"`
	WONumber    string          `json:"wo_number"`
	OldPriority models.Priority `json:"old_priority"`
	NewPriority models.Priority `json:"new_priority"`
}

type EscalationSummary struct {
	Escalated []Escalated `json:"escalated"`
	Count     int         `json:"count"`
	Errors    []string    `json:"errors,omitempty"`
}

type EscalationService struct {
	Store    EscalationStore
	Notifier notify.Notifier
	Logger   zerolog.Logger
}

// Run sweeps all open and in-progress work orders and raises the
// priority of any that have aged past their escalation threshold by
// exactly one tier. Critical work orders are terminal and never
// escalate further.
//
// Re-running within the same window does not normally re-escalate a
// row, but only because each higher tier's escalation threshold is
// larger in any sane configuration; an inverted threshold table would
// allow a row to climb more than one tier across consecutive sweeps.
//
// Per-row failures are collected and do not stop the sweep.
func (s *EscalationService) Run(ctx context.Context, now time.Time) (EscalationSummary, error) {
	orders, err := s.Store.ListOpenWorkOrders(ctx)
	if err != nil {
		return EscalationSummary{}, fmt.Errorf("list open work orders: %w", err)
	}

	rows, err := s.Store.ListSLAThresholds(ctx)
	if err != nil {
		return EscalationSummary{}, fmt.Errorf("list sla thresholds: %w", err)
	}
	thresholds := ThresholdMap(rows)

	summary := EscalationSummary{Escalated: []Escalated{}}
	for _, wo := range orders {
		next, ok := wo.Priority.NextTier()
		if !ok {
			continue
		}

		eval := EvaluateSLA(wo, thresholds, now)
		threshold := ThresholdFor(thresholds, wo.Priority)
		if eval.AgeHours < threshold.EscalationHours {
			continue
		}

		updated, err := s.Store.EscalateWorkOrder(ctx, wo.ID, wo.Priority, next)
		if err != nil {
			s.Logger.Error().Err(err).Int64("wo_id", wo.ID).Msg("escalation update failed")
			summary.Errors = append(summary.Errors, fmt.Sprintf("wo %d: %v", wo.ID, err))
			continue
		}
		if !updated {
			// Lost the race to a concurrent sweep; nothing to record.
			continue
		}

		if err := s.Store.InsertAuditEntry(ctx, models.AuditEntry{
			EntityKind: "work_order",
			EntityID:   wo.ID,
			Action:     "escalated",
			Detail: map[string]any{
				"old_priority": wo.Priority,
				"new_priority": next,
				"age_hours":    eval.AgeHours,
			},
		}); err != nil {
			s.Logger.Warn().Err(err).Int64("wo_id", wo.ID).Msg("escalation audit write failed")
		}

		if wo.AssignedTo != nil {
			e := notify.NewEvent(*wo.AssignedTo,
				"Work order escalated",
				fmt.Sprintf("%s (%s) escalated from %s to %s after %.1f hours", wo.WONumber, wo.Title, wo.Priority, next, eval.AgeHours))
			if err := s.Notifier.Notify(ctx, e); err != nil {
				s.Logger.Warn().Err(err).Int64("wo_id", wo.ID).Msg("escalation notification failed")
			}
		}

		summary.Escalated = append(summary.Escalated, Escalated{
			ID:          wo.ID,
			WONumber:    wo.WONumber,
			OldPriority: wo.Priority,
			NewPriority: next,
		})
	}

	summary.Count = len(summary.Escalated)
	return summary, nil
}
