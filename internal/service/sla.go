package service

import (
	"time"

	"github.com/maintdesk/backend/internal/models"
)

// SLAStatusLabel classifies how far a work order is through its
// resolution budget.
type SLAStatusLabel string

const (
	SLAOk        SLAStatusLabel = "ok"
	SLAAtRisk    SLAStatusLabel = "at_risk"
	SLABreached  SLAStatusLabel = "breached"
	SLAEscalated SLAStatusLabel = "escalated"
)

// DefaultSLAThreshold is substituted when a work order's priority has
// no configured threshold row. Callers should not rely on it; a missing
// row is a configuration gap, not a supported state.
var DefaultSLAThreshold = models.SLAThreshold{
	ResponseHours:   4,
	ResolutionHours: 24,
	EscalationHours: 48,
}

// SLAEvaluation is the transient per-work-order result of an SLA check.
// It is computed fresh on every query and never persisted.
type SLAEvaluation struct {
	AgeHours        float64        `json:"age_hours"`
	Status          SLAStatusLabel `json:"sla_status"`
	Pct             float64        `json:"sla_pct"`
	RemainingHours  float64        `json:"sla_remaining_hours"`
	ResolutionHours float64        `json:"sla_resolution_hours"`
}

// ThresholdFor looks up the threshold row for a priority, falling back
// to DefaultSLAThreshold when the table has no row for it.
func ThresholdFor(thresholds map[models.Priority]models.SLAThreshold, p models.Priority) models.SLAThreshold {
	if t, ok := thresholds[p]; ok {
		return t
	}
	return DefaultSLAThreshold
}

// EvaluateSLA classifies a work order's SLA standing at the given
// instant. Deterministic for a fixed now; no side effects. A zero
// created_at is treated as just created rather than an error.
//
// The status tie-break is ordered: escalated, then breached, then
// at_risk at 75% of the resolution budget. All comparisons are strict,
// so an age exactly equal to a boundary stays in the lower tier.
func EvaluateSLA(wo models.WorkOrder, thresholds map[models.Priority]models.SLAThreshold, now time.Time) SLAEvaluation {
	createdAt := wo.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	ageHours := now.Sub(createdAt).Hours()

	t := ThresholdFor(thresholds, wo.Priority)

	resolution := t.ResolutionHours
	if resolution < 1 {
		resolution = 1
	}
	pct := ageHours / resolution * 100
	if pct > 100 {
		pct = 100
	}

	var status SLAStatusLabel
	switch {
	case ageHours > t.EscalationHours:
		status = SLAEscalated
	case ageHours > t.ResolutionHours:
		status = SLABreached
	case ageHours > t.ResolutionHours*0.75:
		status = SLAAtRisk
	default:
		status = SLAOk
	}

	remaining := t.ResolutionHours - ageHours
	if remaining < 0 {
		remaining = 0
	}

	return SLAEvaluation{
		AgeHours:        ageHours,
		Status:          status,
		Pct:             pct,
		RemainingHours:  remaining,
		ResolutionHours: t.ResolutionHours,
	}
}

// ThresholdMap indexes threshold rows by priority.
func ThresholdMap(rows []models.SLAThreshold) map[models.Priority]models.SLAThreshold {
	m := make(map[models.Priority]models.SLAThreshold, len(rows))
	for _, r := range rows {
		m[r.Priority] = r
	}
	return m
}
