package service

import (
	"math"
	"testing"
	"time"

	"github.com/maintdesk/backend/internal/models"
)

func defaultThresholds() map[models.Priority]models.SLAThreshold {
	return ThresholdMap([]models.SLAThreshold{
		{Priority: models.PriorityCritical, ResponseHours: 1, ResolutionHours: 4, EscalationHours: 8},
		{Priority: models.PriorityHigh, ResponseHours: 2, ResolutionHours: 8, EscalationHours: 24},
		{Priority: models.PriorityMedium, ResponseHours: 4, ResolutionHours: 24, EscalationHours: 72},
		{Priority: models.PriorityLow, ResponseHours: 8, ResolutionHours: 72, EscalationHours: 168},
	})
}

func woAged(priority models.Priority, age time.Duration, now time.Time) models.WorkOrder {
	return models.WorkOrder{
		ID:        1,
		Priority:  priority,
		Status:    models.StatusOpen,
		CreatedAt: now.Add(-age),
	}
}

func TestEvaluateSLA_BreachedHighPriority(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	wo := woAged(models.PriorityHigh, 10*time.Hour, now)

	eval := EvaluateSLA(wo, defaultThresholds(), now)
	if eval.Status != SLABreached {
		t.Fatalf("expected breached, got %s", eval.Status)
	}
	if eval.RemainingHours != 0 {
		t.Fatalf("expected remaining 0, got %f", eval.RemainingHours)
	}
	if eval.Pct != 100 {
		t.Fatalf("expected pct capped at 100, got %f", eval.Pct)
	}
}

func TestEvaluateSLA_OkCriticalHalfway(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	wo := woAged(models.PriorityCritical, 2*time.Hour, now)

	eval := EvaluateSLA(wo, defaultThresholds(), now)
	if eval.Status != SLAOk {
		t.Fatalf("expected ok, got %s", eval.Status)
	}
	if math.Abs(eval.Pct-50) > 1e-9 {
		t.Fatalf("expected pct 50, got %f", eval.Pct)
	}
	if math.Abs(eval.RemainingHours-2) > 1e-9 {
		t.Fatalf("expected 2 remaining hours, got %f", eval.RemainingHours)
	}
}

func TestEvaluateSLA_BoundariesAreExclusive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	thresholds := defaultThresholds()

	cases := []struct {
		name string
		age  time.Duration
		want SLAStatusLabel
	}{
		{"at escalation boundary stays breached", 8 * time.Hour, SLABreached},
		{"at resolution boundary stays at_risk", 4 * time.Hour, SLAAtRisk},
		{"at 75pct boundary stays ok", 3 * time.Hour, SLAOk},
		{"just past escalation", 8*time.Hour + time.Minute, SLAEscalated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wo := woAged(models.PriorityCritical, tc.age, now)
			eval := EvaluateSLA(wo, thresholds, now)
			if eval.Status != tc.want {
				t.Fatalf("age %v: expected %s, got %s", tc.age, tc.want, eval.Status)
			}
		})
	}
}

func TestEvaluateSLA_StatusOnlyMovesForward(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	wo := models.WorkOrder{ID: 1, Priority: models.PriorityCritical, CreatedAt: created}
	thresholds := defaultThresholds()

	rank := map[SLAStatusLabel]int{SLAOk: 0, SLAAtRisk: 1, SLABreached: 2, SLAEscalated: 3}

	prevAge := -1.0
	prevRank := -1
	for hours := 0; hours <= 48; hours++ {
		now := created.Add(time.Duration(hours) * time.Hour)
		eval := EvaluateSLA(wo, thresholds, now)
		if eval.AgeHours < prevAge {
			t.Fatalf("age went backwards at hour %d", hours)
		}
		if rank[eval.Status] < prevRank {
			t.Fatalf("status went backwards at hour %d: %s", hours, eval.Status)
		}
		prevAge = eval.AgeHours
		prevRank = rank[eval.Status]
	}
}

func TestEvaluateSLA_MissingPriorityFallsBackToDefault(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	wo := woAged(models.PriorityHigh, 30*time.Hour, now)

	// Empty table: the default (4/24/48) applies, so 30h is breached
	// but not yet escalated.
	eval := EvaluateSLA(wo, map[models.Priority]models.SLAThreshold{}, now)
	if eval.Status != SLABreached {
		t.Fatalf("expected breached under default threshold, got %s", eval.Status)
	}
	if eval.ResolutionHours != DefaultSLAThreshold.ResolutionHours {
		t.Fatalf("expected default resolution hours, got %f", eval.ResolutionHours)
	}
}

func TestEvaluateSLA_ZeroCreatedAtTreatedAsNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	wo := models.WorkOrder{ID: 1, Priority: models.PriorityLow}

	eval := EvaluateSLA(wo, defaultThresholds(), now)
	if eval.AgeHours != 0 {
		t.Fatalf("expected age 0 for zero created_at, got %f", eval.AgeHours)
	}
	if eval.Status != SLAOk {
		t.Fatalf("expected ok, got %s", eval.Status)
	}
}

func TestEvaluateSLA_TinyResolutionClampedForPct(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	thresholds := map[models.Priority]models.SLAThreshold{
		models.PriorityLow: {Priority: models.PriorityLow, ResponseHours: 0.1, ResolutionHours: 0.5, EscalationHours: 1},
	}
	wo := woAged(models.PriorityLow, 15*time.Minute, now)

	// pct divisor is clamped to 1h, so 0.25h of age reads as 25%.
	eval := EvaluateSLA(wo, thresholds, now)
	if math.Abs(eval.Pct-25) > 1e-9 {
		t.Fatalf("expected pct 25 with clamped divisor, got %f", eval.Pct)
	}
}
