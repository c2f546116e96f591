package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/maintdesk/backend/internal/models"
)

func TestNextDueDate_FixedDayArithmetic(t *testing.T) {
	cases := []struct {
		name  string
		freq  models.Frequency
		value int
		from  time.Time
		want  time.Time
	}{
		{
			name: "two weeks", freq: models.FrequencyWeekly, value: 2,
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			// Monthly is a fixed 30-day offset, not a calendar month.
			name: "monthly from jan 31", freq: models.FrequencyMonthly, value: 1,
			from: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// Yearly is 365 days even across a leap year.
			name: "yearly in leap year", freq: models.FrequencyYearly, value: 1,
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "three days", freq: models.FrequencyDaily, value: 3,
			from: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "two quarters", freq: models.FrequencyQuarterly, value: 2,
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 180),
		},
		{
			name: "unknown frequency falls back to monthly", freq: models.Frequency("fortnightly"), value: 1,
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "zero value defaults to one", freq: models.FrequencyDaily, value: 0,
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(tc.freq, tc.value, tc.from)
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

type fakeScheduleStore struct {
	schedules   map[int64]models.PMSchedule
	completions []ScheduleCompletion
	nextWOID    int64
}

func (f *fakeScheduleStore) GetPMSchedule(ctx context.Context, id int64) (models.PMSchedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return models.PMSchedule{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeScheduleStore) ApplyScheduleCompletion(ctx context.Context, c ScheduleCompletion) (int64, string, error) {
	f.completions = append(f.completions, c)
	s := f.schedules[c.ScheduleID]
	s.LastPerformed = &c.LastPerformed
	s.NextDue = c.NextDue
	f.schedules[c.ScheduleID] = s
	f.nextWOID++
	return f.nextWOID, fmt.Sprintf("WO-%06d", f.nextWOID), nil
}

func TestCompleteSchedule_AdvancesAndSpawnsWorkOrder(t *testing.T) {
	assetID := int64(7)
	store := &fakeScheduleStore{schedules: map[int64]models.PMSchedule{
		1: {
			ID: 1, Title: "Replace HVAC filter", AssetID: &assetID,
			Frequency: models.FrequencyWeekly, FrequencyValue: 2,
			EstimatedHours: 1.5, EstimatedCost: 40, Active: true,
			NextDue: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := &ScheduleService{Store: store, Logger: zerolog.Nop()}

	completed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.CompleteSchedule(context.Background(), 1, completed, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !result.NextDue.Equal(wantDue) {
		t.Fatalf("expected next_due %s, got %s", wantDue, result.NextDue)
	}
	if len(store.completions) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(store.completions))
	}

	wo := store.completions[0].WorkOrder
	if wo.Title != "PM: Replace HVAC filter" {
		t.Fatalf("unexpected work order title %q", wo.Title)
	}
	if wo.Type != "preventive" || wo.Status != models.StatusCompleted {
		t.Fatalf("expected completed preventive work order, got %s/%s", wo.Type, wo.Status)
	}
	if wo.AssetID == nil || *wo.AssetID != assetID {
		t.Fatalf("expected asset id carried over")
	}
	if wo.CompletionNotes == "" {
		t.Fatalf("expected default completion notes")
	}
}

func TestCompleteSchedule_NotIdempotent(t *testing.T) {
	store := &fakeScheduleStore{schedules: map[int64]models.PMSchedule{
		1: {
			ID: 1, Title: "Lubricate bearings",
			Frequency: models.FrequencyDaily, FrequencyValue: 1, Active: true,
			NextDue: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := &ScheduleService{Store: store, Logger: zerolog.Nop()}
	completed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.CompleteSchedule(context.Background(), 1, completed, "done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.CompleteSchedule(context.Background(), 1, completed, "done again")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No dedupe guard: two calls mean two work orders.
	if first.WOID == second.WOID {
		t.Fatalf("expected distinct work order ids, both %d", first.WOID)
	}
	if len(store.completions) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(store.completions))
	}
	if !first.NextDue.Equal(second.NextDue) {
		// Both computed from the same completion date, so equal here;
		// the double advance shows in the stored schedule.
		t.Fatalf("expected same computed next_due for same completion date")
	}
}

func TestCompleteSchedule_NotFound(t *testing.T) {
	store := &fakeScheduleStore{schedules: map[int64]models.PMSchedule{}}
	svc := &ScheduleService{Store: store, Logger: zerolog.Nop()}

	_, err := svc.CompleteSchedule(context.Background(), 99, time.Now(), "")
	if err == nil {
		t.Fatalf("expected error for missing schedule")
	}
	if len(store.completions) != 0 {
		t.Fatalf("expected no writes on not found")
	}
}
