package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a work order priority tier, ordered low -> critical.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityOrder = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range priorityOrder {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// NextTier returns the next priority tier up. Critical has no higher
// tier and reports false.
func (p Priority) NextTier() (Priority, bool) {
	switch p {
	case PriorityLow:
		return PriorityMedium, true
	case PriorityMedium:
		return PriorityHigh, true
	case PriorityHigh:
		return PriorityCritical, true
	default:
		return p, false
	}
}

// WorkOrderStatus is a work order lifecycle state.
type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "open"
	StatusInProgress WorkOrderStatus = "in_progress"
	StatusOnHold     WorkOrderStatus = "on_hold"
	StatusCompleted  WorkOrderStatus = "completed"
	StatusCancelled  WorkOrderStatus = "cancelled"
)

func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	st := WorkOrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown work order status %q", s)
}

// Terminal reports whether the status excludes the work order from
// further SLA evaluation and escalation.
func (s WorkOrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Frequency is a PM schedule recurrence unit.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

type WorkOrder struct {
	ID              int64           `json:"id"`
	WONumber        string          `json:"wo_number"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Type            string          `json:"type"`
	Priority        Priority        `json:"priority"`
	Status          WorkOrderStatus `json:"status"`
	AssetID         *int64          `json:"asset_id,omitempty"`
	AssignedTo      *int64          `json:"assigned_to,omitempty"`
	EstimatedHours  float64         `json:"estimated_hours"`
	CompletionNotes string          `json:"completion_notes,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	ScheduledDate   *time.Time      `json:"scheduled_date,omitempty"`
	CompletedDate   *time.Time      `json:"completed_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SLAThreshold is the hour budget configured for one priority tier.
type SLAThreshold struct {
	Priority        Priority `json:"priority"`
	ResponseHours   float64  `json:"response_hours"`
	ResolutionHours float64  `json:"resolution_hours"`
	EscalationHours float64  `json:"escalation_hours"`
}

type PMSchedule struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	AssetID        *int64     `json:"asset_id,omitempty"`
	AssignedTo     *int64     `json:"assigned_to,omitempty"`
	Frequency      Frequency  `json:"frequency"`
	FrequencyValue int        `json:"frequency_value"`
	EstimatedHours float64    `json:"estimated_hours"`
	EstimatedCost  float64    `json:"estimated_cost"`
	LastPerformed  *time.Time `json:"last_performed,omitempty"`
	NextDue        time.Time  `json:"next_due"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Asset struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category,omitempty"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	PurchaseCost    float64    `json:"purchase_cost"`
	SalvageValue    float64    `json:"salvage_value"`
	UsefulLifeYears int        `json:"useful_life_years"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Part struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	PartNumber  string  `json:"part_number,omitempty"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	UnitCost    float64 `json:"unit_cost"`
	Location    string  `json:"location,omitempty"`
}

type AuditEntry struct {
	ID         string         `json:"id"`
	EntityKind string         `json:"entity_kind"`
	EntityID   int64          `json:"entity_id"`
	Action     string         `json:"action"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
