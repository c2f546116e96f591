package service

import (
	"github.com/maintdesk/backend/internal/models"
)

// ReorderSuggestion proposes a restock quantity for a part at or below
// its minimum stock level.
type ReorderSuggestion struct {
	PartID        int64   `json:"part_id"`
	Name          string  `json:"name"`
	PartNumber    string  `json:"part_number,omitempty"`
	Quantity      int     `json:"quantity"`
	MinQuantity   int     `json:"min_quantity"`
	SuggestedQty  int     `json:"suggested_qty"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// SuggestReorders restocks each low part to twice its minimum level.
func SuggestReorders(parts []models.Part) []ReorderSuggestion {
	out := make([]ReorderSuggestion, 0, len(parts))
	for _, p := range parts {
		if p.Quantity > p.MinQuantity {
			continue
		}
		qty := p.MinQuantity*2 - p.Quantity
		if qty < 0 {
			qty = 0
		}
		out = append(out, ReorderSuggestion{
			PartID:        p.ID,
			Name:          p.Name,
			PartNumber:    p.PartNumber,
			Quantity:      p.Quantity,
			MinQuantity:   p.MinQuantity,
			SuggestedQty:  qty,
			EstimatedCost: float64(qty) * p.UnitCost,
		})
	}
	return out
}
