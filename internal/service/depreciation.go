package service

import (
	"time"

	"github.com/maintdesk/backend/internal/models"
)

// DepreciationReport is a straight-line depreciation snapshot for one
// asset as of a given date.
type DepreciationReport struct {
	AssetID         int64   `json:"asset_id"`
	Name            string  `json:"name"`
	PurchaseCost    float64 `json:"purchase_cost"`
	SalvageValue    float64 `json:"salvage_value"`
	UsefulLifeYears int     `json:"useful_life_years"`
	AgeYears        float64 `json:"age_years"`
	AnnualExpense   float64 `json:"annual_expense"`
	AccumulatedDep  float64 `json:"accumulated_depreciation"`
	BookValue       float64 `json:"book_value"`
}

// Depreciate computes straight-line depreciation: a constant annual
// expense of (cost - salvage) / life, with book value floored at the
// salvage value. Assets without a purchase date or life are reported
// undepreciated.
func Depreciate(a models.Asset, asOf time.Time) DepreciationReport {
	r := DepreciationReport{
		AssetID:         a.ID,
		Name:            a.Name,
		PurchaseCost:    a.PurchaseCost,
		SalvageValue:    a.SalvageValue,
		UsefulLifeYears: a.UsefulLifeYears,
		BookValue:       a.PurchaseCost,
	}
	if a.PurchaseDate == nil || a.UsefulLifeYears <= 0 {
		return r
	}

	ageYears := asOf.Sub(*a.PurchaseDate).Hours() / (24 * 365)
	if ageYears < 0 {
		ageYears = 0
	}
	r.AgeYears = ageYears

	r.AnnualExpense = (a.PurchaseCost - a.SalvageValue) / float64(a.UsefulLifeYears)
	r.AccumulatedDep = r.AnnualExpense * ageYears
	maxDep := a.PurchaseCost - a.SalvageValue
	if r.AccumulatedDep > maxDep {
		r.AccumulatedDep = maxDep
	}
	r.BookValue = a.PurchaseCost - r.AccumulatedDep
	return r
}
