package service

import (
	"math"
	"testing"
	"time"

	"github.com/maintdesk/backend/internal/models"
)

func TestDepreciate_StraightLine(t *testing.T) {
	purchased := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	asset := models.Asset{
		ID: 1, Name: "Chiller",
		PurchaseCost: 110000, SalvageValue: 10000, UsefulLifeYears: 10,
		PurchaseDate: &purchased,
	}

	asOf := purchased.AddDate(0, 0, 2*365)
	r := Depreciate(asset, asOf)

	if r.AnnualExpense != 10000 {
		t.Fatalf("expected annual expense 10000, got %f", r.AnnualExpense)
	}
	if math.Abs(r.AccumulatedDep-20000) > 1 {
		t.Fatalf("expected ~20000 accumulated, got %f", r.AccumulatedDep)
	}
	if math.Abs(r.BookValue-90000) > 1 {
		t.Fatalf("expected ~90000 book value, got %f", r.BookValue)
	}
}

func TestDepreciate_FlooredAtSalvage(t *testing.T) {
	purchased := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	asset := models.Asset{
		ID: 1, Name: "Forklift",
		PurchaseCost: 50000, SalvageValue: 5000, UsefulLifeYears: 5,
		PurchaseDate: &purchased,
	}

	r := Depreciate(asset, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if r.BookValue != 5000 {
		t.Fatalf("expected book value floored at salvage 5000, got %f", r.BookValue)
	}
}

func TestDepreciate_NoPurchaseDate(t *testing.T) {
	asset := models.Asset{ID: 1, Name: "Pump", PurchaseCost: 8000, UsefulLifeYears: 5}
	r := Depreciate(asset, time.Now())
	if r.BookValue != 8000 || r.AccumulatedDep != 0 {
		t.Fatalf("expected undepreciated asset, got %+v", r)
	}
}
