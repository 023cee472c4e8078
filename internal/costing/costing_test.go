package costing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestHourlyRate(t *testing.T) {
	nearlyEqual(t, "hourlyRate", HourlyRate(1180, 8, 22), 1180.0/176.0)
	nearlyEqual(t, "hourlyRate single cost", HourlyRate(1760, 8, 22), 10)
}

func TestHourlyRate_ZeroCapacityReturnsZero(t *testing.T) {
	nearlyEqual(t, "zero hours", HourlyRate(1000, 0, 22), 0)
	nearlyEqual(t, "zero days", HourlyRate(1000, 8, 0), 0)
	nearlyEqual(t, "zero both", HourlyRate(1000, 0, 0), 0)
}

func TestProductCost_ZeroInputsIsZero(t *testing.T) {
	nearlyEqual(t, "productCost", ProductCost(0, 10, nil), 0)
}

func TestProductCost_LaborPlusMaterials(t *testing.T) {
	uses := []MaterialUse{
		{UnitCost: 2.5, Quantity: 0.7},
		{UnitCost: 0.8, Quantity: 1},
		{UnitCost: 0.1, Quantity: 3},
	}

	// 25 minutes at 10/h = 4.1667 labor; materials = 1.75 + 0.8 + 0.3.
	got := ProductCost(25, 10, uses)
	nearlyEqual(t, "productCost", got, 25*(10.0/60.0)+2.85)
}

func TestProductCost_LaborOnly(t *testing.T) {
	nearlyEqual(t, "productCost", ProductCost(60, 12, nil), 12)
}

func TestSuggestedPrice_EqualsCostAtZeroMargin(t *testing.T) {
	nearlyEqual(t, "suggestedPrice", SuggestedPrice(42.5, 0), 42.5)
}

func TestSuggestedPrice_MonotonicInMargin(t *testing.T) {
	cost := 18.0
	previous := SuggestedPrice(cost, -50)
	for _, margin := range []float64{0, 10, 30, 100, 150, 307} {
		price := SuggestedPrice(cost, margin)
		if price <= previous {
			t.Fatalf("suggestedPrice(%v, %v) = %v, expected > %v", cost, margin, price, previous)
		}
		previous = price
	}
}

func TestSuggestedPrice_AcceptsNegativeMargin(t *testing.T) {
	nearlyEqual(t, "suggestedPrice", SuggestedPrice(100, -20), 80)
}

func TestNormalizeAreaCost(t *testing.T) {
	// 100 for a 50x20 sheet: 1000 cm² at 0.1 per cm².
	nearlyEqual(t, "normalizeAreaCost", NormalizeAreaCost(100, 50, 20), 0.1)
}

func TestNormalizeAreaCost_ZeroAreaReturnsZero(t *testing.T) {
	nearlyEqual(t, "zero width", NormalizeAreaCost(100, 0, 20), 0)
	nearlyEqual(t, "zero height", NormalizeAreaCost(100, 50, 0), 0)
}

func TestEstimatedPieceCost(t *testing.T) {
	nearlyEqual(t, "estimatedPieceCost", EstimatedPieceCost(100, 50, 20, 200), 20)
}

func TestProfit(t *testing.T) {
	nearlyEqual(t, "profit", Profit(25, 6.13), 18.87)
}
