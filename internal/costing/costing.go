package costing

// MaterialUse represents one material consumed by a product, already
// resolved to its current unit cost. Callers resolve material ids before
// calling in here; a dangling reference simply never shows up in the slice.
type MaterialUse struct {
	UnitCost float64
	Quantity float64
}

// HourlyRate derives the labor rate from the sum of monthly fixed costs and
// the configured working capacity. A zero capacity yields a zero rate
// instead of an error.
func HourlyRate(totalMonthlyCost, workHoursPerDay, workDaysPerMonth float64) float64 {
	totalMonthlyHours := workHoursPerDay * workDaysPerMonth
	if totalMonthlyHours == 0 {
		return 0
	}
	return totalMonthlyCost / totalMonthlyHours
}

// ProductCost computes labor plus materials cost for a product.
// Negative time or quantities are not guarded here; input validation is the
// form layer's job.
func ProductCost(timeMinutes, hourlyRate float64, uses []MaterialUse) float64 {
	laborCost := timeMinutes * (hourlyRate / 60.0)

	materialsCost := 0.0
	for _, use := range uses {
		materialsCost += use.UnitCost * use.Quantity
	}

	return laborCost + materialsCost
}

// SuggestedPrice applies a markup percentage over cost. The margin is a
// markup over cost, not a margin of revenue, and is accepted without
// clamping (negative and >100 values included).
func SuggestedPrice(cost, profitMarginPercent float64) float64 {
	return cost * (1.0 + profitMarginPercent/100.0)
}

// Profit is the absolute gain of selling at price for a given cost.
func Profit(price, cost float64) float64 {
	return price - cost
}

// NormalizeAreaCost converts the purchase cost of a whole sheet into a cost
// per square centimeter. It is a one-time transform applied when an
// area-priced material is created; the stored unit becomes cm2.
// A non-positive area yields 0.
func NormalizeAreaCost(purchaseCost, widthCm, heightCm float64) float64 {
	totalArea := widthCm * heightCm
	if totalArea <= 0 {
		return 0
	}
	return purchaseCost / totalArea
}

// EstimatedPieceCost allocates a sheet's purchase cost proportionally to the
// area a single piece consumes.
func EstimatedPieceCost(purchaseCost, widthCm, heightCm, usedAreaCm2 float64) float64 {
	return NormalizeAreaCost(purchaseCost, widthCm, heightCm) * usedAreaCm2
}
