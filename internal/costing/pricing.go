package costing

// DefaultTargetFoodCostPercent is the food cost share assumed when a
// business has not set its own target.
const DefaultTargetFoodCostPercent = 30.0

// SuggestPrice returns the menu price at which the given cost per serving
// makes up the target percentage of the price. A non-positive target falls
// back to the default. A non-positive cost has no meaningful price and is
// reported as ok=false.
func SuggestPrice(costPerServing, targetFoodCostPercent float64) (float64, bool) {
	if costPerServing <= 0 {
		return 0, false
	}
	if targetFoodCostPercent <= 0 {
		targetFoodCostPercent = DefaultTargetFoodCostPercent
	}
	return costPerServing / (targetFoodCostPercent / 100), true
}
