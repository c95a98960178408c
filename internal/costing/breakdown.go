package costing

import (
	"fmt"

	"mise/internal/models"
)

// FlagKind classifies a costing diagnostic
type FlagKind string

const (
	FlagMissingItem       FlagKind = "missing_item"
	FlagMissingRecipe     FlagKind = "missing_recipe"
	FlagMissingConversion FlagKind = "missing_conversion"
	FlagCycle             FlagKind = "cycle"
	FlagInvalidServings   FlagKind = "invalid_servings"
	FlagInvalidWastage    FlagKind = "invalid_wastage"
)

// Flag records a non-fatal problem hit while costing. The affected line is
// costed at a neutral value and the computation carries on.
type Flag struct {
	Kind     FlagKind `json:"kind"`
	RecipeID string   `json:"recipe_id"`
	ItemID   string   `json:"item_id,omitempty"`
	Detail   string   `json:"detail"`
}

// Breakdown represents the full cost decomposition of one recipe
type Breakdown struct {
	RecipeID                string  `json:"recipe_id"`
	RecipeName              string  `json:"recipe_name"`
	Servings                int     `json:"servings"`
	RawMaterialCost         float64 `json:"raw_material_cost"`
	AdjustedRawMaterialCost float64 `json:"adjusted_raw_material_cost"`
	LabourCost              float64 `json:"labour_cost"`
	VariableOverheadCost    float64 `json:"variable_overhead_cost"`
	FixedOverheadCost       float64 `json:"fixed_overhead_cost"`
	PackagingCost           float64 `json:"packaging_cost"`
	TotalCost               float64 `json:"total_cost"`
	CostPerServing          float64 `json:"cost_per_serving"`
	Flags                   []Flag  `json:"flags,omitempty"`
}

// Engine computes recipe cost breakdowns against a catalog snapshot and a
// business settings snapshot. An Engine is read-only after construction and
// safe for concurrent use; every call runs with its own memo table and
// diagnostics list.
type Engine struct {
	catalog  Catalog
	settings models.BusinessSettings
}

// New creates a costing engine over the given snapshots
func New(catalog Catalog, settings models.BusinessSettings) *Engine {
	return &Engine{catalog: catalog, settings: settings}
}

// Breakdown computes the cost breakdown of a recipe, resolving sub-recipes
// recursively. All problems encountered along the way are reported as flags
// on the result; the numbers are always present and finite.
func (e *Engine) Breakdown(recipe *models.Recipe) *Breakdown {
	r := &run{
		catalog:  e.catalog,
		settings: e.settings,
		memo:     make(map[string]*Breakdown),
	}
	b := r.breakdown(recipe, map[string]bool{recipe.ID: true})
	b.Flags = r.flags
	return b
}

// Cost computes just the total cost of a recipe
func (e *Engine) Cost(recipe *models.Recipe) float64 {
	return e.Breakdown(recipe).TotalCost
}

// run holds the state of one top-level costing call: the memo table that
// collapses diamond dependencies and the diagnostics gathered along the way
type run struct {
	catalog  Catalog
	settings models.BusinessSettings
	memo     map[string]*Breakdown
	flags    []Flag
	cycles   int
}

func (r *run) flag(kind FlagKind, recipeID, itemID, detail string) {
	if kind == FlagCycle {
		r.cycles++
	}
	r.flags = append(r.flags, Flag{Kind: kind, RecipeID: recipeID, ItemID: itemID, Detail: detail})
}

// breakdown aggregates one recipe. The visiting set carries the ids on the
// current resolution path, which is how circular references are caught.
func (r *run) breakdown(rec *models.Recipe, visiting map[string]bool) *Breakdown {
	if memoized, ok := r.memo[rec.ID]; ok {
		return memoized
	}
	cyclesBefore := r.cycles

	var raw float64
	for i := range rec.Ingredients {
		raw += r.ingredientCost(rec, &rec.Ingredients[i], visiting)
	}

	adjusted := raw
	switch {
	case rec.WastageFactor < 0 || rec.WastageFactor >= 100:
		r.flag(FlagInvalidWastage, rec.ID, "",
			fmt.Sprintf("wastage factor %v%% is outside [0,100), left unapplied", rec.WastageFactor))
	case rec.WastageFactor > 0:
		adjusted = raw / (1 - rec.WastageFactor/100)
	}

	servings := float64(rec.Servings)
	if servings < 0 {
		servings = 0
	}
	labour := r.labourCost(rec, servings)
	variableOH, fixedOH := r.overheadCost(servings)
	packaging := rec.PackagingCostPerServing * servings

	total := adjusted + labour + variableOH + fixedOH + packaging

	var perServing float64
	if rec.Servings > 0 {
		perServing = total / servings
	} else {
		r.flag(FlagInvalidServings, rec.ID, "",
			"servings is not positive, cost per serving reported as 0")
	}

	b := &Breakdown{
		RecipeID:                rec.ID,
		RecipeName:              rec.Name,
		Servings:                rec.Servings,
		RawMaterialCost:         raw,
		AdjustedRawMaterialCost: adjusted,
		LabourCost:              labour,
		VariableOverheadCost:    variableOH,
		FixedOverheadCost:       fixedOH,
		PackagingCost:           packaging,
		TotalCost:               total,
		CostPerServing:          perServing,
	}

	// Only cycle-free computations are safe to reuse: a breakdown that hit
	// a cycle depends on the path that reached it.
	if r.cycles == cyclesBefore && rec.ID != "" {
		r.memo[rec.ID] = b
	}
	return b
}

func (r *run) ingredientCost(parent *models.Recipe, ing *models.Ingredient, visiting map[string]bool) float64 {
	if ing.Type == models.IngredientTypeRecipe {
		return r.subRecipeCost(parent, ing, visiting)
	}
	return r.itemCost(parent, ing)
}

// itemCost prices an ingredient line against its inventory item
func (r *run) itemCost(parent *models.Recipe, ing *models.Ingredient) float64 {
	item, ok := r.catalog.InventoryItemByID(ing.ItemID)
	if !ok {
		r.flag(FlagMissingItem, parent.ID, ing.ItemID,
			fmt.Sprintf("inventory item %q not found, line costed at 0", ing.ItemID))
		return 0
	}
	factor := r.factor(parent, ing.Unit, item.Unit, item.ID)
	cost := item.UnitCost * ing.Quantity * factor

	yield := ing.YieldPercentage
	if yield == 0 {
		yield = item.YieldPercentage
	}
	return applyYield(cost, yield)
}

// subRecipeCost prices an ingredient line that consumes another recipe's
// output, recursing into that recipe's own breakdown
func (r *run) subRecipeCost(parent *models.Recipe, ing *models.Ingredient, visiting map[string]bool) float64 {
	if visiting[ing.ItemID] {
		r.flag(FlagCycle, parent.ID, ing.ItemID,
			fmt.Sprintf("recipe %q is already on the resolution path, circular line costed at 0", ing.ItemID))
		return 0
	}
	sub, ok := r.catalog.RecipeByID(ing.ItemID)
	if !ok {
		r.flag(FlagMissingRecipe, parent.ID, ing.ItemID,
			fmt.Sprintf("sub-recipe %q not found, line costed at 0", ing.ItemID))
		return 0
	}

	next := make(map[string]bool, len(visiting)+1)
	for id := range visiting {
		next[id] = true
	}
	next[sub.ID] = true
	subBreakdown := r.breakdown(sub, next)

	// Per-unit cost of the sub-recipe's output: by declared production
	// yield when it has one, by serving otherwise.
	unitCost := subBreakdown.CostPerServing
	factor := 1.0
	if sub.ProductionYield > 0 {
		unitCost = subBreakdown.TotalCost / sub.ProductionYield
		if sub.ProductionUnit != "" && ing.Unit != "" {
			factor = r.factor(parent, ing.Unit, sub.ProductionUnit, sub.ID)
		}
	}
	cost := unitCost * ing.Quantity * factor
	return applyYield(cost, ing.YieldPercentage)
}

// factor resolves a conversion multiplier, degrading to 1 with a flag when
// no conversion is known
func (r *run) factor(parent *models.Recipe, fromUnit, toUnit, itemID string) float64 {
	f, ok := ResolveFactor(r.catalog, fromUnit, toUnit, itemID)
	if !ok {
		r.flag(FlagMissingConversion, parent.ID, itemID,
			fmt.Sprintf("no conversion from %q to %q, factor 1 assumed", fromUnit, toUnit))
		return 1
	}
	return f
}

// labourCost allocates staff cost to the recipe. LabourMinutes is per
// serving; the hourly rate comes from the recipe's own salary basis when it
// carries one, from the business settings otherwise.
func (r *run) labourCost(rec *models.Recipe, servings float64) float64 {
	if rec.LabourMinutes <= 0 {
		return 0
	}
	var hourly float64
	if rec.UseCustomLabourCost {
		if rec.CustomWorkingDays > 0 && rec.CustomWorkingHours > 0 {
			hourly = rec.CustomMonthlySalary / (rec.CustomWorkingDays * rec.CustomWorkingHours)
		}
	} else if r.settings.WorkingDaysPerMonth > 0 && r.settings.WorkingHoursPerDay > 0 {
		hourly = r.settings.TotalMonthlySalary / (r.settings.WorkingDaysPerMonth * r.settings.WorkingHoursPerDay)
	}
	return hourly * (rec.LabourMinutes / 60) * servings
}

// overheadCost pro-rates the monthly overhead figures over the business's
// monthly dish volume. Without a volume basis both shares stay 0.
func (r *run) overheadCost(servings float64) (variable, fixed float64) {
	if r.settings.MonthlyDishVolume <= 0 {
		return 0, 0
	}
	variable = r.settings.VariableOverheadPerMonth / r.settings.MonthlyDishVolume * servings
	fixed = r.settings.FixedOverheadPerMonth / r.settings.MonthlyDishVolume * servings
	return variable, fixed
}

// applyYield grosses a cost up for trim or preparation loss. Only yields
// strictly between 0 and 100 adjust anything.
func applyYield(cost, yieldPercentage float64) float64 {
	if yieldPercentage > 0 && yieldPercentage < 100 {
		return cost / (yieldPercentage / 100)
	}
	return cost
}
