package costing

import "strings"

// ResolveFactor returns the multiplier that converts a quantity in fromUnit
// into toUnit for the given item. Lookup order: identity, direct conversion
// (item-specific then business-wide, per Catalog.ConversionFactor), then the
// reciprocal of the reverse conversion. There is no multi-hop chaining; an
// unknown pair reports ok=false and the caller decides how to degrade.
func ResolveFactor(catalog Catalog, fromUnit, toUnit, itemID string) (float64, bool) {
	if normalizeUnit(fromUnit) == normalizeUnit(toUnit) {
		return 1, true
	}
	if f, ok := catalog.ConversionFactor(fromUnit, toUnit, itemID); ok {
		return f, true
	}
	if f, ok := catalog.ConversionFactor(toUnit, fromUnit, itemID); ok && f != 0 {
		return 1 / f, true
	}
	return 0, false
}

// normalizeUnit makes unit comparison insensitive to case and stray spaces
func normalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
