package cart

import "math"

// NormalizeArea converts a requested coverage area into the authoritative
// package-quantized cart quantity for area-priced products. coverage is
// the area one package covers (the product coefficient).
//
//	packages = floor(area/coverage) + 1
//	quantity = packages * coverage
//
// The request always rounds up to the next whole package, including when
// the area is an exact multiple of the coverage, in which case one package
// beyond the exact match is allocated. This matches the shipped behavior;
// whether the exact-multiple surplus is a safety margin or an off-by-one
// is pending product-owner clarification, so it is preserved as is.
//
// The bool is false for invalid input (area not a finite positive number,
// or coverage <= 0); callers must leave the cart unchanged in that case.
func NormalizeArea(area, coverage float64) (float64, bool) {
	if math.IsNaN(area) || math.IsInf(area, 0) || area <= 0 {
		return 0, false
	}
	if math.IsNaN(coverage) || math.IsInf(coverage, 0) || coverage <= 0 {
		return 0, false
	}
	packages := math.Floor(area/coverage) + 1
	return packages * coverage, true
}

// PackagesFor reports how many whole packages NormalizeArea would allocate.
func PackagesFor(area, coverage float64) (int, bool) {
	qty, ok := NormalizeArea(area, coverage)
	if !ok {
		return 0, false
	}
	return int(math.Round(qty / coverage)), true
}
