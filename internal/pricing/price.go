package pricing

import (
	"math"

	"github.com/obrasuite/obrasuite/internal/domain"
)

// DiscountedPrice returns the unit price after applying the storewide
// discount percentage, rounded half-up to a whole currency unit. The same
// arithmetic backs list rows, cart lines and order captures so every view
// of a price agrees. pct outside [0,100] is clamped.
func DiscountedPrice(unitPrice float64, pct float64) int64 {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return roundHalfUp(unitPrice * (1 - pct/100))
}

// LineTotal prices one cart line. Policy: round the discounted unit price
// first, then multiply by quantity and round the line once (round-then-sum
// across a cart). Chosen to match how per-item prices are displayed.
func LineTotal(unitPrice, pct, quantity float64) int64 {
	return roundHalfUp(float64(DiscountedPrice(unitPrice, pct)) * quantity)
}

// CartTotal sums independently priced lines. Per the round-then-sum policy
// the total is the exact sum of the displayed line totals.
func CartTotal(items []domain.CartItem, pct float64) int64 {
	var total int64
	for _, it := range items {
		total += LineTotal(it.Product.UnitPrice, pct, it.Quantity)
	}
	return total
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
