package pricing

import (
	"testing"

	"github.com/obrasuite/obrasuite/internal/domain"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		pct   float64
		want  int64
	}{
		{"ten percent off 1000", 1000, 10, 900},
		{"zero pct returns rounded price", 1000, 0, 1000},
		{"zero pct rounds half up", 999.5, 0, 1000},
		{"full discount", 1000, 100, 0},
		{"fractional pct", 1000, 12.5, 875},
		{"pct below range clamps to 0", 500, -5, 500},
		{"pct above range clamps to 100", 500, 150, 0},
		{"zero price", 0, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiscountedPrice(tt.price, tt.pct); got != tt.want {
				t.Fatalf("DiscountedPrice(%v, %v) = %d, want %d", tt.price, tt.pct, got, tt.want)
			}
		})
	}
}

func TestDiscountedPriceMonotonic(t *testing.T) {
	prices := []float64{0, 1, 99.5, 1000, 12345.67}
	for _, price := range prices {
		prev := DiscountedPrice(price, 0)
		for pct := 1.0; pct <= 100; pct++ {
			cur := DiscountedPrice(price, pct)
			if cur > prev {
				t.Fatalf("price %v: pct %v gives %d > %d at pct %v", price, pct, cur, prev, pct-1)
			}
			prev = cur
		}
	}
}

func TestCartTotalRoundThenSum(t *testing.T) {
	// 3 units at 99.5 with 10% off: unit discounts to round(89.55)=90,
	// line total is 270, not round(89.55*3)=269.
	items := []domain.CartItem{
		{Product: domain.Product{Sku: "A", UnitPrice: 99.5}, Quantity: 3},
	}
	if got := CartTotal(items, 10); got != 270 {
		t.Fatalf("CartTotal = %d, want 270", got)
	}
}

func TestCartTotalSumsLines(t *testing.T) {
	items := []domain.CartItem{
		{Product: domain.Product{Sku: "A", UnitPrice: 1000}, Quantity: 2},
		{Product: domain.Product{Sku: "B", UnitPrice: 250}, Quantity: 1},
	}
	want := LineTotal(1000, 10, 2) + LineTotal(250, 10, 1)
	if got := CartTotal(items, 10); got != want {
		t.Fatalf("CartTotal = %d, want %d", got, want)
	}
	if got := CartTotal(nil, 10); got != 0 {
		t.Fatalf("empty cart total = %d, want 0", got)
	}
}
