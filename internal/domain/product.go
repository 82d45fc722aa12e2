package domain

// UnitOfMeasurement distinguishes how a product quantity is counted.
type UnitOfMeasurement string

const (
	// UnitCount products are sold per piece, quantities are positive integers
	UnitCount UnitOfMeasurement = "count"
	// UnitArea products are sold by coverage, quantities are multiples of
	// the product coefficient (area covered by one package)
	UnitArea UnitOfMeasurement = "area"
)

// Product is one catalog record pulled from the external feed. Products are
// immutable after ingestion; there is no write path back to the source.
type Product struct {
	Sku         string            `json:"sku"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	UnitPrice   float64           `json:"unit_price"`
	PhotoUrls   []string          `json:"photo_urls,omitempty"`
	Unit        UnitOfMeasurement `json:"unit_of_measurement"`
	Coefficient float64           `json:"coefficient,omitempty"`
	BranchStock map[string]int    `json:"branch_stock,omitempty"`
}

// IsArea reports whether the product is priced by coverage area.
func (p Product) IsArea() bool {
	return p.Unit == UnitArea
}

// PackageCoverage returns the area covered by one package. The bool is
// false for count products and for area products with a broken coefficient.
func (p Product) PackageCoverage() (float64, bool) {
	if p.Unit != UnitArea || p.Coefficient <= 0 {
		return 0, false
	}
	return p.Coefficient, true
}

// FirstPhoto returns the primary image url or empty.
func (p Product) FirstPhoto() string {
	if len(p.PhotoUrls) == 0 {
		return ""
	}
	return p.PhotoUrls[0]
}
