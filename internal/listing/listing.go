package listing

import (
	"sort"
	"strings"

	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"golang.org/x/text/cases"
)

// DefaultPageSize matches the catalog view.
const DefaultPageSize = 50

// SortOrder is the tri-state price sort toggle.
type SortOrder string

const (
	SortNone SortOrder = "none"
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// NextSort cycles none -> asc -> desc -> none.
func NextSort(s SortOrder) SortOrder {
	switch s {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// PricedProduct decorates a product with its rounded list price and the
// discounted price every view sorts and displays by.
type PricedProduct struct {
	domain.Product
	ListPrice       int64 `json:"list_price"`
	DiscountedPrice int64 `json:"discounted_price"`
}

// Query is one listing request over a catalog snapshot.
type Query struct {
	Search   string    `json:"search" query:"q"`
	Sort     SortOrder `json:"sort" query:"sort"`
	Page     int       `json:"page" query:"page"`
	PageSize int       `json:"page_size" query:"page_size"`
}

// Result is one page of the filtered, sorted catalog.
type Result struct {
	Items    []PricedProduct `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	PageSize int             `json:"page_size"`
}

// Apply filters, sorts and paginates the product list at the given
// discount percentage. The page index is clamped into the valid range for
// the filtered count, so narrowing a filter while deep in the pagination
// lands on a real page instead of an empty one.
func Apply(products []domain.Product, pct float64, q Query) Result {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	matched := filter(products, q.Search)

	items := make([]PricedProduct, len(matched))
	for i, p := range matched {
		items[i] = PricedProduct{
			Product:         p,
			ListPrice:       pricing.DiscountedPrice(p.UnitPrice, 0),
			DiscountedPrice: pricing.DiscountedPrice(p.UnitPrice, pct),
		}
	}

	switch q.Sort {
	case SortAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].DiscountedPrice < items[j].DiscountedPrice
		})
	case SortDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].DiscountedPrice > items[j].DiscountedPrice
		})
	}

	total := len(items)
	pages := (total + q.PageSize - 1) / q.PageSize
	if pages < 1 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Items:    items[start:end],
		Total:    total,
		Page:     page,
		Pages:    pages,
		PageSize: q.PageSize,
	}
}

// filter keeps products whose name or sku contains the query, caseless.
// An empty query matches everything.
func filter(products []domain.Product, search string) []domain.Product {
	search = strings.TrimSpace(search)
	if search == "" {
		return products
	}
	// a Caser is stateful, so each call folds with its own
	fold := cases.Fold()
	needle := fold.String(search)
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Sku), needle) {
			out = append(out, p)
		}
	}
	return out
}
