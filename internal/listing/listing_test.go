package listing

import (
	"fmt"
	"testing"

	"github.com/obrasuite/obrasuite/internal/domain"
)

func product(sku, name string, price float64) domain.Product {
	return domain.Product{Sku: sku, Name: name, UnitPrice: price, Unit: domain.UnitCount}
}

func TestFilterCaseInsensitive(t *testing.T) {
	products := []domain.Product{
		product("CER-001", "Cerámica Beige", 100),
		product("ADH-200", "Adhesivo", 50),
		product("cer-777", "Mortero", 80),
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"CER-001", "ADH-200", "cer-777"}},
		{"cer", []string{"CER-001", "cer-777"}},
		{"CER", []string{"CER-001", "cer-777"}},
		{"adhesivo", []string{"ADH-200"}},
		{"  mortero ", []string{"cer-777"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("search=%q", tt.search), func(t *testing.T) {
			res := Apply(products, 0, Query{Search: tt.search})
			if len(res.Items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(res.Items), len(tt.want))
			}
			for i, sku := range tt.want {
				if res.Items[i].Sku != sku {
					t.Fatalf("item %d = %s, want %s", i, res.Items[i].Sku, sku)
				}
			}
		})
	}
}

func TestSortByDiscountedPrice(t *testing.T) {
	products := []domain.Product{
		product("A", "a", 300),
		product("B", "b", 100),
		product("C", "c", 200),
	}

	asc := Apply(products, 0, Query{Sort: SortAsc})
	if asc.Items[0].Sku != "B" || asc.Items[2].Sku != "A" {
		t.Fatalf("asc order = %v %v %v", asc.Items[0].Sku, asc.Items[1].Sku, asc.Items[2].Sku)
	}
	desc := Apply(products, 0, Query{Sort: SortDesc})
	if desc.Items[0].Sku != "A" || desc.Items[2].Sku != "B" {
		t.Fatalf("desc order = %v %v %v", desc.Items[0].Sku, desc.Items[1].Sku, desc.Items[2].Sku)
	}
	none := Apply(products, 0, Query{Sort: SortNone})
	if none.Items[0].Sku != "A" || none.Items[2].Sku != "C" {
		t.Fatalf("none must keep feed order, got %v %v %v", none.Items[0].Sku, none.Items[1].Sku, none.Items[2].Sku)
	}
}

func TestSortStableOnTies(t *testing.T) {
	// identical discounted prices keep their incoming relative order
	products := []domain.Product{
		product("first", "x", 100),
		product("second", "y", 100),
		product("cheap", "z", 10),
	}
	res := Apply(products, 0, Query{Sort: SortAsc})
	if res.Items[1].Sku != "first" || res.Items[2].Sku != "second" {
		t.Fatalf("tie order broken: %v %v %v", res.Items[0].Sku, res.Items[1].Sku, res.Items[2].Sku)
	}
}

func TestSortUsesDiscountedPrice(t *testing.T) {
	// at 50% off, 210 beats 400: 105 < 200
	products := []domain.Product{
		product("A", "a", 400),
		product("B", "b", 210),
	}
	res := Apply(products, 50, Query{Sort: SortAsc})
	if res.Items[0].Sku != "B" {
		t.Fatalf("asc[0] = %s, want B", res.Items[0].Sku)
	}
	if res.Items[0].DiscountedPrice != 105 || res.Items[0].ListPrice != 210 {
		t.Fatalf("priced item = %+v", res.Items[0])
	}
}

func TestPaginationClamp(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 100; i++ {
		products = append(products, product(fmt.Sprintf("SKU-%03d", i), fmt.Sprintf("needle-%d", i%3), 100))
	}

	// on page 5 of the unfiltered list, then the filter narrows to 3 hits
	res := Apply(products, 0, Query{Search: "needle-1", Page: 5, PageSize: 50})
	if res.Page != 1 {
		t.Fatalf("page = %d, want clamp to 1", res.Page)
	}
	if res.Total != 33 {
		t.Fatalf("total = %d", res.Total)
	}
	if len(res.Items) == 0 {
		t.Fatal("clamped page must not be empty")
	}
}

func TestPaginationSlices(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 120; i++ {
		products = append(products, product(fmt.Sprintf("SKU-%03d", i), "item", 100))
	}
	res := Apply(products, 0, Query{Page: 3, PageSize: 50})
	if res.Pages != 3 || res.Page != 3 {
		t.Fatalf("pages = %d page = %d", res.Pages, res.Page)
	}
	if len(res.Items) != 20 {
		t.Fatalf("len(items) = %d, want 20", len(res.Items))
	}
	if res.Items[0].Sku != "SKU-100" {
		t.Fatalf("items[0] = %s", res.Items[0].Sku)
	}

	empty := Apply(nil, 0, Query{Page: 7})
	if empty.Page != 1 || empty.Pages != 1 || len(empty.Items) != 0 {
		t.Fatalf("empty result = %+v", empty)
	}
}

func TestNextSortCycle(t *testing.T) {
	if NextSort(SortNone) != SortAsc || NextSort(SortAsc) != SortDesc || NextSort(SortDesc) != SortNone {
		t.Fatal("tri-state cycle broken")
	}
	// unknown values re-enter the cycle at none
	if NextSort(SortOrder("bogus")) != SortNone {
		t.Fatal("unknown sort must reset to none")
	}
}
