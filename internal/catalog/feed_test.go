package catalog

import (
	"reflect"
	"testing"

	"github.com/obrasuite/obrasuite/internal/domain"
)

func TestParseRecord(t *testing.T) {
	rec := map[string]interface{}{
		"sku":                 " CER-001 ",
		"name":                "Ceramica 30x30",
		"category":            "pisos",
		"web_list_price":      "1532.50",
		"urls_foto":           "http://img/a.jpg, http://img/b.jpg,",
		"unit_of_measurement": "area",
		"coefficient":         "2.35",
		"branch_stock":        map[string]interface{}{"central": 12.0, "norte": "4"},
	}

	p, ok := parseRecord(rec)
	if !ok {
		t.Fatal("parseRecord rejected a valid record")
	}
	if p.Sku != "CER-001" {
		t.Fatalf("sku = %q", p.Sku)
	}
	if p.UnitPrice != 1532.5 {
		t.Fatalf("unit price = %v, want 1532.5", p.UnitPrice)
	}
	if p.Unit != domain.UnitArea || p.Coefficient != 2.35 {
		t.Fatalf("unit = %v coefficient = %v", p.Unit, p.Coefficient)
	}
	if !reflect.DeepEqual(p.PhotoUrls, []string{"http://img/a.jpg", "http://img/b.jpg"}) {
		t.Fatalf("photo urls = %v", p.PhotoUrls)
	}
	if p.BranchStock["central"] != 12 || p.BranchStock["norte"] != 4 {
		t.Fatalf("branch stock = %v", p.BranchStock)
	}
}

func TestParseRecordDefaults(t *testing.T) {
	p, ok := parseRecord(map[string]interface{}{
		"sku":            "X-1",
		"name":           "misc",
		"web_list_price": "not-a-number",
	})
	if !ok {
		t.Fatal("parseRecord rejected record")
	}
	if p.UnitPrice != 0 {
		t.Fatalf("unreadable price must default to 0, got %v", p.UnitPrice)
	}
	if p.Unit != domain.UnitCount {
		t.Fatalf("missing unit must default to count, got %v", p.Unit)
	}
	if p.PhotoUrls != nil {
		t.Fatalf("photo urls = %v, want nil", p.PhotoUrls)
	}
}

func TestParseRecordSkipsMissingSku(t *testing.T) {
	if _, ok := parseRecord(map[string]interface{}{"name": "orphan"}); ok {
		t.Fatal("record without sku must be dropped")
	}
	if _, ok := parseRecord(map[string]interface{}{"sku": "   "}); ok {
		t.Fatal("blank sku must be dropped")
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot([]domain.Product{
		{Sku: "B", Name: "second"},
		{Sku: "A", Name: "first"},
	})
	p, ok := snap.Lookup("A")
	if !ok || p.Name != "first" {
		t.Fatalf("Lookup(A) = %+v, %v", p, ok)
	}
	if _, ok := snap.Lookup("Z"); ok {
		t.Fatal("Lookup(Z) should miss")
	}
	// feed order is preserved
	if snap.Products()[0].Sku != "B" {
		t.Fatalf("products[0] = %+v", snap.Products()[0])
	}

	var nilSnap *Snapshot
	if nilSnap.Len() != 0 {
		t.Fatal("nil snapshot len should be 0")
	}
	if _, ok := nilSnap.Lookup("A"); ok {
		t.Fatal("nil snapshot lookup should miss")
	}
}
