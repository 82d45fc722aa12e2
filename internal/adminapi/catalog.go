package adminapi

import (
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/listing"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"github.com/obrasuite/obrasuite/internal/webserver"
)

// registerCatalogRoutes exposes the synchronized catalog read surface
func registerCatalogRoutes() {
	webserver.ApiGET("/catalog", listCatalog)
	webserver.ApiGET("/catalog/export", exportCatalog)
	webserver.ApiGET("/catalog/sync/status", catalogSyncStatus)
	webserver.ApiPOST("/catalog/sync", triggerCatalogSync)
	webserver.ApiGET("/catalog/:sku", getCatalogProduct)
}

func listCatalog(c echo.Context) error {
	snap := webserver.AppCtx().Catalog().Current()
	if snap == nil {
		return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded", nil)
	}

	page, pageSize := parsePagination(c)
	q := listing.Query{
		Search:   c.QueryParam("q"),
		Sort:     listing.SortOrder(strings.ToLower(c.QueryParam("sort"))),
		Page:     page,
		PageSize: pageSize,
	}
	switch q.Sort {
	case listing.SortAsc, listing.SortDesc:
	default:
		q.Sort = listing.SortNone
	}

	pct := webserver.AppCtx().Discount().Current()
	res := listing.Apply(snap.Products(), pct, q)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":         0,
		"data":         res.Items,
		"total":        res.Total,
		"page":         res.Page,
		"pages":        res.Pages,
		"page_size":    res.PageSize,
		"discount_pct": pct,
		"fetched_at":   snap.FetchedAt(),
	})
}

func getCatalogProduct(c echo.Context) error {
	snap := webserver.AppCtx().Catalog().Current()
	if snap == nil {
		return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded", nil)
	}
	p, found := snap.Lookup(c.Param("sku"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	pct := webserver.AppCtx().Discount().Current()
	return ok(c, listing.PricedProduct{
		Product:         p,
		ListPrice:       pricing.DiscountedPrice(p.UnitPrice, 0),
		DiscountedPrice: pricing.DiscountedPrice(p.UnitPrice, pct),
	})
}

func triggerCatalogSync(c echo.Context) error {
	writeOpLog(c, "catalog_sync", "manual catalog refresh requested")
	if err := webserver.AppCtx().Catalog().Sync(c.Request().Context()); err != nil {
		return fail(c, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog load failed", err.Error())
	}
	return ok(c, webserver.AppCtx().Catalog().Status())
}

func catalogSyncStatus(c echo.Context) error {
	return ok(c, webserver.AppCtx().Catalog().Status())
}

// catalogCSVRow is the flat export shape.
type catalogCSVRow struct {
	Sku             string  `csv:"sku"`
	Name            string  `csv:"name"`
	Category        string  `csv:"category"`
	Unit            string  `csv:"unit_of_measurement"`
	Coefficient     float64 `csv:"coefficient"`
	ListPrice       int64   `csv:"list_price"`
	DiscountedPrice int64   `csv:"discounted_price"`
}

func exportCatalog(c echo.Context) error {
	snap := webserver.AppCtx().Catalog().Current()
	if snap == nil {
		return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded", nil)
	}
	pct := webserver.AppCtx().Discount().Current()

	rows := make([]catalogCSVRow, 0, snap.Len())
	for _, p := range snap.Products() {
		rows = append(rows, catalogCSVRow{
			Sku:             p.Sku,
			Name:            p.Name,
			Category:        p.Category,
			Unit:            string(p.Unit),
			Coefficient:     p.Coefficient,
			ListPrice:       pricing.DiscountedPrice(p.UnitPrice, 0),
			DiscountedPrice: pricing.DiscountedPrice(p.UnitPrice, pct),
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to render catalog export", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="catalog.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(out))
}
