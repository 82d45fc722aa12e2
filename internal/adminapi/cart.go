package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/cart"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"github.com/spf13/cast"
)

// registerCartRoutes exposes the durable cart
func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:sku", adjustCartItem)
	webserver.ApiDELETE("/cart/items/:sku", removeCartItem)
	webserver.ApiDELETE("/cart", clearCart)
}

// cartLine is a cart item with derived display prices.
type cartLine struct {
	domain.CartItem
	ListPrice       int64 `json:"list_price"`
	DiscountedPrice int64 `json:"discounted_price"`
	LineTotal       int64 `json:"line_total"`
}

func cartView(store *cart.Store, pct float64) map[string]interface{} {
	items := store.Items()
	lines := make([]cartLine, len(items))
	for i, it := range items {
		lines[i] = cartLine{
			CartItem:        it,
			ListPrice:       pricing.DiscountedPrice(it.Product.UnitPrice, 0),
			DiscountedPrice: pricing.DiscountedPrice(it.Product.UnitPrice, pct),
			LineTotal:       pricing.LineTotal(it.Product.UnitPrice, pct, it.Quantity),
		}
	}
	return map[string]interface{}{
		"items":        lines,
		"total":        pricing.CartTotal(items, pct),
		"discount_pct": pct,
	}
}

func getCart(c echo.Context) error {
	pct := webserver.AppCtx().Discount().Current()
	return ok(c, cartView(webserver.AppCtx().CartStore(), pct))
}

type addCartPayload struct {
	Sku  string      `json:"sku"`
	Area interface{} `json:"area,omitempty"` // required for area-priced products
}

func addCartItem(c echo.Context) error {
	var payload addCartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}

	snap := webserver.AppCtx().Catalog().Current()
	if snap == nil {
		return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded", nil)
	}
	p, found := snap.Lookup(payload.Sku)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	store := webserver.AppCtx().CartStore()
	if p.IsArea() {
		// invalid area input leaves the cart unchanged
		if err := store.SetArea(p, cast.ToFloat64(payload.Area)); err != nil {
			return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
		}
	} else {
		if err := store.AddOne(p); err != nil {
			return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
		}
	}

	pct := webserver.AppCtx().Discount().Current()
	return ok(c, cartView(store, pct))
}

type adjustCartPayload struct {
	Delta int         `json:"delta,omitempty"`
	Area  interface{} `json:"area,omitempty"`
}

func adjustCartItem(c echo.Context) error {
	var payload adjustCartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse adjustment", err.Error())
	}
	sku := c.Param("sku")
	store := webserver.AppCtx().CartStore()

	var err error
	switch {
	case payload.Area != nil:
		snap := webserver.AppCtx().Catalog().Current()
		if snap == nil {
			return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded", nil)
		}
		p, found := snap.Lookup(sku)
		if !found {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		err = store.SetArea(p, cast.ToFloat64(payload.Area))
	case payload.Delta != 0:
		err = store.AdjustQuantity(sku, payload.Delta)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}

	pct := webserver.AppCtx().Discount().Current()
	return ok(c, cartView(store, pct))
}

func removeCartItem(c echo.Context) error {
	store := webserver.AppCtx().CartStore()
	if err := store.Remove(c.Param("sku")); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}
	pct := webserver.AppCtx().Discount().Current()
	return ok(c, cartView(store, pct))
}

func clearCart(c echo.Context) error {
	store := webserver.AppCtx().CartStore()
	if err := store.Clear(); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to clear cart", err.Error())
	}
	return ok(c, cartView(store, webserver.AppCtx().Discount().Current()))
}
