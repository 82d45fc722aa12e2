package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"github.com/obrasuite/obrasuite/pkg/common"
)

// registerOrderRoutes exposes checkout capture. Payment stays external.
func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
}

type orderPayload struct {
	ProjectID string `json:"project_id" form:"project_id"`
	Shipping  string `json:"shipping" form:"shipping"`
	Address   string `json:"address" form:"address"`
	Schedule  string `json:"schedule" form:"schedule"`
	Remark    string `json:"remark" form:"remark"`
}

// createOrder freezes the current cart into an order at today's discount
// and clears the cart on success.
func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if strings.TrimSpace(payload.ProjectID) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "A project must be selected", nil)
	}
	if payload.Shipping != domain.ShippingDelivery && payload.Shipping != domain.ShippingTakeaway {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Shipping must be 'delivery' or 'takeaway'", nil)
	}
	if payload.Shipping == domain.ShippingDelivery &&
		(strings.TrimSpace(payload.Address) == "" || strings.TrimSpace(payload.Schedule) == "") {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Delivery orders need an address and a schedule window", nil)
	}

	store := webserver.AppCtx().CartStore()
	items := store.Items()
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "The cart is empty", nil)
	}

	pct := webserver.AppCtx().Discount().Current()
	order := domain.Order{
		ID:          common.UUIDint64(),
		ProjectID:   payload.ProjectID,
		Shipping:    payload.Shipping,
		Address:     strings.TrimSpace(payload.Address),
		Schedule:    strings.TrimSpace(payload.Schedule),
		DiscountPct: pct,
		Total:       pricing.CartTotal(items, pct),
		Remark:      payload.Remark,
	}
	if order.Shipping == domain.ShippingTakeaway {
		order.Address = webserver.AppCtx().GetSettingsStringValue("orders", "pickup_address")
	}

	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:              common.UUIDint64(),
			OrderID:         order.ID,
			Sku:             it.Product.Sku,
			Name:            it.Product.Name,
			Unit:            string(it.Product.Unit),
			Quantity:        it.Quantity,
			UnitPrice:       it.Product.UnitPrice,
			DiscountedPrice: pricing.DiscountedPrice(it.Product.UnitPrice, pct),
			LineTotal:       pricing.LineTotal(it.Product.UnitPrice, pct, it.Quantity),
		})
	}

	if err := GetDB(c).Create(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err.Error())
	}
	if err := store.Clear(); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Order stored but cart not cleared", err.Error())
	}

	writeOpLog(c, "order_create", fmt.Sprintf("order %d captured for project %s", order.ID, order.ProjectID))
	return ok(c, order)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if project := strings.TrimSpace(c.QueryParam("project_id")); project != "" {
		db = db.Where("project_id = ?", project)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := db.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}
