package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"gorm.io/gorm"
)

// registerDiscountRoutes exposes the storewide discount configuration
func registerDiscountRoutes() {
	webserver.ApiGET("/discount", getDiscount)
	webserver.ApiPUT("/discount", updateDiscount)
}

func getDiscount(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"percentage": webserver.AppCtx().Discount().Current(),
	})
}

type discountPayload struct {
	Percentage float64 `json:"percentage" form:"percentage"`
}

func updateDiscount(c echo.Context) error {
	var payload discountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse discount", err.Error())
	}
	if payload.Percentage < 0 || payload.Percentage > 100 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Percentage must be between 0 and 100", nil)
	}

	repo := pricing.NewGormDiscountRepository(GetDB(c))
	if err := repo.SetPercentage(c.Request().Context(), payload.Percentage); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "No active discount row", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update discount", err.Error())
	}

	writeOpLog(c, "discount_update", fmt.Sprintf("storewide discount set to %.2f%%", payload.Percentage))

	// fan out the refresh signal so cached readers re-read the row
	webserver.AppCtx().Bus().Publish(pricing.TopicDiscountUpdated)

	return ok(c, map[string]interface{}{"percentage": payload.Percentage})
}
